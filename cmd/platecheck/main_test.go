package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"check": false, "batch": false, "rules": false, "history": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "command %q not registered", name)
	}
}

func TestFlagOverrides(t *testing.T) {
	cmd := rootCmd
	require.NoError(t, cmd.ParseFlags([]string{
		"--timeout=20s", "--retries=5", "--delay=500ms", "--headless=false",
	}))
	defer func() {
		// Reset for other tests.
		flagTimeout = 0
		flagRetries = 0
		flagDelay = 0
		flagHeadless = true
	}()

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, int(20*time.Second/time.Millisecond), cfg.Session.TimeoutMs)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500, cfg.Batch.InterQueryDelayMs)
	assert.False(t, cfg.Session.Headless)
}

func TestExitErrorRendersEmpty(t *testing.T) {
	err := &exitError{code: exitInterrupted}
	assert.Empty(t, err.Error())
	assert.Equal(t, 130, err.code)
}
