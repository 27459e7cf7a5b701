// Package config loads platecheck configuration: built-in defaults, overlaid
// by an optional YAML file, overlaid by PLATECHECK_* environment variables.
// Flags are applied last, by the CLI layer.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"platecheck/internal/batch"
	"platecheck/internal/classify"
	"platecheck/internal/query"
	"platecheck/internal/result"
	"platecheck/internal/session"
)

// Config holds all platecheck configuration.
type Config struct {
	Session session.Config `yaml:"session"`
	Retry   query.Config   `yaml:"retry"`
	Batch   batch.Config   `yaml:"batch"`
	History HistoryConfig  `yaml:"history"`

	// Rules overrides the built-in classification patterns. Order matters;
	// the first match wins. Empty means the built-in defaults.
	Rules []RuleConfig `yaml:"rules"`
}

// HistoryConfig configures the local outcome journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RuleConfig is one classification pattern as written in the config file.
type RuleConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Status  string `yaml:"status"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Session: session.DefaultConfig(),
		Retry:   query.DefaultConfig(),
		Batch:   batch.DefaultConfig(),
	}
}

// Load builds the effective configuration. An empty path means defaults plus
// environment only; a named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if _, err := cfg.ClassifierRules(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies PLATECHECK_* environment variables over the
// current values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PLATECHECK_ENTRY_URL"); v != "" {
		c.Session.EntryURL = v
	}
	if v := os.Getenv("PLATECHECK_BROWSER_BIN"); v != "" {
		c.Session.BrowserBin = v
	}
	if v := os.Getenv("PLATECHECK_USER_AGENT"); v != "" {
		c.Session.UserAgent = v
	}
	if v := os.Getenv("PLATECHECK_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Session.Headless = b
		}
	}
	if v := os.Getenv("PLATECHECK_HISTORY_PATH"); v != "" {
		c.History.Enabled = true
		c.History.Path = v
	}
}

// ClassifierRules compiles the configured patterns, or the built-in defaults
// when none are configured.
func (c *Config) ClassifierRules() ([]classify.Rule, error) {
	if len(c.Rules) == 0 {
		return classify.DefaultRules(), nil
	}
	rules := make([]classify.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		status := result.Status(rc.Status)
		switch status {
		case result.StatusAvailable, result.StatusUnavailable, result.StatusUnknown, result.StatusError:
		default:
			return nil, fmt.Errorf("rule %d (%s): unknown status %q", i+1, rc.Name, rc.Status)
		}
		pattern, err := regexp.Compile(rc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, rc.Name, err)
		}
		rules = append(rules, classify.Rule{Name: rc.Name, Pattern: pattern, Status: status})
	}
	return rules, nil
}
