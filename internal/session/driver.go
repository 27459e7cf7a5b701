// Package session owns the lifecycle of one interactive browser session
// against the plate registration service. A Session is a disposable resource:
// acquired with Open, driven with Submit, and always released with Close.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Config holds browser and page-interaction settings for the driver.
type Config struct {
	EntryURL       string `yaml:"entry_url"`
	InputSelector  string `yaml:"input_selector"`
	SubmitSelector string `yaml:"submit_selector"`
	ResultSelector string `yaml:"result_selector"`

	Headless   bool   `yaml:"headless"`
	NoSandbox  bool   `yaml:"no_sandbox"`
	BrowserBin string `yaml:"browser_bin"`
	UserAgent  string `yaml:"user_agent"`

	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	TimeoutMs     int `yaml:"timeout_ms"`
	SettleDelayMs int `yaml:"settle_delay_ms"`
}

// DefaultConfig returns settings known to work against the live service.
func DefaultConfig() Config {
	return Config{
		EntryURL:       "https://ezyplates.sa.gov.au/",
		InputSelector:  "#plate-number-line-1",
		SubmitSelector: "#check-availability",
		ResultSelector: "#plate-availability-result",
		Headless:       true,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		TimeoutMs:      15000,
		SettleDelayMs:  2000,
	}
}

// Timeout returns the max wait per page operation.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// SettleDelay returns the pause after the response region appears, giving the
// page time to finish rendering the result text.
func (c Config) SettleDelay() time.Duration {
	if c.SettleDelayMs < 0 {
		return 0
	}
	if c.SettleDelayMs == 0 {
		return 2 * time.Second
	}
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth <= 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight <= 0 {
		return 1080
	}
	return c.ViewportHeight
}

// Session is one live browser connection. Exclusively owned by the driver
// that opened it; released on every exit path via Close.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	closed   bool
}

// Driver launches and drives browser sessions.
type Driver struct {
	cfg    Config
	logger *zap.Logger
}

// NewDriver creates a driver. A nil logger is replaced with a no-op logger.
func NewDriver(cfg Config, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{cfg: cfg, logger: logger}
}

// maskAutomation hides the most common webdriver fingerprint the service
// could use to reject automated sessions.
const maskAutomation = `() => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
}`

// Open launches a browser and prepares a blank page. Any failure here is a
// *LaunchError: the environment cannot run sessions, so retrying cannot help.
func (d *Driver) Open(ctx context.Context) (*Session, error) {
	l := launcher.New().
		Headless(d.cfg.Headless).
		Set("disable-blink-features", "AutomationControlled")
	if d.cfg.BrowserBin != "" {
		l = l.Bin(d.cfg.BrowserBin)
	}
	if d.cfg.NoSandbox {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, &LaunchError{Err: fmt.Errorf("launch browser: %w", err)}
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, &LaunchError{Err: fmt.Errorf("connect to browser: %w", err)}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, &LaunchError{Err: fmt.Errorf("create page: %w", err)}
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             d.cfg.GetViewportWidth(),
		Height:            d.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		d.logger.Warn("failed to set viewport", zap.Error(err))
	}

	if d.cfg.UserAgent != "" {
		if err := (proto.NetworkSetUserAgentOverride{
			UserAgent: d.cfg.UserAgent,
		}).Call(page); err != nil {
			d.logger.Warn("failed to override user agent", zap.Error(err))
		}
	}

	if _, err := page.EvalOnNewDocument(maskAutomation); err != nil {
		d.logger.Warn("failed to install webdriver mask", zap.Error(err))
	}

	d.logger.Debug("browser session opened",
		zap.Bool("headless", d.cfg.Headless),
		zap.String("control_url", controlURL))

	return &Session{launcher: l, browser: browser, page: page}, nil
}

// Submit navigates to the service's entry point, enters the normalized plate,
// triggers the availability check, and returns the response region's text.
// Waits are bounded by Config.Timeout. Failure modes are distinguishable:
// *TimeoutError when the response never populates, *ElementNotFoundError when
// the expected page structure is absent.
func (d *Driver) Submit(ctx context.Context, s *Session, normalizedPlate string) (string, error) {
	timeout := d.cfg.Timeout()
	page := s.page.Context(ctx)

	d.logger.Debug("navigating to service",
		zap.String("url", d.cfg.EntryURL),
		zap.String("plate", normalizedPlate))

	if err := page.Timeout(timeout).Navigate(d.cfg.EntryURL); err != nil {
		return "", d.asTimeout("page navigation", timeout, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return "", d.asTimeout("page load", timeout, err)
	}

	input, err := page.Timeout(timeout).Element(d.cfg.InputSelector)
	if err != nil {
		return "", d.asMissing(d.cfg.InputSelector, err)
	}
	// Clear any residual value before typing.
	_ = input.SelectAllText()
	if err := input.Input(normalizedPlate); err != nil {
		return "", fmt.Errorf("enter plate: %w", err)
	}

	submit, err := page.Timeout(timeout).Element(d.cfg.SubmitSelector)
	if err != nil {
		return "", d.asMissing(d.cfg.SubmitSelector, err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", fmt.Errorf("trigger submission: %w", err)
	}

	region, err := page.Timeout(timeout).Element(d.cfg.ResultSelector)
	if err != nil {
		return "", d.asTimeout("availability response", timeout, err)
	}

	text, err := d.readResponse(ctx, region, timeout)
	if err != nil {
		return "", err
	}

	d.logger.Debug("response received", zap.String("plate", normalizedPlate))
	return text, nil
}

// readResponse waits out the settle delay, then polls the response region
// until it carries text or the timeout elapses.
func (d *Driver) readResponse(ctx context.Context, region *rod.Element, timeout time.Duration) (string, error) {
	if err := sleepCtx(ctx, d.cfg.SettleDelay()); err != nil {
		return "", err
	}

	deadline := time.Now().Add(timeout)
	for {
		text, err := region.Text()
		if err != nil {
			return "", d.asTimeout("response text", timeout, err)
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		if time.Now().After(deadline) {
			return "", &TimeoutError{Op: "availability response text", Wait: timeout}
		}
		if err := sleepCtx(ctx, 250*time.Millisecond); err != nil {
			return "", err
		}
	}
}

// Close releases all resources tied to the session. Idempotent; never errors.
// Safe on a nil session.
func (d *Driver) Close(s *Session) {
	if s == nil || s.closed {
		return
	}
	s.closed = true

	if s.page != nil {
		if err := s.page.Close(); err != nil {
			d.logger.Debug("page close", zap.Error(err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			d.logger.Debug("browser close", zap.Error(err))
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	d.logger.Debug("browser session closed")
}

// asTimeout converts a deadline expiry into a *TimeoutError; context
// cancellation and other failures pass through wrapped.
func (d *Driver) asTimeout(op string, wait time.Duration, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Wait: wait, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// asMissing converts a lookup failure into a *ElementNotFoundError. A deadline
// expiry on a structural element means the layout never rendered the element.
func (d *Driver) asMissing(selector string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &ElementNotFoundError{Selector: selector, Err: err}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
