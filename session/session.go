// Package session launches playwright browsers and creates isolated pages for the todo page object.
package session

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/hashicorp/go-multierror"
	"github.com/playwright-community/playwright-go"
)

// Browsers lists supported browser engines.
var Browsers = []string{"chromium", "firefox", "webkit"}

// Config defines how the browser is started and how pages are created.
type Config struct {
	Browser  string        // browser engine, one of Browsers
	Headless bool          // run without a visible window
	SlowMo   time.Duration // delay between playwright operations, for observation
	Install  bool          // install driver and browser before start
	Timeout  time.Duration // default timeout of page actions, playwright default if zero
	Width    int           // viewport width, playwright default if zero
	Height   int           // viewport height, playwright default if zero
}

// Validate checks the config for unsupported values.
func (c Config) Validate() error {
	if !slices.Contains(Browsers, c.Browser) {
		return fmt.Errorf("unsupported browser %q, use one of %v", c.Browser, Browsers)
	}
	if c.SlowMo < 0 || c.Timeout < 0 {
		return errors.New("slow-mo and timeout can't be negative")
	}
	if (c.Width == 0) != (c.Height == 0) || c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}
	return nil
}

// Browser is a launched browser. Each page gets its own browser context,
// so cookies and storage are isolated between pages.
type Browser struct {
	playwright.Browser
	cfg  Config
	stop func() error
}

// Launch starts playwright and the browser defined by cfg.
func Launch(cfg Config) (*Browser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Install {
		lgr.Printf("[INFO] installing playwright driver and %s", cfg.Browser)
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{cfg.Browser}}); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	lgr.Printf("[DEBUG] launching %s, headless=%v, slow-mo=%v", cfg.Browser, cfg.Headless, cfg.SlowMo)
	browser, err := browserType(pw, cfg.Browser).Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Browser, err)
	}

	return &Browser{Browser: browser, cfg: cfg, stop: pw.Stop}, nil
}

// NewPage creates a page in a new browser context. If statePath points to an existing
// storage state file, the context starts with its cookies and local storage.
func (b *Browser) NewPage(statePath string) (playwright.Page, error) {
	opts := playwright.BrowserNewContextOptions{}
	if b.cfg.Width > 0 && b.cfg.Height > 0 {
		opts.Viewport = &playwright.Size{Width: b.cfg.Width, Height: b.cfg.Height}
	}
	if statePath != "" {
		if _, err := os.Stat(statePath); err == nil {
			lgr.Printf("[DEBUG] restore storage state from %s", statePath)
			opts.StorageStatePath = playwright.String(statePath)
		}
	}

	bctx, err := b.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if b.cfg.Timeout > 0 {
		page.SetDefaultTimeout(float64(b.cfg.Timeout.Milliseconds()))
	}
	return page, nil
}

// Close closes the browser and stops playwright.
func (b *Browser) Close() error {
	var errs *multierror.Error
	if err := b.Browser.Close(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if b.stop != nil {
		if err := b.stop(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}
	return errs.ErrorOrNil()
}

// SaveState writes cookies and local storage of the page context to path.
func SaveState(page playwright.Page, path string) error {
	if _, err := page.Context().StorageState(path); err != nil {
		return fmt.Errorf("failed to save storage state to %s: %w", path, err)
	}
	lgr.Printf("[DEBUG] storage state saved to %s", path)
	return nil
}

func browserType(pw *playwright.Playwright, name string) playwright.BrowserType {
	switch name {
	case "firefox":
		return pw.Firefox
	case "webkit":
		return pw.WebKit
	default:
		return pw.Chromium
	}
}
