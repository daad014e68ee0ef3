// Package browser is the concrete page capability behind the engine's
// abstract schemas.Page interface, implemented over chromedp. The engine
// never imports this package; it is wired in at the command layer.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/config"
)

// Manager owns one browser process allocator and mints isolated tab sessions
// from it, one per in-flight scenario.
type Manager struct {
	cfg         config.BrowserConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewManager prepares the exec allocator. The browser process itself starts
// lazily with the first session.
func NewManager(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) *Manager {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
	return &Manager{
		cfg:         cfg,
		logger:      logger.With(zap.String("component", "browser")),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// NewPage creates an isolated tab context and returns it as a page
// capability. Each page owns its own chromedp context; concurrent scenarios
// never share one.
func (m *Manager) NewPage(ctx context.Context) (schemas.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx)

	// Running an empty task forces the tab (and on first use, the browser
	// process) to actually start, so session failures surface here rather
	// than on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("starting browser session: %w", err)
	}

	m.logger.Debug("Browser session created")
	return &session{
		ctx:    tabCtx,
		cancel: tabCancel,
		cfg:    m.cfg,
		logger: m.logger,
	}, nil
}

// Close tears down the allocator and every session derived from it.
func (m *Manager) Close() {
	m.allocCancel()
	m.logger.Debug("Browser allocator shut down")
}

// execOptions translates BrowserConfig into allocator flags. Extra args use
// the chrome switch syntax with the leading dashes stripped, either "flag" or
// "flag=value".
func execOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.IgnoreCertErrors)
	}
	for _, arg := range cfg.Args {
		if key, value, found := strings.Cut(arg, "="); found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}
	return opts
}
