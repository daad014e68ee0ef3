package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/config"
)

// interactionTimeout bounds individual element operations. These are short
// actions; anything slower means the page is wedged.
const interactionTimeout = 10 * time.Second

// session implements schemas.Page over a single chromedp tab context.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    config.BrowserConfig
	logger *zap.Logger
}

var _ schemas.Page = (*session)(nil)

// run executes chromedp actions against the tab under the given timeout,
// honoring cancellation of both the caller's context and the session.
func (s *session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, opCancel := context.WithTimeout(s.ctx, timeout)
	defer opCancel()

	// The chromedp context must be the parent, so caller cancellation is
	// propagated by hand.
	stop := context.AfterFunc(ctx, opCancel)
	defer stop()

	if err := chromedp.Run(opCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Navigate loads the URL and waits for the document body to be ready.
func (s *session) Navigate(ctx context.Context, url string) error {
	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s.logger.Debug("Navigating", zap.String("url", url))
	err := s.run(ctx, timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// CurrentURL returns the tab's current location.
func (s *session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, interactionTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("reading current URL: %w", err)
	}
	return url, nil
}

// Content returns the rendered markup of the whole document.
func (s *session) Content(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, interactionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page content: %w", err)
	}
	return html, nil
}

// Find waits up to timeout for an element matching the selector to be present
// in the DOM. A timeout reads as schemas.ErrElementAbsent; any other failure
// is a real page fault.
func (s *session) Find(ctx context.Context, selector string, timeout time.Duration) (schemas.ElementHandle, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, timeout, chromedp.Nodes(selector, &nodes, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, schemas.ErrElementAbsent
		}
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, schemas.ErrElementAbsent
	}

	return &element{session: s, selector: selector}, nil
}

// Close shuts the tab down.
func (s *session) Close(ctx context.Context) error {
	s.cancel()
	return nil
}

// element implements schemas.ElementHandle. The handle pins the selector that
// matched; chromedp re-resolves it per action, which is how its actions work
// against a live DOM.
type element struct {
	session  *session
	selector string
}

var _ schemas.ElementHandle = (*element)(nil)

// Clear empties the element's value through the DOM and fires input/change
// events so reactive frameworks notice. SetValue alone misfires on
// transiently non-interactable nodes.
func (e *element) Clear(ctx context.Context) error {
	jsClear := `(function(sel) {
		const el = document.querySelector(sel);
		if (!el || el.disabled || el.readOnly) {
			return false;
		}
		el.value = "";
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})(` + strconv.Quote(e.selector) + `)`

	var cleared bool
	err := e.session.run(ctx, interactionTimeout,
		chromedp.WaitVisible(e.selector, chromedp.ByQuery),
		chromedp.Evaluate(jsClear, &cleared, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithSilent(true)
		}),
	)
	if err != nil {
		return fmt.Errorf("clearing %q: %w", e.selector, err)
	}
	if !cleared {
		return fmt.Errorf("clearing %q: element missing, disabled, or read-only", e.selector)
	}
	return nil
}

// Type sends the text to the element as key events.
func (e *element) Type(ctx context.Context, text string) error {
	err := e.session.run(ctx, interactionTimeout,
		chromedp.SendKeys(e.selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("typing into %q: %w", e.selector, err)
	}
	return nil
}

// Click scrolls the element into view and clicks it.
func (e *element) Click(ctx context.Context) error {
	err := e.session.run(ctx, interactionTimeout,
		chromedp.ScrollIntoView(e.selector, chromedp.ByQuery),
		chromedp.WaitVisible(e.selector, chromedp.ByQuery),
		chromedp.Click(e.selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("clicking %q: %w", e.selector, err)
	}
	return nil
}
