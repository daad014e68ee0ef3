package schemas

import (
	"context"
	"time"
)

// Page is the abstract page-interaction capability the engine drives. It is
// implemented by the browser layer (internal/browser) and by test doubles;
// the engine itself never depends on a concrete browser technology.
//
// One Page instance is owned by exactly one in-flight scenario. Pages are not
// shared across concurrently executing scenarios.
type Page interface {
	// Navigate loads the given URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL the page currently shows.
	CurrentURL(ctx context.Context) (string, error)

	// Content returns the rendered markup of the page. Callers are expected
	// to perform any case-insensitive comparison themselves.
	Content(ctx context.Context) (string, error)

	// Find probes for the presence of an element matching the selector,
	// waiting up to timeout. It returns ErrElementAbsent (possibly wrapped)
	// when nothing matched within the window; any other error indicates the
	// page itself is broken.
	Find(ctx context.Context, selector string, timeout time.Duration) (ElementHandle, error)

	// Close releases the page and its underlying session.
	Close(ctx context.Context) error
}

// ElementHandle is a live handle to a resolved page element.
type ElementHandle interface {
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
	Click(ctx context.Context) error
}

// PageFactory mints isolated Page instances, one per in-flight scenario.
type PageFactory interface {
	NewPage(ctx context.Context) (Page, error)
}
