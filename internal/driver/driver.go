package driver

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a selector matches nothing, or when a wait
// on it times out. Callers decide whether absence is an error; for the
// engine it usually means "skip" or "no more pages", not "abort the run".
var ErrNotFound = errors.New("driver: element not found")

// Handle is an opaque reference to one rendered element. It has no
// identity beyond its position in the page the driver currently holds, and
// it is invalidated by the next Navigate.
type Handle interface{}

// Driver is the automation session the engine drives. The session is
// acquired and authenticated elsewhere; the engine only consumes it.
// Every method hits the remote page and may fail with ErrNotFound or a
// transport error. Implementations need not be safe for concurrent use:
// the engine is strictly sequential.
type Driver interface {
	// Navigate loads the given URL and blocks until the page settles.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until the selector matches, then returns its handle.
	WaitFor(ctx context.Context, selector string) (Handle, error)

	// Find returns the first match without waiting; ErrNotFound if absent.
	Find(ctx context.Context, selector string) (Handle, error)

	// All returns every current match in presentation order. No matches is
	// an empty slice, not an error.
	All(ctx context.Context, selector string) ([]Handle, error)

	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error

	// ClickHandle clicks a previously obtained element.
	ClickHandle(ctx context.Context, h Handle) error

	// ScrollToEnd scrolls a container to its bottom, triggering any
	// lazy-loaded content.
	ScrollToEnd(ctx context.Context, h Handle) error

	// ExtractFields reads the text of one sub-selector per named field,
	// scoped to h. Missing fields come back as empty strings.
	ExtractFields(ctx context.Context, h Handle, fields map[string]string) (map[string]string, error)

	// NumericAttr reads an attribute of h as an integer.
	NumericAttr(ctx context.Context, h Handle, attr string) (int, error)
}
