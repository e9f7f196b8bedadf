package engine

import (
	"context"

	"autoapply-engine/internal/driver"
)

// ListLoader enumerates the job listings currently rendered on a results
// page, in presentation order. An empty page is an empty slice, not an
// error: the caller treats it as nothing to do.
type ListLoader struct {
	drv driver.Driver
	sel Selectors
}

func NewListLoader(drv driver.Driver, sel Selectors) *ListLoader {
	return &ListLoader{drv: drv, sel: sel}
}

func (l *ListLoader) Load(ctx context.Context) ([]driver.Handle, error) {
	return l.drv.All(ctx, l.sel.Listing)
}
