package engine

import (
	"context"
	"fmt"

	"autoapply-engine/internal/driver"
)

// fakeListing scripts one listing's behavior through the fake driver.
type fakeListing struct {
	details  map[string]string
	hasApply bool
	resume   bool
	progress []int // NumericAttr readings, served in order; last repeats
	readIdx  int
}

type fakePage struct {
	listings []*fakeListing
	hasNext  bool
}

// handle kinds handed out by the fake driver
type (
	containerHandle struct{}
	nextHandle      struct{}
	progressHandle  struct{}
	applyHandle     struct{}
	resumeHandle    struct{}
	listingHandle   struct{ fix *fakeListing }
)

// fakeDriver replays a scripted session. Selectors are matched against the
// engine's Selectors struct, so tests exercise the real wiring.
type fakeDriver struct {
	sel   Selectors
	pages []fakePage

	pageIdx int
	cur     *fakeListing

	navigations   []string
	nextClicks    int
	advanceClicks int
	dismissClicks int
	discardClicks int
	scrolls       int

	failNavigate bool
	noContainer  bool
	failExtract  map[*fakeListing]bool
}

func newFakeDriver(sel Selectors, pages ...fakePage) *fakeDriver {
	return &fakeDriver{sel: sel, pages: pages, failExtract: map[*fakeListing]bool{}}
}

func (f *fakeDriver) page() fakePage {
	if len(f.pages) == 0 {
		return fakePage{}
	}
	if f.pageIdx >= len(f.pages) {
		return f.pages[len(f.pages)-1]
	}
	return f.pages[f.pageIdx]
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	if f.failNavigate {
		return fmt.Errorf("fake: navigation refused")
	}
	f.navigations = append(f.navigations, url)
	f.pageIdx = 0
	return nil
}

func (f *fakeDriver) WaitFor(ctx context.Context, selector string) (driver.Handle, error) {
	switch selector {
	case f.sel.ResultsContainer:
		if f.noContainer {
			return nil, fmt.Errorf("wait %q: %w", selector, driver.ErrNotFound)
		}
		return containerHandle{}, nil
	case f.sel.DetailsPane:
		if f.cur == nil {
			return nil, fmt.Errorf("wait %q: %w", selector, driver.ErrNotFound)
		}
		return listingHandle{fix: f.cur}, nil
	case f.sel.ProgressBar:
		return progressHandle{}, nil
	}
	return f.Find(ctx, selector)
}

func (f *fakeDriver) Find(_ context.Context, selector string) (driver.Handle, error) {
	switch selector {
	case f.sel.ApplyButton:
		if f.cur != nil && f.cur.hasApply {
			return applyHandle{}, nil
		}
	case f.sel.ResumeOption:
		if f.cur != nil && f.cur.resume {
			return resumeHandle{}, nil
		}
	case f.sel.NextPage:
		if f.page().hasNext {
			return nextHandle{}, nil
		}
	}
	return nil, fmt.Errorf("find %q: %w", selector, driver.ErrNotFound)
}

func (f *fakeDriver) All(_ context.Context, selector string) ([]driver.Handle, error) {
	if selector != f.sel.Listing {
		return nil, nil
	}
	var out []driver.Handle
	for _, l := range f.page().listings {
		out = append(out, listingHandle{fix: l})
	}
	return out, nil
}

func (f *fakeDriver) Click(_ context.Context, selector string) error {
	switch selector {
	case f.sel.AdvanceButton:
		f.advanceClicks++
	case f.sel.DismissButton:
		f.dismissClicks++
	case f.sel.DiscardConfirm:
		f.discardClicks++
	}
	return nil
}

func (f *fakeDriver) ClickHandle(_ context.Context, h driver.Handle) error {
	switch t := h.(type) {
	case listingHandle:
		f.cur = t.fix
	case nextHandle:
		f.nextClicks++
		if f.pageIdx < len(f.pages)-1 {
			f.pageIdx++
		}
	}
	return nil
}

func (f *fakeDriver) ScrollToEnd(_ context.Context, _ driver.Handle) error {
	f.scrolls++
	return nil
}

func (f *fakeDriver) ExtractFields(_ context.Context, h driver.Handle, fields map[string]string) (map[string]string, error) {
	lh, ok := h.(listingHandle)
	if !ok {
		return nil, fmt.Errorf("fake: extract on non-listing handle")
	}
	if f.failExtract[lh.fix] {
		return nil, fmt.Errorf("fake: extract refused")
	}
	out := make(map[string]string, len(fields))
	for name := range fields {
		out[name] = lh.fix.details[name]
	}
	return out, nil
}

func (f *fakeDriver) NumericAttr(_ context.Context, h driver.Handle, _ string) (int, error) {
	if _, ok := h.(progressHandle); !ok {
		return 0, fmt.Errorf("fake: numeric attr on non-progress handle")
	}
	if f.cur == nil || len(f.cur.progress) == 0 {
		return 0, fmt.Errorf("fake: no progress scripted")
	}
	i := f.cur.readIdx
	if i >= len(f.cur.progress) {
		i = len(f.cur.progress) - 1 // last reading repeats
	} else {
		f.cur.readIdx++
	}
	return f.cur.progress[i], nil
}
