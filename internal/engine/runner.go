package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"autoapply-engine/internal/domain"
	"autoapply-engine/internal/driver"
	"autoapply-engine/internal/events"
	"autoapply-engine/internal/ledger"
	"autoapply-engine/internal/search"
)

// MaxPagesPerQuery bounds the page loop for one query.
const MaxPagesPerQuery = 5

// errLedgerWrite marks a failed ledger append. Unlike every other failure
// it aborts the whole run: without a working ledger, a retry would
// double-apply.
var errLedgerWrite = errors.New("ledger write failed")

type Options struct {
	// MaxPages overrides MaxPagesPerQuery; <= 0 means the default.
	MaxPages int
	// ScreenOnly runs queries, pagination, and screening but never opens
	// the wizard or writes the ledger. Pairs with the snapshot driver for
	// dry runs.
	ScreenOnly bool
}

// Runner sequences queries, pages, and listings. One driver session, one
// runner, strictly sequential: the apply wizard is a page-global modal, so
// two concurrent flows against one session are undefined.
type Runner struct {
	drv    driver.Driver
	store  ledger.Store
	loader *ListLoader
	wizard *Wizard
	sel    Selectors
	hub    *events.Hub // optional
	opts   Options
}

func NewRunner(drv driver.Driver, store ledger.Store, sel Selectors, hub *events.Hub, opts Options) *Runner {
	return &Runner{
		drv:    drv,
		store:  store,
		loader: NewListLoader(drv, sel),
		wizard: NewWizard(drv, sel),
		sel:    sel,
		hub:    hub,
		opts:   opts,
	}
}

func (r *Runner) maxPages() int {
	if r.opts.MaxPages > 0 {
		return r.opts.MaxPages
	}
	return MaxPagesPerQuery
}

// Run processes every query in order. The ledger is loaded once, before
// any query. Per-query failures abandon that query only; a ledger write
// failure aborts the run.
func (r *Runner) Run(ctx context.Context, queries []domain.Query) error {
	records, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	idx := ledger.NewIndex(records)
	log.Printf("[runner] ledger loaded records=%d queries=%d", len(records), len(queries))

	for i, q := range queries {
		r.publish(events.TypeQueryStarted, map[string]any{"keywords": q.Keywords, "location": q.Options.Location})
		if err := r.runQuery(ctx, q, idx); err != nil {
			if errors.Is(err, errLedgerWrite) || ctx.Err() != nil {
				return err
			}
			log.Printf("[runner] query %d/%d failed: %v", i+1, len(queries), err)
		}
	}

	r.publish(events.TypeRunFinished, map[string]any{"ledger_size": idx.Len()})
	return nil
}

func (r *Runner) runQuery(ctx context.Context, q domain.Query, idx *ledger.Index) error {
	url := search.BuildURL(q)
	log.Printf("[runner] query keywords=%q location=%q url=%s", q.Keywords, q.Options.Location, url)

	if err := r.drv.Navigate(ctx, url); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	container, err := r.drv.WaitFor(ctx, r.sel.ResultsContainer)
	if err != nil {
		return fmt.Errorf("results container: %w", err)
	}

	for page := 1; ; page++ {
		// Scrolling to the bottom forces lazy-loaded listings to render.
		if err := r.drv.ScrollToEnd(ctx, container); err != nil {
			return fmt.Errorf("page %d scroll: %w", page, err)
		}

		listings, err := r.loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("page %d listings: %w", page, err)
		}
		r.publish(events.TypePageLoaded, map[string]any{"page": page, "listings": len(listings)})
		log.Printf("[runner] page=%d listings=%d", page, len(listings))

		for n, listing := range listings {
			err := r.processListing(ctx, q, listing, idx)
			if err == nil {
				continue
			}
			if errors.Is(err, errLedgerWrite) || ctx.Err() != nil {
				return err
			}
			// Listing-level failure: log, make sure no wizard is left
			// open, move on.
			log.Printf("[runner] page=%d listing=%d abandoned: %v", page, n+1, err)
			r.wizard.CloseAbandoned(ctx)
		}

		if page >= r.maxPages() {
			log.Printf("[runner] page cap reached page=%d", page)
			return nil
		}

		// Any failure locating or following the next-page control means
		// there are no more pages, not that the query failed.
		next, err := r.drv.Find(ctx, r.sel.NextPage)
		if err != nil {
			log.Printf("[runner] no next page after page=%d", page)
			return nil
		}
		if err := r.drv.ClickHandle(ctx, next); err != nil {
			log.Printf("[runner] next page click failed after page=%d: %v", page, err)
			return nil
		}
		container, err = r.drv.WaitFor(ctx, r.sel.ResultsContainer)
		if err != nil {
			log.Printf("[runner] results container missing after page=%d: %v", page, err)
			return nil
		}
	}
}

// processListing opens one listing, screens it, and (if accepted) drives
// the wizard and appends the outcome.
func (r *Runner) processListing(ctx context.Context, q domain.Query, listing driver.Handle, idx *ledger.Index) error {
	if err := r.drv.ClickHandle(ctx, listing); err != nil {
		return fmt.Errorf("open listing: %w", err)
	}
	pane, err := r.drv.WaitFor(ctx, r.sel.DetailsPane)
	if err != nil {
		return fmt.Errorf("details pane: %w", err)
	}
	fields, err := r.drv.ExtractFields(ctx, pane, r.sel.DetailFields())
	if err != nil {
		return fmt.Errorf("extract details: %w", err)
	}
	details := domain.JobDetails{
		Title:       fields["title"],
		Company:     fields["company"],
		Description: fields["description"],
	}

	dec := ShouldApply(details, idx, q.Options)
	if !dec.Apply {
		log.Printf("[filter] skip (%s) title=%q company=%q", dec.Reason, details.Title, details.Company)
		r.publish(events.TypeListingSkipped, map[string]any{
			"reason": string(dec.Reason), "title": details.Title, "company": details.Company,
		})
		return nil
	}

	if r.opts.ScreenOnly {
		log.Printf("[filter] would apply title=%q company=%q", details.Title, details.Company)
		return nil
	}

	res, err := r.wizard.Run(ctx, listing, details)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	if res.Outcome == OutcomeAlreadyApplied {
		// The board's own already-applied state, distinct from the ledger
		// skip. Observable but never recorded.
		r.publish(events.TypeAlreadyApplied, map[string]any{"title": details.Title, "company": details.Company})
		return nil
	}

	if res.Recorded {
		if err := r.store.Append(ctx, res.Record); err != nil {
			return fmt.Errorf("%w: %v", errLedgerWrite, err)
		}
		idx.Add(res.Record)
		log.Printf("[ledger] recorded outcome=%s success=%t title=%q company=%q",
			res.Outcome, res.Record.AppliedSuccessfully, res.Record.Title, res.Record.Company)
		r.publish(events.TypeApplicationRecord, map[string]any{
			"outcome": string(res.Outcome), "success": res.Record.AppliedSuccessfully,
			"title": details.Title, "company": details.Company,
		})
	}
	return nil
}

func (r *Runner) publish(typ string, data any) {
	if r.hub == nil {
		return
	}
	r.hub.Publish(events.Make(typ, data))
}
