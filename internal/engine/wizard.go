package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"autoapply-engine/internal/domain"
	"autoapply-engine/internal/driver"
)

// Outcome is a terminal state of the apply wizard for one listing.
type Outcome string

const (
	// OutcomeCompleted: progress reached 100 and the application went in.
	OutcomeCompleted Outcome = "completed"
	// OutcomeStuck: progress repeated, read 0 on entry, or the step cap
	// was hit. Recorded as a failed application.
	OutcomeStuck Outcome = "stuck"
	// OutcomeNoResume: the wizard offered no resume to select.
	OutcomeNoResume Outcome = "no-resume"
	// OutcomeAlreadyApplied: the board itself shows no apply control. Not
	// written to the ledger; only the ledger-based skip is.
	OutcomeAlreadyApplied Outcome = "already-applied"
)

// maxWizardSteps caps the stepping loop. The stuck check alone does not
// terminate a wizard whose progress keeps changing without ever reaching
// 100, so the cap converts that into a Stuck outcome.
const maxWizardSteps = 40

// WizardResult carries the terminal outcome and, when Recorded is true,
// the ledger record the caller must append.
type WizardResult struct {
	Outcome  Outcome
	Record   domain.AppliedJob
	Recorded bool
}

// Wizard drives a single listing's multi-step apply flow to a terminal
// outcome. It is a state machine:
//
//	Opened -> ApplyInitiated -> Stepping -> Completed | Stuck | NoResume
//	                         \-> AlreadyApplied
//
// Only Stepping self-loops. Driver failures are returned as errors; the
// caller abandons the listing and force-closes whatever is open.
type Wizard struct {
	drv driver.Driver
	sel Selectors
}

func NewWizard(drv driver.Driver, sel Selectors) *Wizard {
	return &Wizard{drv: drv, sel: sel}
}

func (w *Wizard) Run(ctx context.Context, listing driver.Handle, details domain.JobDetails) (WizardResult, error) {
	// Details were extracted by the caller; re-confirm before acting.
	if !details.Complete() {
		return WizardResult{}, fmt.Errorf("wizard: incomplete details for %q", details.Title)
	}

	record := func(ok bool) domain.AppliedJob {
		return domain.AppliedJob{
			Title:               details.Title,
			Company:             details.Company,
			AppliedSuccessfully: ok,
		}
	}

	// ApplyInitiated. No apply control means the board already has an
	// application on file for this session.
	applyBtn, err := w.drv.Find(ctx, w.sel.ApplyButton)
	if err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			log.Printf("[wizard] no apply control title=%q company=%q, board says already applied", details.Title, details.Company)
			return WizardResult{Outcome: OutcomeAlreadyApplied}, nil
		}
		return WizardResult{}, err
	}
	if err := w.drv.ClickHandle(ctx, applyBtn); err != nil {
		return WizardResult{}, fmt.Errorf("wizard open: %w", err)
	}

	// The modal's primary action enters Stepping.
	if err := w.drv.Click(ctx, w.sel.AdvanceButton); err != nil {
		return WizardResult{}, fmt.Errorf("wizard start: %w", err)
	}

	// First progress reading decides whether the wizard really started: an
	// immediate 0 means the board short-circuited.
	bar, err := w.drv.WaitFor(ctx, w.sel.ProgressBar)
	if err != nil {
		return WizardResult{}, fmt.Errorf("wizard progress bar: %w", err)
	}
	progress, err := w.drv.NumericAttr(ctx, bar, w.sel.ProgressAttr)
	if err != nil {
		return WizardResult{}, fmt.Errorf("wizard progress: %w", err)
	}
	if progress == 0 {
		// Re-read once: a wizard that opens at 0 and stays there never
		// started (the board short-circuited the apply).
		progress, err = w.drv.NumericAttr(ctx, bar, w.sel.ProgressAttr)
		if err != nil {
			return WizardResult{}, fmt.Errorf("wizard progress: %w", err)
		}
		if progress == 0 {
			log.Printf("[wizard] zero progress on entry title=%q company=%q", details.Title, details.Company)
			if err := w.closeDiscarding(ctx); err != nil {
				return WizardResult{}, err
			}
			return WizardResult{Outcome: OutcomeStuck, Record: record(false), Recorded: true}, nil
		}
	}

	// Resume selection gates the rest of the flow.
	resume, err := w.drv.Find(ctx, w.sel.ResumeOption)
	if err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			log.Printf("[wizard] no resume available title=%q company=%q", details.Title, details.Company)
			if cerr := w.closeDiscarding(ctx); cerr != nil {
				return WizardResult{}, cerr
			}
			return WizardResult{Outcome: OutcomeNoResume, Record: record(false), Recorded: true}, nil
		}
		return WizardResult{}, fmt.Errorf("wizard resume: %w", err)
	}
	if err := w.drv.ClickHandle(ctx, resume); err != nil {
		return WizardResult{}, fmt.Errorf("wizard resume select: %w", err)
	}

	for steps := 0; progress != 100; steps++ {
		if steps >= maxWizardSteps {
			log.Printf("[wizard] step cap hit at progress=%d title=%q company=%q", progress, details.Title, details.Company)
			if err := w.closeDiscarding(ctx); err != nil {
				return WizardResult{}, err
			}
			return WizardResult{Outcome: OutcomeStuck, Record: record(false), Recorded: true}, nil
		}

		if err := w.drv.Click(ctx, w.sel.AdvanceButton); err != nil {
			return WizardResult{}, fmt.Errorf("wizard advance: %w", err)
		}

		next, err := w.drv.NumericAttr(ctx, bar, w.sel.ProgressAttr)
		if err != nil {
			return WizardResult{}, fmt.Errorf("wizard progress: %w", err)
		}
		if next != 0 && next == progress {
			log.Printf("[wizard] stuck at progress=%d title=%q company=%q", progress, details.Title, details.Company)
			if err := w.closeDiscarding(ctx); err != nil {
				return WizardResult{}, err
			}
			return WizardResult{Outcome: OutcomeStuck, Record: record(false), Recorded: true}, nil
		}
		progress = next
	}

	// Completed. A submitted application dismisses without the discard
	// confirmation a cancelled one needs.
	log.Printf("[wizard] completed title=%q company=%q", details.Title, details.Company)
	if err := w.drv.Click(ctx, w.sel.DismissButton); err != nil && !errors.Is(err, driver.ErrNotFound) {
		return WizardResult{}, fmt.Errorf("wizard dismiss: %w", err)
	}
	return WizardResult{Outcome: OutcomeCompleted, Record: record(true), Recorded: true}, nil
}

// closeDiscarding cancels out of an open wizard: dismiss, then confirm the
// discard prompt.
func (w *Wizard) closeDiscarding(ctx context.Context) error {
	if err := w.drv.Click(ctx, w.sel.DismissButton); err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			return nil // nothing open
		}
		return fmt.Errorf("wizard close: %w", err)
	}
	if err := w.drv.Click(ctx, w.sel.DiscardConfirm); err != nil && !errors.Is(err, driver.ErrNotFound) {
		return fmt.Errorf("wizard discard: %w", err)
	}
	return nil
}

// CloseAbandoned force-closes any wizard left open after a listing-level
// failure, so the next listing starts from a clean page. Best effort.
func (w *Wizard) CloseAbandoned(ctx context.Context) {
	if err := w.closeDiscarding(ctx); err != nil {
		log.Printf("[wizard] abandon close: %v", err)
	}
}
