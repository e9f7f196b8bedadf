package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoapply-engine/internal/domain"
)

func wizardFor(fix *fakeListing) (*Wizard, *fakeDriver) {
	sel := DefaultSelectors()
	drv := newFakeDriver(sel, fakePage{listings: []*fakeListing{fix}})
	drv.cur = fix
	return NewWizard(drv, sel), drv
}

var wizardDetails = domain.JobDetails{Title: "API Dev", Company: "Acme", Description: "Node/AWS role"}

func TestWizardCompletes(t *testing.T) {
	fix := &fakeListing{hasApply: true, resume: true, progress: []int{10, 40, 70, 100}}
	w, drv := wizardFor(fix)

	res, err := w.Run(context.Background(), listingHandle{fix: fix}, wizardDetails)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, res.Outcome)
	require.True(t, res.Recorded)
	assert.Equal(t, domain.AppliedJob{Title: "API Dev", Company: "Acme", AppliedSuccessfully: true}, res.Record)

	// submit close: dismissed, but never the discard confirmation
	assert.Equal(t, 1, drv.dismissClicks)
	assert.Zero(t, drv.discardClicks)
}

func TestWizardZeroProgressIsStuck(t *testing.T) {
	fix := &fakeListing{hasApply: true, resume: true, progress: []int{0}}
	w, drv := wizardFor(fix)

	res, err := w.Run(context.Background(), listingHandle{fix: fix}, wizardDetails)
	require.NoError(t, err)

	assert.Equal(t, OutcomeStuck, res.Outcome)
	require.True(t, res.Recorded)
	assert.False(t, res.Record.AppliedSuccessfully)

	// cancel close: dismiss plus discard confirmation
	assert.Equal(t, 1, drv.dismissClicks)
	assert.Equal(t, 1, drv.discardClicks)
}

func TestWizardZeroThenProgressCompletes(t *testing.T) {
	// 0 on entry that moves on the re-read is a slow start, not a stuck
	// wizard.
	fix := &fakeListing{hasApply: true, resume: true, progress: []int{0, 50, 100}}
	w, _ := wizardFor(fix)

	res, err := w.Run(context.Background(), listingHandle{fix: fix}, wizardDetails)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.True(t, res.Record.AppliedSuccessfully)
}

func TestWizardRepeatedProgressIsStuck(t *testing.T) {
	fix := &fakeListing{hasApply: true, resume: true, progress: []int{20, 55, 55}}
	w, drv := wizardFor(fix)

	res, err := w.Run(context.Background(), listingHandle{fix: fix}, wizardDetails)
	require.NoError(t, err)

	assert.Equal(t, OutcomeStuck, res.Outcome)
	require.True(t, res.Recorded)
	assert.False(t, res.Record.AppliedSuccessfully)
	assert.Equal(t, 1, drv.discardClicks)
}

func TestWizardNoResume(t *testing.T) {
	fix := &fakeListing{hasApply: true, resume: false, progress: []int{30}}
	w, drv := wizardFor(fix)

	res, err := w.Run(context.Background(), listingHandle{fix: fix}, wizardDetails)
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoResume, res.Outcome)
	require.True(t, res.Recorded)
	assert.False(t, res.Record.AppliedSuccessfully)
	assert.Equal(t, 1, drv.dismissClicks)
	assert.Equal(t, 1, drv.discardClicks)
}

func TestWizardAlreadyAppliedIsNotRecorded(t *testing.T) {
	fix := &fakeListing{hasApply: false}
	w, drv := wizardFor(fix)

	res, err := w.Run(context.Background(), listingHandle{fix: fix}, wizardDetails)
	require.NoError(t, err)

	assert.Equal(t, OutcomeAlreadyApplied, res.Outcome)
	assert.False(t, res.Recorded)
	assert.Zero(t, drv.advanceClicks, "listing is abandoned before the wizard opens")
}

func TestWizardStepCapBoundsOscillation(t *testing.T) {
	// Progress alternates forever without repeating consecutively; only
	// the cap terminates it.
	seq := make([]int, 0, 2*maxWizardSteps+4)
	for i := 0; i < maxWizardSteps+2; i++ {
		seq = append(seq, 10, 20)
	}
	fix := &fakeListing{hasApply: true, resume: true, progress: seq}
	w, _ := wizardFor(fix)

	res, err := w.Run(context.Background(), listingHandle{fix: fix}, wizardDetails)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStuck, res.Outcome)
	assert.False(t, res.Record.AppliedSuccessfully)
}
