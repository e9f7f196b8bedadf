package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autoapply-engine/internal/domain"
	"autoapply-engine/internal/ledger"
)

func details(title, company, desc string) domain.JobDetails {
	return domain.JobDetails{Title: title, Company: company, Description: desc}
}

func TestShouldApplyIncompleteDetails(t *testing.T) {
	idx := ledger.NewIndex(nil)
	for _, d := range []domain.JobDetails{
		details("", "Acme", "desc"),
		details("API Dev", "", "desc"),
		details("API Dev", "Acme", ""),
	} {
		dec := ShouldApply(d, idx, domain.QueryOptions{})
		assert.False(t, dec.Apply)
		assert.Equal(t, SkipIncompleteDetails, dec.Reason)
	}
}

func TestShouldApplyDedupWinsRegardlessOfOutcome(t *testing.T) {
	// A prior failed attempt still blocks a retry.
	idx := ledger.NewIndex([]domain.AppliedJob{
		{Title: "API Dev", Company: "Acme", AppliedSuccessfully: false},
	})

	dec := ShouldApply(details("API Dev", "Acme", "anything at all"), idx, domain.QueryOptions{
		BlacklistCompanies:  []string{"Acme"},
		DescriptionKeywords: []string{"nomatch"},
	})
	assert.False(t, dec.Apply)
	assert.Equal(t, SkipAlreadyApplied, dec.Reason, "dedup is checked before blacklist and keywords")
}

func TestShouldApplyDedupIsExactMatch(t *testing.T) {
	idx := ledger.NewIndex([]domain.AppliedJob{{Title: "API Dev", Company: "Acme"}})

	dec := ShouldApply(details("API Dev", "Acme Corp", "desc"), idx, domain.QueryOptions{})
	assert.True(t, dec.Apply, "different company is a different job")
}

func TestShouldApplyBlacklist(t *testing.T) {
	idx := ledger.NewIndex(nil)
	opts := domain.QueryOptions{BlacklistCompanies: []string{"Toro"}}

	dec := ShouldApply(details("Backend Eng", "Toro", "desc"), idx, opts)
	assert.False(t, dec.Apply)
	assert.Equal(t, SkipBlacklisted, dec.Reason)

	dec = ShouldApply(details("Backend Eng", "Acme", "desc"), idx, opts)
	assert.True(t, dec.Apply)
}

func TestShouldApplyKeywordFilter(t *testing.T) {
	idx := ledger.NewIndex(nil)
	opts := domain.QueryOptions{DescriptionKeywords: []string{"Node", "AWS"}}

	dec := ShouldApply(details("Frontend", "Acme", "Seeking a React developer"), idx, opts)
	assert.False(t, dec.Apply)
	assert.Equal(t, SkipKeywordMismatch, dec.Reason)

	// OR semantics: one match is enough, case-insensitive.
	dec = ShouldApply(details("Backend", "Acme", "Node and aws experience required"), idx, opts)
	assert.True(t, dec.Apply)
}

func TestShouldApplyNoKeywordsMeansNoKeywordCheck(t *testing.T) {
	idx := ledger.NewIndex(nil)
	dec := ShouldApply(details("Any", "Acme", "whatever"), idx, domain.QueryOptions{})
	assert.True(t, dec.Apply)
}
