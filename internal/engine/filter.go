package engine

import (
	"strings"

	"autoapply-engine/internal/domain"
	"autoapply-engine/internal/ledger"
)

type SkipReason string

const (
	SkipIncompleteDetails SkipReason = "incomplete-details"
	SkipAlreadyApplied    SkipReason = "already-applied"
	SkipBlacklisted       SkipReason = "blacklisted"
	SkipKeywordMismatch   SkipReason = "keyword-mismatch"
)

// Decision is the screening outcome for one listing.
type Decision struct {
	Apply  bool
	Reason SkipReason // set when Apply is false
}

func accept() Decision           { return Decision{Apply: true} }
func skip(r SkipReason) Decision { return Decision{Reason: r} }

// ShouldApply screens a listing. Pure: no side effects, no ledger writes.
// Checks run in a fixed order and the first hit wins:
//
//  1. incomplete details
//  2. (title, company) already in the ledger — prior outcome is irrelevant,
//     the pair is never retried
//  3. blacklisted company
//  4. description matches none of the keywords (OR semantics: one match
//     passes)
func ShouldApply(details domain.JobDetails, idx *ledger.Index, opts domain.QueryOptions) Decision {
	if !details.Complete() {
		return skip(SkipIncompleteDetails)
	}

	if idx.Has(details.Key()) {
		return skip(SkipAlreadyApplied)
	}

	for _, b := range opts.BlacklistCompanies {
		if strings.EqualFold(strings.TrimSpace(b), details.Company) {
			return skip(SkipBlacklisted)
		}
	}

	if len(opts.DescriptionKeywords) > 0 {
		desc := strings.ToLower(details.Description)
		hit := false
		for _, kw := range opts.DescriptionKeywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(desc, kw) {
				hit = true
				break
			}
		}
		if !hit {
			return skip(SkipKeywordMismatch)
		}
	}

	return accept()
}
