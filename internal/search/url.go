// Package search builds board search URLs from queries. The mapping is
// deterministic: the same query always yields the same URL, so a run can be
// replayed against saved pages.
package search

import (
	"net/url"
	"strings"

	"autoapply-engine/internal/domain"
)

const BaseURL = "https://www.linkedin.com/jobs/search/"

// BuildURL encodes a query into a search request.
//
//	keywords       -> keywords   (verbatim)
//	location       -> location   (verbatim)
//	relevance      -> sortBy
//	time filter    -> f_TPR
//	on-site/remote -> f_WT       (comma-joined when multiple)
//	easy-apply     -> f_AL=true
func BuildURL(q domain.Query) string {
	v := url.Values{}

	if q.Keywords != "" {
		v.Set("keywords", q.Keywords)
	}
	if q.Options.Location != "" {
		v.Set("location", q.Options.Location)
	}
	if q.Options.Relevance != "" {
		v.Set("sortBy", string(q.Options.Relevance))
	}
	if q.Options.TimeFilter != "" {
		v.Set("f_TPR", string(q.Options.TimeFilter))
	}
	if len(q.Options.Site) > 0 {
		parts := make([]string, 0, len(q.Options.Site))
		for _, s := range q.Options.Site {
			if s != "" {
				parts = append(parts, string(s))
			}
		}
		if len(parts) > 0 {
			v.Set("f_WT", strings.Join(parts, ","))
		}
	}
	if q.Options.EasyApplyOnly {
		v.Set("f_AL", "true")
	}

	if len(v) == 0 {
		return BaseURL
	}
	return BaseURL + "?" + v.Encode()
}
