package domain

// Relevance maps to the board's sortBy parameter.
type Relevance string

const (
	RelevanceRelevant Relevance = "R"
	RelevanceRecent   Relevance = "DD"
)

// TimeFilter maps to f_TPR (seconds since posting).
type TimeFilter string

const (
	TimePastDay   TimeFilter = "r86400"
	TimePastWeek  TimeFilter = "r604800"
	TimePastMonth TimeFilter = "r2592000"
)

// WorkSite maps to f_WT; multiple values are comma-joined.
type WorkSite string

const (
	SiteOnSite WorkSite = "1"
	SiteRemote WorkSite = "2"
	SiteHybrid WorkSite = "3"
)

// QueryOptions narrow a query's results and screen its listings.
// Location/Relevance/TimeFilter/Site/EasyApplyOnly are encoded into the
// search request; DescriptionKeywords and BlacklistCompanies are applied
// client-side by the screening filter.
type QueryOptions struct {
	Location            string
	Relevance           Relevance
	TimeFilter          TimeFilter
	Site                []WorkSite
	EasyApplyOnly       bool
	DescriptionKeywords []string
	BlacklistCompanies  []string
}

// Query is one search to run. Immutable once built; a query covering
// several locations is cloned once per location.
type Query struct {
	Keywords string
	Options  QueryOptions
}

// CloneFor returns a copy of q targeting the given location.
func (q Query) CloneFor(location string) Query {
	out := q
	out.Options.Location = location
	out.Options.Site = append([]WorkSite(nil), q.Options.Site...)
	out.Options.DescriptionKeywords = append([]string(nil), q.Options.DescriptionKeywords...)
	out.Options.BlacklistCompanies = append([]string(nil), q.Options.BlacklistCompanies...)
	return out
}
