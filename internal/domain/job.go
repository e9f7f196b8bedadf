package domain

// JobDetails is what we extract from an opened listing's detail pane.
// All three fields are required for screening; an empty field means
// extraction failed and the listing is skipped.
type JobDetails struct {
	Title       string
	Company     string
	Description string
}

func (d JobDetails) Complete() bool {
	return d.Title != "" && d.Company != "" && d.Description != ""
}

// AppliedJob is one ledger entry: a job we attempted, successfully or not.
type AppliedJob struct {
	Title               string `json:"title"`
	Company             string `json:"company"`
	AppliedSuccessfully bool   `json:"applied_successfully"`
}

// Key is the dedup identity: exact match on (title, company). No case or
// whitespace normalization beyond what extraction already trims.
func (a AppliedJob) Key() string {
	return a.Title + "\x1f" + a.Company
}

func (d JobDetails) Key() string {
	return d.Title + "\x1f" + d.Company
}
