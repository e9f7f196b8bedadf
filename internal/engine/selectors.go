package engine

// Selectors pin down the board's DOM. They are the part that rots when the
// board ships a redesign, so they live in one place and are injectable for
// tests and for snapshot fixtures.
type Selectors struct {
	ResultsContainer string
	Listing          string

	DetailsPane       string
	DetailTitle       string
	DetailCompany     string
	DetailDescription string

	ApplyButton    string
	ProgressBar    string
	ProgressAttr   string
	ResumeOption   string
	AdvanceButton  string
	DismissButton  string
	DiscardConfirm string

	NextPage string
}

func DefaultSelectors() Selectors {
	return Selectors{
		ResultsContainer: "div.jobs-search-results-list",
		Listing:          "li.jobs-search-results__list-item",

		DetailsPane:       "div.jobs-search__job-details--container",
		DetailTitle:       ".job-details-jobs-unified-top-card__job-title",
		DetailCompany:     ".job-details-jobs-unified-top-card__company-name",
		DetailDescription: "#job-details",

		ApplyButton:    "button.jobs-apply-button",
		ProgressBar:    "div.jobs-easy-apply-modal progress",
		ProgressAttr:   "value",
		ResumeOption:   "div.jobs-document-upload__container button",
		AdvanceButton:  "div.jobs-easy-apply-modal footer button.artdeco-button--primary",
		DismissButton:  "button[aria-label='Dismiss']",
		DiscardConfirm: "button[data-control-name='discard_application_confirm_btn']",

		NextPage: "button[aria-label='Next']",
	}
}

// DetailFields is the field→selector map handed to the driver when
// extracting an opened listing's details.
func (s Selectors) DetailFields() map[string]string {
	return map[string]string{
		"title":       s.DetailTitle,
		"company":     s.DetailCompany,
		"description": s.DetailDescription,
	}
}
