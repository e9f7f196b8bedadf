package confirm

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Confirmation is one "application sent" email, reduced to the fields the
// ledger is keyed on.
type Confirmation struct {
	Title   string
	Company string
}

var reSentTo = regexp.MustCompile(`(?i)application was sent to\s+(.+?)\s*$`)

// ParseConfirmation extracts the company from the subject and the job
// title from the email body. Returns ok=false for emails that are not
// application confirmations.
func ParseConfirmation(subject, htmlBody string) (Confirmation, bool) {
	m := reSentTo.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return Confirmation{}, false
	}
	c := Confirmation{Company: strings.TrimSpace(m[1])}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return c, c.Company != ""
	}

	// The job link text is the most reliable title carrier across template
	// revisions.
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(strings.ToLower(href), "/jobs/view/") {
			return true
		}
		if t := cleanText(a.Text()); t != "" {
			c.Title = t
			return false
		}
		return true
	})

	// Fallback: a heading mentioning the role.
	if c.Title == "" {
		doc.Find("h1,h2,h3,strong,b").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			t := cleanText(s.Text())
			if t == "" || strings.Contains(strings.ToLower(t), "application") {
				return true
			}
			c.Title = t
			return false
		})
	}

	return c, c.Company != ""
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
