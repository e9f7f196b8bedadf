package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const confirmationHTML = `
<html><body>
  <table><tr><td>
    <h2>Your application was sent</h2>
    <p><a href="https://www.linkedin.com/jobs/view/4123456789/">API Dev</a></p>
    <p>Acme · Remote</p>
  </td></tr></table>
</body></html>`

func TestParseConfirmation(t *testing.T) {
	c, ok := ParseConfirmation("Your application was sent to Acme", confirmationHTML)
	require.True(t, ok)
	assert.Equal(t, "Acme", c.Company)
	assert.Equal(t, "API Dev", c.Title)
}

func TestParseConfirmationRejectsOtherMail(t *testing.T) {
	_, ok := ParseConfirmation("You appeared in 9 searches this week", "<html></html>")
	assert.False(t, ok)
}

func TestParseConfirmationTitleFallback(t *testing.T) {
	html := `<html><body><h1>Platform Engineer</h1></body></html>`
	c, ok := ParseConfirmation("Your application was sent to Globex", html)
	require.True(t, ok)
	assert.Equal(t, "Globex", c.Company)
	assert.Equal(t, "Platform Engineer", c.Title)
}

func TestSubjectMatches(t *testing.T) {
	assert.True(t, subjectMatches("Your application was sent to Acme", []string{"application was sent"}))
	assert.False(t, subjectMatches("Job alert: 12 new jobs", []string{"application was sent"}))
}
