package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageBodyPlainText(t *testing.T) {
	raw := "Subject: jobs\r\nContent-Type: text/plain\r\n\r\nHello there"
	assert.Equal(t, "Hello there", messageBody([]byte(raw)))
}

func TestMessageBodyPrefersHTMLPart(t *testing.T) {
	raw := strings.Join([]string{
		"Subject: job alert",
		`Content-Type: multipart/alternative; boundary="BOUND"`,
		"",
		"--BOUND",
		"Content-Type: text/plain",
		"",
		"plain version",
		"--BOUND",
		"Content-Type: text/html",
		"",
		`<a href="https://www.linkedin.com/jobs/view/1">Engineer</a>`,
		"--BOUND--",
		"",
	}, "\r\n")

	body := messageBody([]byte(raw))
	assert.Contains(t, body, "linkedin.com/jobs/view/1")
}

func TestMessageBodyQuotedPrintable(t *testing.T) {
	raw := strings.Join([]string{
		"Subject: alert",
		"Content-Type: text/html",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"<a href=3D\"https://example.com/jobs/1\">Job</a>",
		"",
	}, "\r\n")

	body := messageBody([]byte(raw))
	assert.Contains(t, body, `href="https://example.com/jobs/1"`)
}

func TestMessageBodyBase64(t *testing.T) {
	// "hello base64" encoded
	raw := strings.Join([]string{
		"Subject: alert",
		"Content-Type: text/plain",
		"Content-Transfer-Encoding: base64",
		"",
		"aGVsbG8gYmFzZTY0",
		"",
	}, "\r\n")

	assert.Contains(t, messageBody([]byte(raw)), "hello base64")
}

func TestMessageBodyUnparseableFallsBack(t *testing.T) {
	raw := "no headers at all, just text"
	assert.Equal(t, raw, messageBody([]byte(raw)))
}

func TestMessageBodyEmpty(t *testing.T) {
	assert.Empty(t, messageBody(nil))
}

func TestMailFetcherSubjectFilter(t *testing.T) {
	m := &MailFetcher{SubjectAny: []string{"job alert", "new jobs for"}}

	assert.True(t, m.subjectMatches("Your Job Alert for Go developer"))
	assert.True(t, m.subjectMatches("NEW JOBS FOR you"))
	assert.False(t, m.subjectMatches("Your invoice"))

	open := &MailFetcher{}
	assert.True(t, open.subjectMatches("anything"))
}
