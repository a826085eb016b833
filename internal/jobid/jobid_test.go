package jobid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New("https://example.com/jobs/1", "Backend Engineer", "Acme")
	b := New("https://example.com/jobs/1", "Backend Engineer", "Acme")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestNewIsCaseInsensitive(t *testing.T) {
	a := New("https://example.com/jobs/1", "Backend Engineer", "Acme")
	b := New("HTTPS://EXAMPLE.COM/jobs/1", "BACKEND ENGINEER", "ACME")
	assert.Equal(t, a, b)
}

func TestNewDiffersPerField(t *testing.T) {
	base := New("https://example.com/jobs/1", "Backend Engineer", "Acme")

	assert.NotEqual(t, base, New("https://example.com/jobs/2", "Backend Engineer", "Acme"))
	assert.NotEqual(t, base, New("https://example.com/jobs/1", "Frontend Engineer", "Acme"))
	assert.NotEqual(t, base, New("https://example.com/jobs/1", "Backend Engineer", "Globex"))
}

func TestNewHexOnly(t *testing.T) {
	id := New("https://example.com", "x", "y")
	for _, r := range id {
		ok := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
		assert.True(t, ok, "unexpected rune %q in id", r)
	}
}
