package jobid

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hexLen trades compactness for a small birthday-bound collision chance.
// 64 bits is plenty for a single user's feed (thousands of records, not
// billions); widening it would orphan every stored id.
const hexLen = 16

// New derives the dedup identity for a job from its defining triple.
// Same url/title/company always yields the same id, across runs and
// processes. The URL should already be canonicalized by the caller.
func New(url, title, company string) string {
	content := strings.ToLower(url + ":" + title + ":" + company)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:hexLen]
}
