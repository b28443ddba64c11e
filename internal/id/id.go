package id

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Package id generates record identifiers for the storage layer.
// IDs sort lexicographically in creation order: a millisecond timestamp
// in base36 (zero-padded to a fixed width) followed by a random suffix
// that breaks ties and makes collisions within one millisecond
// practically impossible.

const (
	timestampWidth = 9 // base36 millis; 9 chars covers timestamps past year 5000
	suffixLen      = 8
	alphabet       = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var now = time.Now

// New returns a sortable, collision-resistant identifier.
func New() string {
	ts := strconv.FormatInt(now().UnixMilli(), 36)
	if len(ts) < timestampWidth {
		ts = strings.Repeat("0", timestampWidth-len(ts)) + ts
	}
	return ts + randomSuffix(suffixLen)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a nanosecond-derived suffix rather than returning an error
		// from every create call.
		return fmt.Sprintf("%0*d", n, now().UnixNano()%1e8)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}
