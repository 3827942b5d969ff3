// Package daily selects the word of the day and records daily results.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Wordlist is the part of a dictionary the daily pick needs.
type Wordlist interface {
	Len() int
	At(i int) string
}

// Pick returns the date key, word index and answer for t.
// The answer is empty when the list is empty.
func Pick(list Wordlist, t time.Time, salt string) (date string, idx int, answer string) {
	date = DateKey(t)
	if list.Len() == 0 {
		return date, 0, ""
	}
	idx = WordIndex(t, salt, list.Len())
	return date, idx, list.At(idx)
}
