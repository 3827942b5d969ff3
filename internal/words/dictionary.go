package words

import (
	"crypto/rand"
	"math/big"
	"sort"
)

// Dictionary is an immutable, sorted set of words sharing one length.
// The sorted order makes index-based selection (daily words) stable
// across restarts for the same word list.
type Dictionary struct {
	length int
	list   []string
	set    map[string]struct{}
}

// NewDictionary normalizes list and keeps the distinct entries that are
// valid words of the given length.
func NewDictionary(length int, list []string) *Dictionary {
	set := make(map[string]struct{}, len(list))
	for _, w := range list {
		w = Normalize(w)
		if IsWord(w, length) {
			set[w] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return &Dictionary{length: length, list: out, set: set}
}

// Length is the number of letters of every word in d.
func (d *Dictionary) Length() int { return d.length }

// Len is the number of words in d.
func (d *Dictionary) Len() int { return len(d.list) }

// Contains reports whether w (already normalized) is in d.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[w]
	return ok
}

// At returns the i-th word in sorted order.
func (d *Dictionary) At(i int) string { return d.list[i] }

// Words returns a copy of the sorted word list.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.list...)
}

// Random returns a cryptographically random word, or "" if d is empty.
func (d *Dictionary) Random() string {
	if len(d.list) == 0 {
		return ""
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.list))))
	if err != nil {
		return d.list[0]
	}
	return d.list[n.Int64()]
}
