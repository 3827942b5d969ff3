// internal/words/alphabet.go
//
// Alphabet and normalization rules shared by dictionaries and guesses.
//
// Words are lowercase Russian letters including "ё". Input is NFC-composed
// first so that "е" followed by a combining diaeresis compares equal to "ё".

package words

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Alphabet lists every letter a word may contain.
const Alphabet = "абвгдеёжзийклмнопрстуфхцчшщъыьэюя"

// wordRe finds candidate words in free text after normalization.
var wordRe = regexp.MustCompile(`[а-яё]+`)

// Normalize trims s, composes it to NFC and lowercases it with Russian casing rules.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Casers keep state and must not be shared between goroutines.
	return cases.Lower(language.Russian).String(norm.NFC.String(s))
}

// IsWord reports whether w is exactly n letters of Alphabet.
func IsWord(w string, n int) bool {
	if utf8.RuneCountInString(w) != n {
		return false
	}
	for _, r := range w {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || r == 'ё'
}

// Extract returns every n-letter word found in text, in order of appearance.
// Duplicates are kept; NewDictionary removes them.
func Extract(text string, n int) []string {
	var out []string
	for _, w := range wordRe.FindAllString(Normalize(text), -1) {
		if utf8.RuneCountInString(w) == n {
			out = append(out, w)
		}
	}
	return out
}
