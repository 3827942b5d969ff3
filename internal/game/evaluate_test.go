package game

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

const (
	E = MarkExact
	P = MarkPresent
	A = MarkAbsent
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		target string
		guess  string
		want   Feedback
	}{
		{name: "identical", target: "apple", guess: "apple", want: Feedback{E, E, E, E, E}},
		{name: "mixed", target: "apple", guess: "alpie", want: Feedback{E, P, E, A, E}},
		{name: "repeated letter in target", target: "sheep", guess: "speed", want: Feedback{E, P, E, E, A}},
		{name: "nothing shared", target: "abcde", guess: "fghij", want: Feedback{A, A, A, A, A}},
		{name: "exact claims before present", target: "bacon", guess: "aaxxx", want: Feedback{A, E, A, A, A}},
		{name: "guess repeats more than target", target: "abcde", guess: "aaaaa", want: Feedback{E, A, A, A, A}},
		{name: "two exact copies", target: "hello", guess: "lllll", want: Feedback{A, A, E, E, A}},
		{name: "one copy credited", target: "crane", guess: "eerie", want: Feedback{A, A, P, A, E}},
		{name: "first occurrence wins", target: "stare", guess: "tests", want: Feedback{P, P, P, A, A}},
		{name: "cyrillic anagram", target: "ёлочка", guess: "ёлкаоч", want: Feedback{E, E, P, P, P, P}},
		{name: "yo differs from ye", target: "актёр", guess: "актер", want: Feedback{E, E, E, A, E}},
		{name: "empty words", target: "", guess: "", want: Feedback{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.target, tt.guess)
			if err != nil {
				t.Fatalf("Evaluate(%q, %q) error: %v", tt.target, tt.guess, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Evaluate(%q, %q) = %v, want %v", tt.target, tt.guess, got, tt.want)
			}
		})
	}
}

func TestEvaluateLengthMismatch(t *testing.T) {
	tests := []struct {
		target string
		guess  string
	}{
		{"apple", "app"},
		{"app", "apple"},
		{"ёлка", "ёлочка"},
		{"ёлка", ""},
	}
	for _, tt := range tests {
		fb, err := Evaluate(tt.target, tt.guess)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Evaluate(%q, %q) error = %v, want ErrInvalidInput", tt.target, tt.guess, err)
		}
		if fb != nil {
			t.Fatalf("Evaluate(%q, %q) returned feedback %v on error", tt.target, tt.guess, fb)
		}
	}
}

// Lengths are counted in letters: "ёжик" is 4 letters but 8 bytes.
func TestEvaluateCountsRunes(t *testing.T) {
	fb, err := Evaluate("ёжик", "abcd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb) != 4 {
		t.Fatalf("len = %d, want 4", len(fb))
	}
}

func TestEvaluateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	word := func(n int) string {
		const letters = "абв"
		runes := []rune(letters)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(runes[rng.Intn(len(runes))])
		}
		return b.String()
	}

	for i := 0; i < 2000; i++ {
		n := 5 + rng.Intn(2)
		target, guess := word(n), word(n)

		fb, err := Evaluate(target, guess)
		if err != nil {
			t.Fatalf("Evaluate(%q, %q) error: %v", target, guess, err)
		}
		if len(fb) != n {
			t.Fatalf("Evaluate(%q, %q) len = %d, want %d", target, guess, len(fb), n)
		}

		again, _ := Evaluate(target, guess)
		if !reflect.DeepEqual(fb, again) {
			t.Fatalf("Evaluate(%q, %q) not deterministic: %v vs %v", target, guess, fb, again)
		}

		if fb.Solved() != (target == guess) {
			t.Fatalf("Evaluate(%q, %q) solved = %v", target, guess, fb.Solved())
		}

		inTarget := map[rune]int{}
		for _, r := range target {
			inTarget[r]++
		}
		credited := map[rune]int{}
		g := []rune(guess)
		tr := []rune(target)
		for j, m := range fb {
			switch m {
			case MarkExact:
				if g[j] != tr[j] {
					t.Fatalf("Evaluate(%q, %q) exact at %d for different letters", target, guess, j)
				}
				credited[g[j]]++
			case MarkPresent:
				credited[g[j]]++
			}
		}
		for r, c := range credited {
			if c > inTarget[r] {
				t.Fatalf("Evaluate(%q, %q) credits %q %d times, target has %d", target, guess, r, c, inTarget[r])
			}
		}
	}
}

func TestFeedbackSolved(t *testing.T) {
	if (Feedback{}).Solved() {
		t.Fatal("empty feedback must not be solved")
	}
	if !(Feedback{E, E}).Solved() {
		t.Fatal("all exact must be solved")
	}
	if (Feedback{E, P}).Solved() {
		t.Fatal("present mark must not be solved")
	}
}
