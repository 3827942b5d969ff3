package game

import "fmt"

// claimed replaces a consumed answer letter in the pool.
// It is not a valid rune, so no guess letter can ever match it.
const claimed rune = -1

// Evaluate compares guess against target and returns one mark per position.
//
// Pass 1 marks exact matches and removes those answer letters from the pool.
// Pass 2 marks each remaining guess letter present if the pool still holds a
// copy, consuming the first such copy by position, and absent otherwise.
// Pass 1 must finish before pass 2 starts, otherwise repeated letters are
// credited more often than they occur in the target.
//
// Words are compared rune by rune; both must have the same number of runes.
func Evaluate(target, guess string) (Feedback, error) {
	pool := []rune(target)
	g := []rune(guess)
	if len(g) != len(pool) {
		return nil, fmt.Errorf("%w: guess has %d letters, answer has %d", ErrInvalidInput, len(g), len(pool))
	}

	out := make(Feedback, len(g))
	for i := range g {
		if g[i] == pool[i] {
			out[i] = MarkExact
			pool[i] = claimed
		}
	}

	for i := range g {
		if out[i] == MarkExact {
			continue
		}
		out[i] = MarkAbsent
		for j, r := range pool {
			if r == g[i] {
				out[i] = MarkPresent
				pool[j] = claimed
				break
			}
		}
	}
	return out, nil
}
