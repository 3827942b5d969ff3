// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Mark: per-letter result of a guess (exact/present/absent).
//   - Feedback: ordered marks for one guess.
//   - State: coarse session state (playing/won/lost).
//   - Sentinel errors returned by the evaluator and the session.

package game

import "errors"

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "exact":   letter is correct and in the correct position.
//   - "present": letter exists in the answer but at a different position.
//   - "absent":  letter is not in the answer, or every copy is already claimed.
type Mark string

const (
	MarkExact   Mark = "exact"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// Feedback holds one Mark per letter position of a guess.
type Feedback []Mark

// Solved reports whether every position is exact.
// An empty feedback is never solved.
func (f Feedback) Solved() bool {
	if len(f) == 0 {
		return false
	}
	for _, m := range f {
		if m != MarkExact {
			return false
		}
	}
	return true
}

// State is the coarse lifecycle state of a session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

var (
	// ErrInvalidInput marks a guess that cannot be compared with the answer
	// (wrong length or characters outside the alphabet).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotInWordList is returned when a well-formed guess is not a dictionary word.
	ErrNotInWordList = errors.New("not in word list")

	// ErrSessionOver is returned for guesses submitted after a win or a loss.
	ErrSessionOver = errors.New("game finished")
)
