package game

import "fmt"

// DefaultMaxAttempts is the number of failed guesses that ends a session.
const DefaultMaxAttempts = 6

// Session is the guess state machine for one target word.
//
// It starts in progress with zero attempts used. A solving guess moves it to
// won without counting as a failed attempt; any other guess uses one attempt,
// and using the last one moves it to lost. Won and lost are terminal.
type Session struct {
	target      string
	length      int
	maxAttempts int
	attempts    int
	state       State
}

// NewSession starts a session for target. maxAttempts <= 0 selects
// DefaultMaxAttempts.
func NewSession(target string, maxAttempts int) *Session {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Session{
		target:      target,
		length:      len([]rune(target)),
		maxAttempts: maxAttempts,
		state:       StatePlaying,
	}
}

// Submit evaluates guess and advances the state machine.
// Wrong-length guesses return ErrInvalidInput and leave the session untouched.
func (s *Session) Submit(guess string) (Feedback, error) {
	if s.state.Terminal() {
		return nil, ErrSessionOver
	}
	fb, err := Evaluate(s.target, guess)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if fb.Solved() {
		s.state = StateWon
		return fb, nil
	}
	s.attempts++
	if s.attempts >= s.maxAttempts {
		s.state = StateLost
	}
	return fb, nil
}

func (s *Session) State() State { return s.state }
func (s *Session) Attempts() int { return s.attempts }
func (s *Session) MaxAttempts() int { return s.maxAttempts }
func (s *Session) Length() int { return s.length }
func (s *Session) Target() string { return s.target }
func (s *Session) Remaining() int { return s.maxAttempts - s.attempts }
