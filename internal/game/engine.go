// internal/game/engine.go
//
// Session controller for a single game.
// Responsibilities:
//   - Create new games for a dictionary of one word length.
//   - Normalize and validate guesses (length, alphabet, dictionary membership).
//   - Delegate scoring and state transitions to Session.
//   - Keep the guess history for clients and persistence.
//
// Notes:
//   - Dictionaries are provided by the words package through the Lexicon interface.
//   - randomID() is a compact hex identifier for correlating server state.
//   - Player is an opaque key set by the caller; the engine never reads it.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/uliiai/Wordle/internal/words"
)

// Lexicon is the dictionary a game draws its answer from and checks guesses against.
type Lexicon interface {
	Length() int
	Contains(word string) bool
	Random() string
}

// Game holds the state of a single game session.
type Game struct {
	ID        string     // Unique game identifier (random hex string).
	Player    string     // Who started the game (set by the HTTP layer).
	Answer    string     // The solution word (normalized).
	Length    int        // Number of letters per word (5 or 6).
	Guesses   []string   // Accepted guesses, in order.
	Marks     []Feedback // Feedback for each accepted guess.
	StartedAt time.Time

	mu      sync.Mutex
	lex     Lexicon
	session *Session
}

// New constructs a new game over lex.
// If answer is empty, a random answer is drawn from lex; otherwise it must be
// a well-formed word of lex's length (dictionary membership is not required).
func New(lex Lexicon, answer string, maxAttempts int) (*Game, error) {
	ans := words.Normalize(answer)
	if ans == "" {
		ans = lex.Random()
	}
	if !words.IsWord(ans, lex.Length()) {
		return nil, fmt.Errorf("%w: answer must be %d letters", ErrInvalidInput, lex.Length())
	}
	id, err := randomID()
	if err != nil {
		return nil, fmt.Errorf("game id: %w", err)
	}
	return &Game{
		ID:        id,
		Answer:    ans,
		Length:    lex.Length(),
		Guesses:   []string{},
		Marks:     []Feedback{},
		StartedAt: time.Now().UTC(),
		lex:       lex,
		session:   NewSession(ans, maxAttempts),
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the per-letter marks and the state after the guess.
//
// Validation rules:
//   - Game must not be finished (ErrSessionOver).
//   - Guess must be exactly g.Length Cyrillic letters (ErrInvalidInput).
//   - Guess must be in the dictionary (ErrNotInWordList).
func (g *Game) ApplyGuess(guess string) (Feedback, State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session.State().Terminal() {
		return nil, g.session.State(), ErrSessionOver
	}
	guess = words.Normalize(guess)
	if !words.IsWord(guess, g.Length) {
		return nil, g.session.State(), fmt.Errorf("%w: guess must be %d letters", ErrInvalidInput, g.Length)
	}
	if !g.lex.Contains(guess) {
		return nil, g.session.State(), ErrNotInWordList
	}

	marks, err := g.session.Submit(guess)
	if err != nil {
		return nil, g.session.State(), err
	}
	g.Guesses = append(g.Guesses, guess)
	g.Marks = append(g.Marks, marks)
	return marks, g.session.State(), nil
}

// State reports the current session state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.State()
}

// Snapshot is a consistent copy of a game's public state.
// Answer is only filled in once the game is over.
type Snapshot struct {
	ID          string     `json:"gameId"`
	Length      int        `json:"length"`
	State       State      `json:"state"`
	Guesses     []string   `json:"guesses"`
	Marks       []Feedback `json:"marks"`
	Attempts    int        `json:"attempts"`
	Remaining   int        `json:"remaining"`
	MaxAttempts int        `json:"maxAttempts"`
	Answer      string     `json:"answer,omitempty"`
}

// Snapshot copies the current state under the game lock.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Snapshot{
		ID:          g.ID,
		Length:      g.Length,
		State:       g.session.State(),
		Guesses:     append([]string{}, g.Guesses...),
		Marks:       append([]Feedback{}, g.Marks...),
		Attempts:    g.session.Attempts(),
		Remaining:   g.session.Remaining(),
		MaxAttempts: g.session.MaxAttempts(),
	}
	if s.State.Terminal() {
		s.Answer = g.Answer
	}
	return s
}

// idSource feeds randomID.
var idSource io.Reader = rand.Reader

// randomID returns a compact 16-hex-char identifier.
func randomID() (string, error) {
	var b [8]byte
	if _, err := io.ReadFull(idSource, b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
