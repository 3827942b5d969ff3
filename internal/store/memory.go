// internal/store/memory.go
//
// In-memory store for active game sessions.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; finished games are
//     mirrored to SQLite by the HTTP layer.
//   - Games older than a TTL are dropped by Sweep.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/uliiai/Wordle/internal/game"
)

// ErrNotFound is returned for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Prune drops games started before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

type memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.StartedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n, nil
}

// Sweep prunes games older than ttl every interval until ctx is done.
func Sweep(ctx context.Context, s Store, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.Prune(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("prune games")
				continue
			}
			if n > 0 {
				log.Debug().Int("removed", n).Msg("pruned expired games")
			}
		}
	}
}
