package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uliiai/Wordle/internal/game"
)

// Owner identifies who played a game: a registered user or an anonymous cookie.
type Owner struct {
	UserID string
	AnonID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonID
}

// GameRecord is the history row of one game. The answer is never stored.
type GameRecord struct {
	ID         string `json:"id"`
	Length     int    `json:"length"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// InsertGame records a freshly started game for owner.
func (db *DB) InsertGame(ctx context.Context, g *game.Game, owner Owner) error {
	var userID, anonID any
	if owner.UserID != "" {
		userID = owner.UserID
	} else {
		anonID = owner.AnonID
	}
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, length, status, guesses, started_at)
		 VALUES (?,?,?,?,?,0,?)`,
		g.ID, userID, anonID, g.Length, string(game.StatePlaying), g.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// RecordGuess counts one accepted guess. When state is terminal the game is
// closed and, for registered owners, their stats are updated in the same
// transaction. A game that owner does not own yields ErrNotFound and
// changes nothing.
func (db *DB) RecordGuess(ctx context.Context, gameID string, owner Owner, state game.State) error {
	clause, arg := owner.clause()

	tx, err := db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+clause, gameID, arg)
	if err != nil {
		return fmt.Errorf("update guesses: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update guesses: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	if state.Terminal() {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=? AND `+clause,
			string(state), time.Now().UTC().Format(time.RFC3339), gameID, arg); err != nil {
			return fmt.Errorf("finish game: %w", err)
		}
		if owner.UserID != "" {
			if err := bumpStats(ctx, tx, owner.UserID, state == game.StateWon); err != nil {
				return fmt.Errorf("bump stats: %w", err)
			}
		}
	}
	return tx.Commit()
}

// ClaimAnonGames transfers anonymous games to userID after sign-in.
func (db *DB) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := db.SQL.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

// RecentGames lists a user's latest games, newest first.
func (db *DB) RecentGames(ctx context.Context, userID string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, length, status, guesses, started_at, COALESCE(finished_at,'')
		 FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var r GameRecord
		if err := rows.Scan(&r.ID, &r.Length, &r.Status, &r.Guesses, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
