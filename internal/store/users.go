package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUsernameTaken is returned when a case-insensitive duplicate exists.
var ErrUsernameTaken = errors.New("username taken")

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

const userColumns = `id, username, password_hash, created_at, games_played, wins, streak`

// usernameKey folds case in Go; SQLite's lower() only folds ASCII.
func usernameKey(username string) string { return strings.ToLower(username) }

// CreateUser inserts a user with an already hashed password.
func (db *DB) CreateUser(ctx context.Context, id, username, passwordHash string) (*User, error) {
	var exists int
	err := db.SQL.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username_key=?`, usernameKey(username)).Scan(&exists)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("check username: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if _, err := db.SQL.ExecContext(ctx,
		`INSERT INTO users (id, username, username_key, password_hash, created_at) VALUES (?,?,?,?,?)`,
		id, username, usernameKey(username), passwordHash, now.Format(time.RFC3339),
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// UserByUsername loads a user by case-insensitive username, or ErrNotFound.
func (db *DB) UserByUsername(ctx context.Context, username string) (*User, error) {
	row := db.SQL.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username_key=?`, usernameKey(username))
	return scanUser(row)
}

// UserByID loads a user by ID, or ErrNotFound.
func (db *DB) UserByID(ctx context.Context, id string) (*User, error) {
	row := db.SQL.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// bumpStats increments games played and updates wins and streak within tx.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}
