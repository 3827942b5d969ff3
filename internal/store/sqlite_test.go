package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/uliiai/Wordle/internal/game"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := db.SQL.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("_migrations rows = %d, want 1", n)
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	u, err := db.CreateUser(ctx, "id1", "Игрок_1", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID != "id1" || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := db.CreateUser(ctx, "id2", "игрок_1", "hash"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate CreateUser error = %v, want ErrUsernameTaken", err)
	}

	byName, err := db.UserByUsername(ctx, "ИГРОК_1")
	if err != nil || byName.ID != "id1" {
		t.Fatalf("UserByUsername = %+v, %v", byName, err)
	}
	byID, err := db.UserByID(ctx, "id1")
	if err != nil || byID.Username != "Игрок_1" || byID.PasswordHash != "hash" {
		t.Fatalf("UserByID = %+v, %v", byID, err)
	}
	if _, err := db.UserByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UserByID missing error = %v, want ErrNotFound", err)
	}
}

func TestGameHistoryAndStats(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if _, err := db.CreateUser(ctx, "u1", "player", "hash"); err != nil {
		t.Fatal(err)
	}
	owner := Owner{UserID: "u1"}

	play := func(states ...game.State) string {
		g := newGame(t)
		if err := db.InsertGame(ctx, g, owner); err != nil {
			t.Fatalf("InsertGame: %v", err)
		}
		for _, st := range states {
			if err := db.RecordGuess(ctx, g.ID, owner, st); err != nil {
				t.Fatalf("RecordGuess: %v", err)
			}
		}
		return g.ID
	}

	play(game.StatePlaying, game.StateWon)
	play(game.StateWon)
	lostID := play(game.StatePlaying, game.StatePlaying, game.StateLost)
	play(game.StateWon)

	u, err := db.UserByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 4 || u.Wins != 3 || u.Streak != 1 {
		t.Fatalf("stats = played %d wins %d streak %d, want 4/3/1", u.GamesPlayed, u.Wins, u.Streak)
	}

	recent, err := db.RecentGames(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("RecentGames len = %d, want 4", len(recent))
	}
	for _, r := range recent {
		if r.ID == lostID {
			if r.Status != "lost" || r.Guesses != 3 || r.FinishedAt == "" || r.Length != 5 {
				t.Fatalf("lost game record = %+v", r)
			}
		}
	}
}

func TestClaimAnonGames(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	anon := Owner{AnonID: "anon-1"}

	g := newGame(t)
	if err := db.InsertGame(ctx, g, anon); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordGuess(ctx, g.ID, anon, game.StateWon); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateUser(ctx, "u1", "player", "hash"); err != nil {
		t.Fatal(err)
	}
	if err := db.ClaimAnonGames(ctx, "anon-1", "u1"); err != nil {
		t.Fatalf("ClaimAnonGames: %v", err)
	}

	recent, err := db.RecentGames(ctx, "u1", 10)
	if err != nil || len(recent) != 1 || recent[0].ID != g.ID || recent[0].Status != "won" {
		t.Fatalf("RecentGames after claim = %+v, %v", recent, err)
	}
	if err := db.ClaimAnonGames(ctx, "", "u1"); err != nil {
		t.Fatalf("ClaimAnonGames with empty anon id: %v", err)
	}
}

func TestRecordGuessRequiresOwner(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if _, err := db.CreateUser(ctx, "intruder", "intruder", "hash"); err != nil {
		t.Fatal(err)
	}

	g := newGame(t)
	anon := Owner{AnonID: "anon-1"}
	if err := db.InsertGame(ctx, g, anon); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		owner Owner
	}{
		{name: "other user", owner: Owner{UserID: "intruder"}},
		{name: "other anonymous player", owner: Owner{AnonID: "anon-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := db.RecordGuess(ctx, g.ID, tt.owner, game.StateWon); !errors.Is(err, ErrNotFound) {
				t.Fatalf("RecordGuess error = %v, want ErrNotFound", err)
			}
		})
	}

	u, err := db.UserByID(ctx, "intruder")
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 0 || u.Wins != 0 || u.Streak != 0 {
		t.Fatalf("stats = played %d wins %d streak %d, want untouched", u.GamesPlayed, u.Wins, u.Streak)
	}

	var status string
	var guesses int
	if err := db.SQL.QueryRow(`SELECT status, guesses FROM games WHERE id=?`, g.ID).Scan(&status, &guesses); err != nil {
		t.Fatal(err)
	}
	if status != "playing" || guesses != 0 {
		t.Fatalf("game row = %s/%d, want playing/0", status, guesses)
	}
}
