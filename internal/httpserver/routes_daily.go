// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
//   - POST /daily/new         → start (or resume) today's game
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Each player gets one daily game per date. Active sessions are held in
// memory; solved games are persisted so a finished day cannot be replayed.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/uliiai/Wordle/internal/daily"
	"github.com/uliiai/Wordle/internal/game"
)

type dailyServer struct {
	srv      *Server
	store    *daily.Store
	sessions map[string]*dailySession // keyed by player|date
	mu       sync.Mutex
}

type dailySession struct {
	Game      *game.Game
	Date      string
	WordIndex int
	Start     time.Time
}

func (s *Server) mountDaily(r chi.Router) {
	d := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db.SQL),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/guess", d.handleGuess)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

type dailyNewRes struct {
	GameID      string `json:"gameId,omitempty"`
	Date        string `json:"date"`
	Length      int    `json:"length"`
	MaxAttempts int    `json:"maxAttempts"`
	Played      bool   `json:"played"`
}

// handleNew creates or reuses today's session.
// A player with a stored result for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	dict, ok := d.srv.dicts.Get(d.srv.cfg.DailyLength)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "daily_unavailable")
		return
	}
	player := playerKey(d.srv.owner(w, r))
	now := d.srv.now()
	date, idx, answer := daily.Pick(dict, now, d.srv.cfg.DailySalt)
	res := dailyNewRes{Date: date, Length: dict.Length(), MaxAttempts: d.srv.cfg.MaxAttempts}

	played, err := d.store.AlreadyPlayed(r.Context(), player, date)
	if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}
	if played {
		res.Played = true
		writeJSON(w, http.StatusOK, res)
		return
	}

	key := player + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)
	sess, ok := d.sessions[key]
	if !ok {
		g, err := game.New(dict, answer, d.srv.cfg.MaxAttempts)
		if err != nil {
			log.Error().Err(err).Str("date", date).Msg("daily game")
			writeError(w, http.StatusInternalServerError, "daily_unavailable")
			return
		}
		g.Player = player
		sess = &dailySession{Game: g, Date: date, WordIndex: idx, Start: now}
		d.sessions[key] = sess
	}
	res.GameID = sess.Game.ID
	writeJSON(w, http.StatusOK, res)
}

// pruneLocked drops sessions from previous days. d.mu must be held.
func (d *dailyServer) pruneLocked(today string) {
	for k, s := range d.sessions {
		if s.Date != today {
			delete(d.sessions, k)
		}
	}
}

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

type dailyGuessRes struct {
	Marks     game.Feedback `json:"marks"`
	State     game.State    `json:"state"`
	Guesses   int           `json:"guesses"`
	Remaining int           `json:"remaining"`
	Answer    string        `json:"answer,omitempty"`
}

// handleGuess applies a guess to today's session and stores the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var p dailyGuessReq
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	player := playerKey(d.srv.owner(w, r))
	date := daily.DateKey(d.srv.now())

	d.mu.Lock()
	sess, ok := d.sessions[player+"|"+date]
	d.mu.Unlock()
	if !ok || p.GameID == "" || sess.Game.ID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	marks, state, err := sess.Game.ApplyGuess(p.Word)
	if err != nil {
		status, code := guessError(err)
		writeError(w, status, code)
		return
	}
	snap := sess.Game.Snapshot()

	if state == game.StateWon {
		err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    player,
			Date:      date,
			Length:    snap.Length,
			WordIndex: sess.WordIndex,
			Guesses:   len(snap.Guesses),
			ElapsedMs: int(d.srv.now().Sub(sess.Start).Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Str("player", player).Msg("store daily result")
		}
	}
	writeJSON(w, http.StatusOK, dailyGuessRes{
		Marks:     marks,
		State:     state,
		Guesses:   len(snap.Guesses),
		Remaining: snap.Remaining,
		Answer:    snap.Answer,
	})
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, daily.DefaultLeaderboardLimit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
