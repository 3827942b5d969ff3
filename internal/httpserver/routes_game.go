package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/uliiai/Wordle/internal/game"
	"github.com/uliiai/Wordle/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Get("/game/{id}", s.handleGetGame)
}

type newGameReq struct {
	Length int    `json:"length"` // 0 selects the shortest loaded length
	Answer string `json:"answer"` // optional fixed answer (testing)
}

type newGameRes struct {
	GameID      string `json:"gameId"`
	Length      int    `json:"length"`
	MaxAttempts int    `json:"maxAttempts"`
}

// handleNewGame starts a game and records its owner for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Length == 0 {
		if ls := s.dicts.Lengths(); len(ls) > 0 {
			req.Length = ls[0]
		}
	}
	dict, ok := s.dicts.Get(req.Length)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported_length")
		return
	}

	g, err := game.New(dict, req.Answer, s.cfg.MaxAttempts)
	if err != nil {
		if errors.Is(err, game.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_answer")
			return
		}
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	owner := s.owner(w, r)
	g.Player = playerKey(owner)
	if err := s.games.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := s.db.InsertGame(r.Context(), g, owner); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Length: g.Length, MaxAttempts: s.cfg.MaxAttempts})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Marks     game.Feedback `json:"marks"`
	State     game.State    `json:"state"`
	Attempts  int           `json:"attempts"`
	Remaining int           `json:"remaining"`
	Answer    string        `json:"answer,omitempty"`
}

// handleGuess applies a guess to an active game and mirrors progress to the database.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.games.Get(r.Context(), req.GameID)
	if err != nil || !owns(r, g.Player) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	marks, state, err := g.ApplyGuess(req.Guess)
	if err != nil {
		status, code := guessError(err)
		writeError(w, status, code)
		return
	}
	if err := s.games.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := s.db.RecordGuess(r.Context(), g.ID, s.owner(w, r), state); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record guess")
	}

	snap := g.Snapshot()
	writeJSON(w, http.StatusOK, guessRes{
		Marks:     marks,
		State:     state,
		Attempts:  snap.Attempts,
		Remaining: snap.Remaining,
		Answer:    snap.Answer,
	})
}

// handleGetGame returns the current state of a game, e.g. to restore a board.
// Games of other players are reported as not found.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err == nil && !owns(r, g.Player) {
		err = store.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// guessError maps game errors to HTTP status and error code.
func guessError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrSessionOver):
		return http.StatusConflict, "game_finished"
	case errors.Is(err, game.ErrNotInWordList):
		return http.StatusBadRequest, "not_in_word_list"
	case errors.Is(err, game.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_guess"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
