// internal/httpserver/server.go
//
// HTTP server wiring for the Wordle backend.
// Responsibilities:
//   - Router + middleware (request IDs, logging, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes still run for guests, who are tracked by an anonymous cookie.
//   - Active games live in a store.Store; history and stats are mirrored to SQLite
//     on a best-effort basis.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/uliiai/Wordle/internal/config"
	"github.com/uliiai/Wordle/internal/store"
	"github.com/uliiai/Wordle/internal/words"
)

// Server bundles router, active game store, database and dictionaries.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	games store.Store
	db    *store.DB
	dicts words.Set
	now   func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, games store.Store, db *store.DB, dicts words.Set) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		games: games,
		db:    db,
		dicts: dicts,
		now:   time.Now,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordle-ru",
			"lengths":   s.dicts.Lengths(),
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		counts := make(map[int]int, len(s.dicts))
		for n, d := range s.dicts {
			counts[n] = d.Len()
		}
		writeJSON(w, http.StatusOK, counts)
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		s.mountGame(r)
		s.mountDaily(r)
	})
	s.mountAuth(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.r }
