package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/uliiai/Wordle/internal/store"
)

const anonCookieName = "wordle_anon"

// authUser is placed into the request context by the auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

// signJWT creates an HS256 token carrying id and username.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseJWT validates tok and returns the user it names.
// The user must still exist in the database.
func (s *Server) parseJWT(ctx context.Context, tok string) (*authUser, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	u, err := s.db.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &authUser{ID: u.ID, Username: u.Username}, nil
}

// withOptionalAuth decorates requests with the user when a valid token is present.
// It never rejects; guests pass through.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if u, err := s.parseJWT(r.Context(), tok); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		u, err := s.parseJWT(r.Context(), tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
	})
}

// bearerOrCookie extracts a token from the Authorization header or the auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) cookie(name, value string) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	}
	if c.Secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	c := s.cookie(s.cfg.CookieName, token)
	c.Expires = exp
	http.SetCookie(w, c)
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	c := s.cookie(s.cfg.CookieName, "")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// anonID returns the anonymous cookie value, or "" if the request has none.
func anonID(r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureAnonID returns the anonymous cookie value, setting a new one if missing.
// It returns "" when no identifier could be generated.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if id := anonID(r); id != "" {
		return id
	}
	id, err := genID()
	if err != nil {
		log.Error().Err(err).Msg("generate anonymous id")
		return ""
	}
	c := s.cookie(anonCookieName, id)
	c.Expires = time.Now().Add(180 * 24 * time.Hour)
	http.SetCookie(w, c)
	return id
}

// owner identifies the player of the current request.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) store.Owner {
	if u := userFrom(r.Context()); u != nil {
		return store.Owner{UserID: u.ID}
	}
	return store.Owner{AnonID: s.ensureAnonID(w, r)}
}

// playerKey is the identifier games and daily results are stored under.
func playerKey(o store.Owner) string {
	if o.UserID != "" {
		return o.UserID
	}
	return "anon:" + o.AnonID
}

// owns reports whether the request comes from the player who started a game.
// A signed-in user also owns the games of the anonymous cookie they still carry,
// since those are claimed at sign-in.
func owns(r *http.Request, player string) bool {
	if player == "" {
		return false
	}
	if u := userFrom(r.Context()); u != nil && player == u.ID {
		return true
	}
	id := anonID(r)
	return id != "" && player == playerKey(store.Owner{AnonID: id})
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// validateSignup enforces basic username/password rules.
// Usernames may use Latin or Cyrillic letters, digits and underscore.
func validateSignup(u, p string) error {
	if n := len([]rune(u)); n < 3 || n > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || unicode.IsDigit(r) || unicode.In(r, unicode.Latin, unicode.Cyrillic)) {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8-72 chars")
	}
	return nil
}

// genID creates a 22-char URL-safe, crypto-random identifier.
func genID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
