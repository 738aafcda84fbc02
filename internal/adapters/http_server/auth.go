package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"ticket_hotels/internal/domain"
)

type ctxKey int

const userIDKey ctxKey = iota

// Claims is the bearer token payload issued at sign-in.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// UserIDFrom returns the authenticated user id placed by Authenticate.
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Authenticate admits a request only when it carries a valid HS256 bearer
// token and a session holding that token exists for the same user.
func Authenticate(secret []byte, sessions domain.SessionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok || len(secret) == 0 {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !parsed.Valid || claims.UserID <= 0 {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
				return
			}

			sess, err := sessions.FindSessionByToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no session for token")
					return
				}
				log.Error().Err(err).Msg("session lookup failed")
				writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
				return
			}
			if sess.UserID != claims.UserID {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "session does not match token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(h string) (string, bool) {
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// SignToken issues a token for userID. Sign-in lives upstream; this is used
// by tooling and tests to mint tokens the gate accepts.
func SignToken(secret []byte, userID int64) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID}).SignedString(secret)
}
