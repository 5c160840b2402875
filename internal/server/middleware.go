package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyGameID
)

// gameMiddleware resolves {id} to a live session and checks that the
// caller holds a token issued for it.
func gameMiddleware(games *Registry, tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")

			raw, err := tokenFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}
			subject, err := tokens.Verify(raw)
			if err != nil || subject != id {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			sess, err := games.Get(id)
			if err != nil {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			ctx = context.WithValue(ctx, ctxKeyGameID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gameSession(r *http.Request) *mathquiz.Session {
	return r.Context().Value(ctxKeySession).(*mathquiz.Session)
}

func gameID(r *http.Request) string {
	return r.Context().Value(ctxKeyGameID).(string)
}
