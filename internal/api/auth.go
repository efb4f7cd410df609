package api

import (
	"context"
	"net/http"
	"strings"

	"todolist/internal/model"
)

type ctxKey int

const userKey ctxKey = 0

// UserResolver turns a bearer token into the account it belongs to.
type UserResolver interface {
	UserByToken(ctx context.Context, token string) (*model.User, error)
}

// requireAuth rejects requests without a valid bearer token and stores the
// resolved account on the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authorization required"})
			return
		}
		user, err := s.users.UserByToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

func userFrom(r *http.Request) *model.User {
	user, _ := r.Context().Value(userKey).(*model.User)
	return user
}
