// Package api exposes the account, verification and goal-tracker endpoints
// over HTTP with bearer-token authentication.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"todolist/internal/goals"
	"todolist/internal/model"
)

// UserStore is the account persistence surface the API needs.
type UserStore interface {
	UserResolver
	Create(ctx context.Context, user *model.User) error
	ByUsername(ctx context.Context, username string) (*model.User, error)
	CreateSession(ctx context.Context, session *model.Session) error
}

// IdentityLinker binds a Telegram identity to an account by verification code.
type IdentityLinker interface {
	LinkUser(ctx context.Context, code string, userID int64) (*model.TgUser, error)
}

// Server routes HTTP requests into the goals service.
type Server struct {
	svc        *goals.Service
	users      UserStore
	identities IdentityLinker
	log        *slog.Logger
}

func NewServer(svc *goals.Service, users UserStore, identities IdentityLinker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, users: users, identities: identities, log: log}
}

// Handler builds the route table. Paths mirror the public API contract:
// /core for accounts, /bot for account linking, /goals for the tracker.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /core/signup", s.handleSignup)
	mux.HandleFunc("POST /core/login", s.handleLogin)

	mux.HandleFunc("PATCH /bot/verify", s.requireAuth(s.handleVerify))

	mux.HandleFunc("POST /goals/board/create", s.requireAuth(s.handleBoardCreate))
	mux.HandleFunc("GET /goals/board/list", s.requireAuth(s.handleBoardList))
	mux.HandleFunc("GET /goals/board/{id}", s.requireAuth(s.handleBoardGet))
	mux.HandleFunc("PUT /goals/board/{id}", s.requireAuth(s.handleBoardUpdate))
	mux.HandleFunc("DELETE /goals/board/{id}", s.requireAuth(s.handleBoardDelete))

	mux.HandleFunc("POST /goals/goal_category/create", s.requireAuth(s.handleCategoryCreate))
	mux.HandleFunc("GET /goals/goal_category/list", s.requireAuth(s.handleCategoryList))
	mux.HandleFunc("GET /goals/goal_category/{id}", s.requireAuth(s.handleCategoryGet))
	mux.HandleFunc("PUT /goals/goal_category/{id}", s.requireAuth(s.handleCategoryUpdate))
	mux.HandleFunc("DELETE /goals/goal_category/{id}", s.requireAuth(s.handleCategoryDelete))

	mux.HandleFunc("POST /goals/goal/create", s.requireAuth(s.handleGoalCreate))
	mux.HandleFunc("GET /goals/goal/list", s.requireAuth(s.handleGoalList))
	mux.HandleFunc("GET /goals/goal/{id}", s.requireAuth(s.handleGoalGet))
	mux.HandleFunc("PUT /goals/goal/{id}", s.requireAuth(s.handleGoalUpdate))
	mux.HandleFunc("DELETE /goals/goal/{id}", s.requireAuth(s.handleGoalDelete))

	mux.HandleFunc("POST /goals/goal_comment/create", s.requireAuth(s.handleCommentCreate))
	mux.HandleFunc("GET /goals/goal_comment/list", s.requireAuth(s.handleCommentList))
	mux.HandleFunc("PUT /goals/goal_comment/{id}", s.requireAuth(s.handleCommentUpdate))
	mux.HandleFunc("DELETE /goals/goal_comment/{id}", s.requireAuth(s.handleCommentDelete))

	return s.accessLog(mux)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			slog.String("event", "api.request"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("took", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
