package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"todolist/internal/model"
)

// Users persists internal accounts and their login sessions.
type Users struct {
	db *sqlx.DB
}

func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Create inserts an account. A taken username surfaces as model.ErrDuplicate.
func (s *Users) Create(ctx context.Context, user *model.User) error {
	const q = `
		INSERT INTO users (username, password_hash, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created, updated`
	err := s.db.QueryRowxContext(ctx, q,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Email,
	).Scan(&user.ID, &user.Created, &user.Updated)
	if err != nil && isUniqueViolation(err) {
		return model.ErrDuplicate
	}
	return err
}

func (s *Users) ByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	const q = `
		SELECT id, username, password_hash, first_name, last_name, email, created, updated
		FROM users WHERE username = $1`
	if err := s.db.GetContext(ctx, &user, q, username); err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *Users) ByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	const q = `
		SELECT id, username, password_hash, first_name, last_name, email, created, updated
		FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &user, q, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

// CreateSession stores a freshly issued bearer token.
func (s *Users) CreateSession(ctx context.Context, session *model.Session) error {
	const q = `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created`
	return s.db.QueryRowxContext(ctx, q, session.Token, session.UserID, session.ExpiresAt).
		Scan(&session.Created)
}

// UserByToken resolves the account behind a still valid bearer token.
func (s *Users) UserByToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	const q = `
		SELECT u.id, u.username, u.password_hash, u.first_name, u.last_name, u.email, u.created, u.updated
		FROM users u
		JOIN sessions s ON s.user_id = u.id
		WHERE s.token = $1 AND s.expires_at > $2`
	if err := s.db.GetContext(ctx, &user, q, token, time.Now()); err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}
