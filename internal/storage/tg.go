package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"todolist/internal/model"
)

// TgUsers persists Telegram identities.
type TgUsers struct {
	db *sqlx.DB
}

func NewTgUsers(db *sqlx.DB) *TgUsers {
	return &TgUsers{db: db}
}

// GetOrCreate resolves the identity by Telegram id, inserting it on first
// contact. The insert-on-conflict form keeps concurrent first messages from
// the same account racing safely.
func (s *TgUsers) GetOrCreate(ctx context.Context, tgID int64, username string) (*model.TgUser, bool, error) {
	var uname *string
	if username != "" {
		uname = &username
	}

	var user model.TgUser
	const ins = `
		INSERT INTO tg_users (tg_id, tg_username)
		VALUES ($1, $2)
		ON CONFLICT (tg_id) DO NOTHING
		RETURNING id, tg_id, tg_username, verification_code, user_id`
	err := s.db.QueryRowxContext(ctx, ins, tgID, uname).StructScan(&user)
	if err == nil {
		return &user, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	const sel = `
		SELECT id, tg_id, tg_username, verification_code, user_id
		FROM tg_users WHERE tg_id = $1`
	if err := s.db.GetContext(ctx, &user, sel, tgID); err != nil {
		return nil, false, mapNotFound(err)
	}
	return &user, false, nil
}

// UpdateVerificationCode overwrites the identity's code, invalidating the
// previous one. A taken code surfaces as model.ErrDuplicate.
func (s *TgUsers) UpdateVerificationCode(ctx context.Context, id int64, code string) error {
	const q = `UPDATE tg_users SET verification_code = $2 WHERE id = $1`
	_, err := s.db.ExecContext(ctx, q, id, code)
	if err != nil && isUniqueViolation(err) {
		return model.ErrDuplicate
	}
	return err
}

// LinkUser binds the internal account to the identity holding the submitted
// code. Linkage is one-shot: an already linked identity never matches.
func (s *TgUsers) LinkUser(ctx context.Context, code string, userID int64) (*model.TgUser, error) {
	var user model.TgUser
	const q = `
		UPDATE tg_users SET user_id = $2
		WHERE verification_code = $1 AND user_id IS NULL
		RETURNING id, tg_id, tg_username, verification_code, user_id`
	if err := s.db.QueryRowxContext(ctx, q, code, userID).StructScan(&user); err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

// ChatStates persists the per-user goal creation wizard state.
type ChatStates struct {
	db *sqlx.DB
}

func NewChatStates(db *sqlx.DB) *ChatStates {
	return &ChatStates{db: db}
}

func (s *ChatStates) GetOrCreate(ctx context.Context, tgUserID int64) (*model.ChatState, error) {
	var state model.ChatState
	const q = `
		INSERT INTO tg_chat_states (tg_user_id)
		VALUES ($1)
		ON CONFLICT (tg_user_id) DO UPDATE SET tg_user_id = EXCLUDED.tg_user_id
		RETURNING tg_user_id, category_id, is_create_command`
	if err := s.db.QueryRowxContext(ctx, q, tgUserID).StructScan(&state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *ChatStates) StartCreate(ctx context.Context, tgUserID int64) error {
	const q = `UPDATE tg_chat_states SET is_create_command = TRUE WHERE tg_user_id = $1`
	_, err := s.db.ExecContext(ctx, q, tgUserID)
	return err
}

func (s *ChatStates) SetCategory(ctx context.Context, tgUserID, categoryID int64) error {
	const q = `UPDATE tg_chat_states SET category_id = $2 WHERE tg_user_id = $1`
	_, err := s.db.ExecContext(ctx, q, tgUserID, categoryID)
	return err
}

func (s *ChatStates) Reset(ctx context.Context, tgUserID int64) error {
	const q = `
		UPDATE tg_chat_states
		SET category_id = NULL, is_create_command = FALSE
		WHERE tg_user_id = $1`
	_, err := s.db.ExecContext(ctx, q, tgUserID)
	return err
}

// CategoryTitlesByOwner lists the titles of live categories the user created.
// The chat wizard offers only the user's own categories.
func (s *SQLStore) CategoryTitlesByOwner(ctx context.Context, userID int64) ([]string, error) {
	titles := []string{}
	const q = `
		SELECT c.title
		FROM categories c
		JOIN boards b ON b.id = c.board_id
		WHERE c.user_id = $1 AND NOT c.is_deleted AND NOT b.is_deleted
		ORDER BY c.title, c.id`
	if err := sqlx.SelectContext(ctx, s.ext, &titles, q, userID); err != nil {
		return nil, err
	}
	return titles, nil
}

// CategoryByTitleAndOwner resolves one live category of the user by title.
func (s *SQLStore) CategoryByTitleAndOwner(ctx context.Context, userID int64, title string) (*model.Category, error) {
	var category model.Category
	const q = `
		SELECT c.id, c.board_id, c.user_id, c.title, c.is_deleted, c.created, c.updated
		FROM categories c
		JOIN boards b ON b.id = c.board_id
		WHERE c.user_id = $1 AND c.title = $2 AND NOT c.is_deleted AND NOT b.is_deleted
		ORDER BY c.id
		LIMIT 1`
	if err := sqlx.GetContext(ctx, s.ext, &category, q, userID, title); err != nil {
		return nil, mapNotFound(err)
	}
	return &category, nil
}

// GoalTitlesForParticipant lists the titles of non-archived goals visible to
// the user across all boards they participate in.
func (s *SQLStore) GoalTitlesForParticipant(ctx context.Context, userID int64) ([]string, error) {
	titles := []string{}
	const q = `
		SELECT g.title
		FROM goals g
		JOIN categories c ON c.id = g.category_id
		JOIN boards b ON b.id = c.board_id
		JOIN board_participants p ON p.board_id = b.id
		WHERE p.user_id = $1 AND g.status <> $2 AND NOT c.is_deleted AND NOT b.is_deleted
		ORDER BY g.id`
	if err := sqlx.SelectContext(ctx, s.ext, &titles, q, userID, model.StatusArchived); err != nil {
		return nil, err
	}
	return titles, nil
}
