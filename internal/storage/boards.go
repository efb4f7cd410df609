package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"todolist/internal/model"
)

func (s *SQLStore) InsertBoard(ctx context.Context, board *model.Board) error {
	const q = `
		INSERT INTO boards (title)
		VALUES ($1)
		RETURNING id, created, updated`
	return s.ext.QueryRowxContext(ctx, q, board.Title).
		Scan(&board.ID, &board.Created, &board.Updated)
}

func (s *SQLStore) BoardByID(ctx context.Context, id int64) (*model.Board, error) {
	var board model.Board
	const q = `SELECT id, title, is_deleted, created, updated FROM boards WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.ext, &board, q, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &board, nil
}

func (s *SQLStore) BoardsByParticipant(ctx context.Context, userID int64) ([]model.Board, error) {
	boards := []model.Board{}
	const q = `
		SELECT b.id, b.title, b.is_deleted, b.created, b.updated
		FROM boards b
		JOIN board_participants p ON p.board_id = b.id
		WHERE p.user_id = $1 AND NOT b.is_deleted
		ORDER BY b.title, b.id`
	if err := sqlx.SelectContext(ctx, s.ext, &boards, q, userID); err != nil {
		return nil, err
	}
	return boards, nil
}

func (s *SQLStore) UpdateBoardTitle(ctx context.Context, id int64, title string) error {
	const q = `UPDATE boards SET title = $2, updated = now() WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id, title)
	return err
}

func (s *SQLStore) MarkBoardDeleted(ctx context.Context, id int64) error {
	const q = `UPDATE boards SET is_deleted = TRUE, updated = now() WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id)
	return err
}

func (s *SQLStore) InsertParticipant(ctx context.Context, p *model.BoardParticipant) error {
	const q = `
		INSERT INTO board_participants (board_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created, updated`
	err := s.ext.QueryRowxContext(ctx, q, p.BoardID, p.UserID, p.Role).
		Scan(&p.ID, &p.Created, &p.Updated)
	if err != nil && isUniqueViolation(err) {
		return model.ErrDuplicate
	}
	return err
}

func (s *SQLStore) Participants(ctx context.Context, boardID int64) ([]model.BoardParticipant, error) {
	participants := []model.BoardParticipant{}
	const q = `
		SELECT id, board_id, user_id, role, created, updated
		FROM board_participants
		WHERE board_id = $1
		ORDER BY role, id`
	if err := sqlx.SelectContext(ctx, s.ext, &participants, q, boardID); err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *SQLStore) ParticipantRole(ctx context.Context, boardID, userID int64) (model.Role, bool, error) {
	var role model.Role
	const q = `SELECT role FROM board_participants WHERE board_id = $1 AND user_id = $2`
	err := sqlx.GetContext(ctx, s.ext, &role, q, boardID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return role, true, nil
}

func (s *SQLStore) UpdateParticipantRole(ctx context.Context, id int64, role model.Role) error {
	const q = `UPDATE board_participants SET role = $2, updated = now() WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id, role)
	return err
}

func (s *SQLStore) DeleteParticipant(ctx context.Context, id int64) error {
	const q = `DELETE FROM board_participants WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id)
	return err
}
