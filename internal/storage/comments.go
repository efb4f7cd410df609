package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"todolist/internal/model"
)

func (s *SQLStore) InsertComment(ctx context.Context, comment *model.Comment) error {
	const q = `
		INSERT INTO comments (goal_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created, updated`
	return s.ext.QueryRowxContext(ctx, q, comment.GoalID, comment.UserID, comment.Text).
		Scan(&comment.ID, &comment.Created, &comment.Updated)
}

func (s *SQLStore) CommentByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	const q = `SELECT id, goal_id, user_id, text, created, updated FROM comments WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.ext, &comment, q, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &comment, nil
}

func (s *SQLStore) CommentsByGoal(ctx context.Context, goalID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	const q = `
		SELECT id, goal_id, user_id, text, created, updated
		FROM comments
		WHERE goal_id = $1
		ORDER BY created DESC, id DESC`
	if err := sqlx.SelectContext(ctx, s.ext, &comments, q, goalID); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *SQLStore) UpdateCommentText(ctx context.Context, id int64, text string) error {
	const q = `UPDATE comments SET text = $2, updated = now() WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id, text)
	return err
}

func (s *SQLStore) DeleteComment(ctx context.Context, id int64) error {
	const q = `DELETE FROM comments WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id)
	return err
}
