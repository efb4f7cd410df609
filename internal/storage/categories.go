package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"todolist/internal/model"
)

func (s *SQLStore) InsertCategory(ctx context.Context, category *model.Category) error {
	const q = `
		INSERT INTO categories (board_id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, created, updated`
	return s.ext.QueryRowxContext(ctx, q, category.BoardID, category.UserID, category.Title).
		Scan(&category.ID, &category.Created, &category.Updated)
}

func (s *SQLStore) CategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	const q = `
		SELECT id, board_id, user_id, title, is_deleted, created, updated
		FROM categories WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.ext, &category, q, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &category, nil
}

func (s *SQLStore) CategoriesByParticipant(ctx context.Context, userID int64) ([]model.Category, error) {
	categories := []model.Category{}
	const q = `
		SELECT c.id, c.board_id, c.user_id, c.title, c.is_deleted, c.created, c.updated
		FROM categories c
		JOIN boards b ON b.id = c.board_id
		JOIN board_participants p ON p.board_id = b.id
		WHERE p.user_id = $1 AND NOT c.is_deleted AND NOT b.is_deleted
		ORDER BY c.title, c.id`
	if err := sqlx.SelectContext(ctx, s.ext, &categories, q, userID); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *SQLStore) UpdateCategoryTitle(ctx context.Context, id int64, title string) error {
	const q = `UPDATE categories SET title = $2, updated = now() WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id, title)
	return err
}

func (s *SQLStore) MarkCategoryDeleted(ctx context.Context, id int64) error {
	const q = `UPDATE categories SET is_deleted = TRUE, updated = now() WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id)
	return err
}

func (s *SQLStore) MarkCategoriesDeletedByBoard(ctx context.Context, boardID int64) error {
	const q = `UPDATE categories SET is_deleted = TRUE, updated = now() WHERE board_id = $1`
	_, err := s.ext.ExecContext(ctx, q, boardID)
	return err
}
