package goals

import (
	"context"
	"fmt"
	"strings"

	"todolist/internal/model"
)

// CreateCategory adds a category to a board. Requires owner or writer role;
// a deleted board rejects creation with a validation error.
func (s *Service) CreateCategory(ctx context.Context, userID, boardID int64, title string) (*model.Category, error) {
	board, err := s.store.BoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleForBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if board.IsDeleted {
		return nil, fmt.Errorf("%w: board is deleted", ErrValidation)
	}
	if !canWriteChild(role) {
		return nil, ErrForbidden
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	category := &model.Category{BoardID: boardID, UserID: userID, Title: title}
	if err := s.store.InsertCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// ListCategories returns live categories on boards the user participates in.
func (s *Service) ListCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	return s.store.CategoriesByParticipant(ctx, userID)
}

// GetCategory returns one visible category.
func (s *Service) GetCategory(ctx context.Context, userID, categoryID int64) (*model.Category, error) {
	category, _, err := s.visibleCategory(ctx, categoryID, userID)
	return category, err
}

// UpdateCategory renames a category. Owner or writer role required.
func (s *Service) UpdateCategory(ctx context.Context, userID, categoryID int64, title string) (*model.Category, error) {
	category, role, err := s.visibleCategory(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}
	if !canWriteChild(role) {
		return nil, ErrForbidden
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	if err := s.store.UpdateCategoryTitle(ctx, categoryID, title); err != nil {
		return nil, fmt.Errorf("update category %d: %w", categoryID, err)
	}
	category.Title = title
	return category, nil
}

// DeleteCategory soft-deletes the category and archives its goals in one
// transaction. Owner or writer role required.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID int64) error {
	_, role, err := s.visibleCategory(ctx, categoryID, userID)
	if err != nil {
		return err
	}
	if !canWriteChild(role) {
		return ErrForbidden
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.MarkCategoryDeleted(ctx, categoryID); err != nil {
			return err
		}
		return tx.ArchiveGoalsByCategory(ctx, categoryID)
	})
	if err != nil {
		return fmt.Errorf("delete category %d: %w", categoryID, err)
	}
	return nil
}
