package goals

import (
	"context"
	"fmt"
	"strings"

	"todolist/internal/model"
)

// CreateComment adds a comment to a goal. Creation is gated by board role
// (owner or writer); an archived goal rejects it with a validation error.
func (s *Service) CreateComment(ctx context.Context, userID, goalID int64, text string) (*model.Comment, error) {
	goal, role, err := s.goalWithRole(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if goal.Status == model.StatusArchived {
		return nil, fmt.Errorf("%w: goal is archived", ErrValidation)
	}
	if !canWriteChild(role) {
		return nil, ErrForbidden
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	comment := &model.Comment{GoalID: goalID, UserID: userID, Text: text}
	if err := s.store.InsertComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns comments on a visible goal, any participant role.
func (s *Service) ListComments(ctx context.Context, userID, goalID int64) ([]model.Comment, error) {
	if _, _, err := s.visibleGoal(ctx, goalID, userID); err != nil {
		return nil, err
	}
	return s.store.CommentsByGoal(ctx, goalID)
}

// UpdateComment edits a comment. Authorship gates mutation: board role is
// irrelevant here, even a reader may edit their own comment.
func (s *Service) UpdateComment(ctx context.Context, userID, commentID int64, text string) (*model.Comment, error) {
	comment, err := s.visibleComment(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	if err := s.store.UpdateCommentText(ctx, commentID, text); err != nil {
		return nil, fmt.Errorf("update comment %d: %w", commentID, err)
	}
	comment.Text = text
	return comment, nil
}

// DeleteComment removes a comment permanently. Author only.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID int64) error {
	comment, err := s.visibleComment(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	return nil
}

func (s *Service) visibleComment(ctx context.Context, userID, commentID int64) (*model.Comment, error) {
	comment, err := s.store.CommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.goalWithRole(ctx, comment.GoalID, userID); err != nil {
		return nil, err
	}
	return comment, nil
}
