package goals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todolist/internal/model"
)

// CreateGoalInput carries the writable goal fields on creation.
type CreateGoalInput struct {
	CategoryID  int64
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *time.Time
}

// UpdateGoalInput patches a goal; nil fields are left untouched.
type UpdateGoalInput struct {
	Title       *string
	Description *string
	Status      *model.GoalStatus
	Priority    *model.Priority
	DueDate     *time.Time
}

// CreateGoal adds a goal under a category. Requires owner or writer role on
// the owning board; a deleted category rejects creation with a validation
// error.
func (s *Service) CreateGoal(ctx context.Context, userID int64, in CreateGoalInput) (*model.Goal, error) {
	category, err := s.store.CategoryByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleForBoard(ctx, category.BoardID, userID)
	if err != nil {
		return nil, err
	}
	if category.IsDeleted {
		return nil, fmt.Errorf("%w: category is deleted", ErrValidation)
	}
	if !canWriteChild(role) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	priority := in.Priority
	if priority == 0 {
		priority = model.PriorityMedium
	}

	goal := &model.Goal{
		CategoryID:  in.CategoryID,
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Status:      model.StatusToDo,
		Priority:    priority,
		DueDate:     in.DueDate,
	}
	if err := s.store.InsertGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns non-archived goals in live categories across boards the
// user participates in, narrowed by the filter.
func (s *Service) ListGoals(ctx context.Context, userID int64, filter GoalFilter) ([]model.Goal, error) {
	return s.store.GoalsByParticipant(ctx, userID, filter)
}

// GetGoal returns one visible, non-archived goal.
func (s *Service) GetGoal(ctx context.Context, userID, goalID int64) (*model.Goal, error) {
	goal, _, err := s.visibleGoal(ctx, goalID, userID)
	return goal, err
}

// UpdateGoal patches a goal. Owner or writer role required; archiving through
// an update is rejected, deletion is the only archival path.
func (s *Service) UpdateGoal(ctx context.Context, userID, goalID int64, in UpdateGoalInput) (*model.Goal, error) {
	goal, role, err := s.visibleGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if !canWriteChild(role) {
		return nil, ErrForbidden
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		goal.Title = title
	}
	if in.Description != nil {
		goal.Description = *in.Description
	}
	if in.Status != nil {
		if *in.Status == model.StatusArchived || *in.Status < model.StatusToDo || *in.Status > model.StatusDone {
			return nil, fmt.Errorf("%w: invalid status", ErrValidation)
		}
		goal.Status = *in.Status
	}
	if in.Priority != nil {
		if *in.Priority < model.PriorityLow || *in.Priority > model.PriorityCritical {
			return nil, fmt.Errorf("%w: invalid priority", ErrValidation)
		}
		goal.Priority = *in.Priority
	}
	if in.DueDate != nil {
		goal.DueDate = in.DueDate
	}

	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal %d: %w", goalID, err)
	}
	return goal, nil
}

// DeleteGoal archives the goal; goals are never removed physically.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	_, role, err := s.visibleGoal(ctx, goalID, userID)
	if err != nil {
		return err
	}
	if !canWriteChild(role) {
		return ErrForbidden
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		return tx.ArchiveGoal(ctx, goalID)
	})
	if err != nil {
		return fmt.Errorf("delete goal %d: %w", goalID, err)
	}
	return nil
}
