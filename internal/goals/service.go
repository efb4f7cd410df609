package goals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"todolist/internal/model"
)

// GoalFilter narrows ListGoals output. Zero value means no filtering beyond
// the standard visibility rules.
type GoalFilter struct {
	CategoryIDs []int64
	Statuses    []model.GoalStatus
	Priorities  []model.Priority
	DueBefore   *time.Time
	DueAfter    *time.Time
	Search      string
}

// Store is the persistence surface the service drives. Implementations must
// run the fn passed to InTx against a store bound to one transaction;
// returning an error rolls the transaction back.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	InsertBoard(ctx context.Context, board *model.Board) error
	BoardByID(ctx context.Context, id int64) (*model.Board, error)
	BoardsByParticipant(ctx context.Context, userID int64) ([]model.Board, error)
	UpdateBoardTitle(ctx context.Context, id int64, title string) error
	MarkBoardDeleted(ctx context.Context, id int64) error

	InsertParticipant(ctx context.Context, p *model.BoardParticipant) error
	Participants(ctx context.Context, boardID int64) ([]model.BoardParticipant, error)
	ParticipantRole(ctx context.Context, boardID, userID int64) (model.Role, bool, error)
	UpdateParticipantRole(ctx context.Context, id int64, role model.Role) error
	DeleteParticipant(ctx context.Context, id int64) error

	InsertCategory(ctx context.Context, category *model.Category) error
	CategoryByID(ctx context.Context, id int64) (*model.Category, error)
	CategoriesByParticipant(ctx context.Context, userID int64) ([]model.Category, error)
	UpdateCategoryTitle(ctx context.Context, id int64, title string) error
	MarkCategoryDeleted(ctx context.Context, id int64) error
	MarkCategoriesDeletedByBoard(ctx context.Context, boardID int64) error

	InsertGoal(ctx context.Context, goal *model.Goal) error
	GoalByID(ctx context.Context, id int64) (*model.Goal, error)
	GoalsByParticipant(ctx context.Context, userID int64, filter GoalFilter) ([]model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	ArchiveGoal(ctx context.Context, id int64) error
	ArchiveGoalsByCategory(ctx context.Context, categoryID int64) error
	ArchiveGoalsByBoard(ctx context.Context, boardID int64) error

	InsertComment(ctx context.Context, comment *model.Comment) error
	CommentByID(ctx context.Context, id int64) (*model.Comment, error)
	CommentsByGoal(ctx context.Context, goalID int64) ([]model.Comment, error)
	UpdateCommentText(ctx context.Context, id int64, text string) error
	DeleteComment(ctx context.Context, id int64) error
}

// Service enforces board-scoped authorization and cascade consistency over
// the board - category - goal - comment hierarchy.
//
// Visibility rule: absent participant access reads as not-found so the API
// never confirms existence; insufficient role on an otherwise visible record
// reads as forbidden.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService builds the authorization layer on top of a store.
func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// roleForBoard resolves the actor's role; absence maps to model.ErrNotFound.
func (s *Service) roleForBoard(ctx context.Context, boardID, userID int64) (model.Role, error) {
	role, ok, err := s.store.ParticipantRole(ctx, boardID, userID)
	if err != nil {
		return 0, fmt.Errorf("participant role board=%d: %w", boardID, err)
	}
	if !ok {
		return 0, model.ErrNotFound
	}
	return role, nil
}

// visibleBoard returns a live board the user participates in.
func (s *Service) visibleBoard(ctx context.Context, boardID, userID int64) (*model.Board, model.Role, error) {
	board, err := s.store.BoardByID(ctx, boardID)
	if err != nil {
		return nil, 0, err
	}
	if board.IsDeleted {
		return nil, 0, model.ErrNotFound
	}
	role, err := s.roleForBoard(ctx, boardID, userID)
	if err != nil {
		return nil, 0, err
	}
	return board, role, nil
}

// visibleCategory returns a live category on a board the user participates in.
func (s *Service) visibleCategory(ctx context.Context, categoryID, userID int64) (*model.Category, model.Role, error) {
	category, err := s.store.CategoryByID(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	if category.IsDeleted {
		return nil, 0, model.ErrNotFound
	}
	role, err := s.roleForBoard(ctx, category.BoardID, userID)
	if err != nil {
		return nil, 0, err
	}
	return category, role, nil
}

// goalWithRole resolves a goal and the actor's role on its board without
// hiding archived goals; callers decide how archival reads.
func (s *Service) goalWithRole(ctx context.Context, goalID, userID int64) (*model.Goal, model.Role, error) {
	goal, err := s.store.GoalByID(ctx, goalID)
	if err != nil {
		return nil, 0, err
	}
	category, err := s.store.CategoryByID(ctx, goal.CategoryID)
	if err != nil {
		return nil, 0, err
	}
	if category.IsDeleted {
		return nil, 0, model.ErrNotFound
	}
	role, err := s.roleForBoard(ctx, category.BoardID, userID)
	if err != nil {
		return nil, 0, err
	}
	return goal, role, nil
}

// visibleGoal additionally hides archived goals.
func (s *Service) visibleGoal(ctx context.Context, goalID, userID int64) (*model.Goal, model.Role, error) {
	goal, role, err := s.goalWithRole(ctx, goalID, userID)
	if err != nil {
		return nil, 0, err
	}
	if goal.Status == model.StatusArchived {
		return nil, 0, model.ErrNotFound
	}
	return goal, role, nil
}

// IsNotFound reports whether the error is the not-found rejection.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
