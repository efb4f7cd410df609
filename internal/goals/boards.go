package goals

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"todolist/internal/model"
)

// ParticipantGrant is one desired (user, role) entry in a board update.
type ParticipantGrant struct {
	UserID int64
	Role   model.Role
}

// CreateBoard creates a board and registers the creator as its owner in one
// transaction.
func (s *Service) CreateBoard(ctx context.Context, userID int64, title string) (*model.Board, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	board := &model.Board{Title: title}
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.InsertBoard(ctx, board); err != nil {
			return err
		}
		owner := &model.BoardParticipant{BoardID: board.ID, UserID: userID, Role: model.RoleOwner}
		return tx.InsertParticipant(ctx, owner)
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	s.log.Info("board created",
		slog.String("event", "goals.board_create"),
		slog.Int64("board_id", board.ID),
		slog.Int64("user_id", userID),
	)
	return board, nil
}

// ListBoards returns live boards the user participates in, any role.
func (s *Service) ListBoards(ctx context.Context, userID int64) ([]model.Board, error) {
	return s.store.BoardsByParticipant(ctx, userID)
}

// GetBoard returns a visible board together with its participant grants.
func (s *Service) GetBoard(ctx context.Context, userID, boardID int64) (*model.Board, []model.BoardParticipant, error) {
	board, _, err := s.visibleBoard(ctx, boardID, userID)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.store.Participants(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}
	return board, participants, nil
}

// UpdateBoard renames the board and reconciles its participant list in one
// transaction. Owner role required; the owner's own grant is immutable and
// ignored if present in the desired list.
func (s *Service) UpdateBoard(ctx context.Context, userID, boardID int64, title string, grants []ParticipantGrant) (*model.Board, error) {
	board, role, err := s.visibleBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !canEditBoard(role) {
		return nil, ErrForbidden
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	desired := make(map[int64]model.Role, len(grants))
	for _, g := range grants {
		if g.UserID == userID {
			continue
		}
		if !g.Role.Valid() || g.Role == model.RoleOwner {
			return nil, fmt.Errorf("%w: invalid participant role", ErrValidation)
		}
		desired[g.UserID] = g.Role
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		current, err := tx.Participants(ctx, boardID)
		if err != nil {
			return err
		}
		for _, p := range current {
			if p.UserID == userID {
				continue
			}
			want, keep := desired[p.UserID]
			if !keep {
				if err := tx.DeleteParticipant(ctx, p.ID); err != nil {
					return err
				}
				continue
			}
			if p.Role != want {
				if err := tx.UpdateParticipantRole(ctx, p.ID, want); err != nil {
					return err
				}
			}
			delete(desired, p.UserID)
		}
		for grantee, grantRole := range desired {
			p := &model.BoardParticipant{BoardID: boardID, UserID: grantee, Role: grantRole}
			if err := tx.InsertParticipant(ctx, p); err != nil {
				return err
			}
		}
		return tx.UpdateBoardTitle(ctx, boardID, title)
	})
	if err != nil {
		return nil, fmt.Errorf("update board %d: %w", boardID, err)
	}

	board.Title = title
	return board, nil
}

// DeleteBoard soft-deletes the board and cascades: categories marked deleted,
// goals archived, all in one transaction. Owner role required.
func (s *Service) DeleteBoard(ctx context.Context, userID, boardID int64) error {
	_, role, err := s.visibleBoard(ctx, boardID, userID)
	if err != nil {
		return err
	}
	if !canEditBoard(role) {
		return ErrForbidden
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.MarkBoardDeleted(ctx, boardID); err != nil {
			return err
		}
		if err := tx.MarkCategoriesDeletedByBoard(ctx, boardID); err != nil {
			return err
		}
		return tx.ArchiveGoalsByBoard(ctx, boardID)
	})
	if err != nil {
		return fmt.Errorf("delete board %d: %w", boardID, err)
	}

	s.log.Info("board deleted",
		slog.String("event", "goals.board_delete"),
		slog.Int64("board_id", boardID),
		slog.Int64("user_id", userID),
	)
	return nil
}
