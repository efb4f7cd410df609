package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"todolist/internal/goals"
	"todolist/internal/model"
)

func (s *SQLStore) InsertGoal(ctx context.Context, goal *model.Goal) error {
	const q = `
		INSERT INTO goals (category_id, user_id, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created, updated`
	return s.ext.QueryRowxContext(ctx, q,
		goal.CategoryID, goal.UserID, goal.Title, goal.Description,
		goal.Status, goal.Priority, goal.DueDate,
	).Scan(&goal.ID, &goal.Created, &goal.Updated)
}

func (s *SQLStore) GoalByID(ctx context.Context, id int64) (*model.Goal, error) {
	var goal model.Goal
	const q = `
		SELECT id, category_id, user_id, title, description, status, priority, due_date, created, updated
		FROM goals WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.ext, &goal, q, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &goal, nil
}

// GoalsByParticipant lists non-archived goals in live categories on live
// boards the user participates in, narrowed by the filter.
func (s *SQLStore) GoalsByParticipant(ctx context.Context, userID int64, filter goals.GoalFilter) ([]model.Goal, error) {
	query := `
		SELECT g.id, g.category_id, g.user_id, g.title, g.description,
		       g.status, g.priority, g.due_date, g.created, g.updated
		FROM goals g
		JOIN categories c ON c.id = g.category_id
		JOIN boards b ON b.id = c.board_id
		JOIN board_participants p ON p.board_id = b.id
		WHERE p.user_id = ? AND g.status <> ? AND NOT c.is_deleted AND NOT b.is_deleted`
	args := []any{userID, model.StatusArchived}

	var conds []string
	if len(filter.CategoryIDs) > 0 {
		conds = append(conds, "g.category_id IN (?)")
		args = append(args, filter.CategoryIDs)
	}
	if len(filter.Statuses) > 0 {
		conds = append(conds, "g.status IN (?)")
		args = append(args, filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		conds = append(conds, "g.priority IN (?)")
		args = append(args, filter.Priorities)
	}
	if filter.DueBefore != nil {
		conds = append(conds, "g.due_date <= ?")
		args = append(args, *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		conds = append(conds, "g.due_date >= ?")
		args = append(args, *filter.DueAfter)
	}
	if filter.Search != "" {
		conds = append(conds, "g.title ILIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conds) > 0 {
		query += " AND " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY g.priority DESC, g.id"

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build goals query: %w", err)
	}

	list := []model.Goal{}
	if err := sqlx.SelectContext(ctx, s.ext, &list, s.ext.Rebind(query), expanded...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *SQLStore) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	const q = `
		UPDATE goals
		SET title = $2, description = $3, status = $4, priority = $5, due_date = $6, updated = now()
		WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q,
		goal.ID, goal.Title, goal.Description, goal.Status, goal.Priority, goal.DueDate)
	return err
}

func (s *SQLStore) ArchiveGoal(ctx context.Context, id int64) error {
	const q = `UPDATE goals SET status = $2, updated = now() WHERE id = $1`
	_, err := s.ext.ExecContext(ctx, q, id, model.StatusArchived)
	return err
}

func (s *SQLStore) ArchiveGoalsByCategory(ctx context.Context, categoryID int64) error {
	const q = `UPDATE goals SET status = $2, updated = now() WHERE category_id = $1`
	_, err := s.ext.ExecContext(ctx, q, categoryID, model.StatusArchived)
	return err
}

func (s *SQLStore) ArchiveGoalsByBoard(ctx context.Context, boardID int64) error {
	const q = `
		UPDATE goals SET status = $2, updated = now()
		WHERE category_id IN (SELECT id FROM categories WHERE board_id = $1)`
	_, err := s.ext.ExecContext(ctx, q, boardID, model.StatusArchived)
	return err
}
