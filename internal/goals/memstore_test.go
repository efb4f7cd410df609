package goals

import (
	"context"
	"strings"
	"time"

	"todolist/internal/model"
)

// memStore is an in-memory Store for service tests. InTx runs the callback
// against the same store; rollback fidelity is covered by the SQL layer.
type memStore struct {
	nextID int64

	boards       map[int64]*model.Board
	participants map[int64]*model.BoardParticipant
	categories   map[int64]*model.Category
	goals        map[int64]*model.Goal
	comments     map[int64]*model.Comment
}

func newMemStore() *memStore {
	return &memStore{
		boards:       map[int64]*model.Board{},
		participants: map[int64]*model.BoardParticipant{},
		categories:   map[int64]*model.Category{},
		goals:        map[int64]*model.Goal{},
		comments:     map[int64]*model.Comment{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) InTx(_ context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) InsertBoard(_ context.Context, board *model.Board) error {
	board.ID = m.id()
	board.Created = time.Now()
	board.Updated = board.Created
	clone := *board
	m.boards[board.ID] = &clone
	return nil
}

func (m *memStore) BoardByID(_ context.Context, id int64) (*model.Board, error) {
	board, ok := m.boards[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *board
	return &clone, nil
}

func (m *memStore) BoardsByParticipant(_ context.Context, userID int64) ([]model.Board, error) {
	var out []model.Board
	for _, p := range m.participants {
		if p.UserID != userID {
			continue
		}
		if board, ok := m.boards[p.BoardID]; ok && !board.IsDeleted {
			out = append(out, *board)
		}
	}
	return out, nil
}

func (m *memStore) UpdateBoardTitle(_ context.Context, id int64, title string) error {
	if board, ok := m.boards[id]; ok {
		board.Title = title
	}
	return nil
}

func (m *memStore) MarkBoardDeleted(_ context.Context, id int64) error {
	if board, ok := m.boards[id]; ok {
		board.IsDeleted = true
	}
	return nil
}

func (m *memStore) InsertParticipant(_ context.Context, p *model.BoardParticipant) error {
	for _, existing := range m.participants {
		if existing.BoardID == p.BoardID && existing.UserID == p.UserID {
			return model.ErrDuplicate
		}
	}
	p.ID = m.id()
	clone := *p
	m.participants[p.ID] = &clone
	return nil
}

func (m *memStore) Participants(_ context.Context, boardID int64) ([]model.BoardParticipant, error) {
	var out []model.BoardParticipant
	for _, p := range m.participants {
		if p.BoardID == boardID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) ParticipantRole(_ context.Context, boardID, userID int64) (model.Role, bool, error) {
	for _, p := range m.participants {
		if p.BoardID == boardID && p.UserID == userID {
			return p.Role, true, nil
		}
	}
	return 0, false, nil
}

func (m *memStore) UpdateParticipantRole(_ context.Context, id int64, role model.Role) error {
	if p, ok := m.participants[id]; ok {
		p.Role = role
	}
	return nil
}

func (m *memStore) DeleteParticipant(_ context.Context, id int64) error {
	delete(m.participants, id)
	return nil
}

func (m *memStore) InsertCategory(_ context.Context, category *model.Category) error {
	category.ID = m.id()
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *memStore) CategoryByID(_ context.Context, id int64) (*model.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *category
	return &clone, nil
}

func (m *memStore) CategoriesByParticipant(_ context.Context, userID int64) ([]model.Category, error) {
	var out []model.Category
	for _, c := range m.categories {
		if c.IsDeleted {
			continue
		}
		board, ok := m.boards[c.BoardID]
		if !ok || board.IsDeleted {
			continue
		}
		if role, ok, _ := m.ParticipantRole(context.Background(), c.BoardID, userID); ok && role.Valid() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCategoryTitle(_ context.Context, id int64, title string) error {
	if c, ok := m.categories[id]; ok {
		c.Title = title
	}
	return nil
}

func (m *memStore) MarkCategoryDeleted(_ context.Context, id int64) error {
	if c, ok := m.categories[id]; ok {
		c.IsDeleted = true
	}
	return nil
}

func (m *memStore) MarkCategoriesDeletedByBoard(_ context.Context, boardID int64) error {
	for _, c := range m.categories {
		if c.BoardID == boardID {
			c.IsDeleted = true
		}
	}
	return nil
}

func (m *memStore) InsertGoal(_ context.Context, goal *model.Goal) error {
	goal.ID = m.id()
	clone := *goal
	m.goals[goal.ID] = &clone
	return nil
}

func (m *memStore) GoalByID(_ context.Context, id int64) (*model.Goal, error) {
	goal, ok := m.goals[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *goal
	return &clone, nil
}

func (m *memStore) GoalsByParticipant(_ context.Context, userID int64, filter GoalFilter) ([]model.Goal, error) {
	var out []model.Goal
	for _, g := range m.goals {
		if g.Status == model.StatusArchived {
			continue
		}
		category, ok := m.categories[g.CategoryID]
		if !ok || category.IsDeleted {
			continue
		}
		if _, ok, _ := m.ParticipantRole(context.Background(), category.BoardID, userID); !ok {
			continue
		}
		if !matchesFilter(g, filter) {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func matchesFilter(g *model.Goal, filter GoalFilter) bool {
	if len(filter.CategoryIDs) > 0 && !containsInt64(filter.CategoryIDs, g.CategoryID) {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if g.Status == s {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Priorities) > 0 {
		found := false
		for _, p := range filter.Priorities {
			if g.Priority == p {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if filter.DueBefore != nil && (g.DueDate == nil || g.DueDate.After(*filter.DueBefore)) {
		return false
	}
	if filter.DueAfter != nil && (g.DueDate == nil || g.DueDate.Before(*filter.DueAfter)) {
		return false
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(filter.Search)) {
		return false
	}
	return true
}

func containsInt64(haystack []int64, needle int64) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func (m *memStore) UpdateGoal(_ context.Context, goal *model.Goal) error {
	if existing, ok := m.goals[goal.ID]; ok {
		*existing = *goal
	}
	return nil
}

func (m *memStore) ArchiveGoal(_ context.Context, id int64) error {
	if g, ok := m.goals[id]; ok {
		g.Status = model.StatusArchived
	}
	return nil
}

func (m *memStore) ArchiveGoalsByCategory(_ context.Context, categoryID int64) error {
	for _, g := range m.goals {
		if g.CategoryID == categoryID {
			g.Status = model.StatusArchived
		}
	}
	return nil
}

func (m *memStore) ArchiveGoalsByBoard(_ context.Context, boardID int64) error {
	for _, g := range m.goals {
		if c, ok := m.categories[g.CategoryID]; ok && c.BoardID == boardID {
			g.Status = model.StatusArchived
		}
	}
	return nil
}

func (m *memStore) InsertComment(_ context.Context, comment *model.Comment) error {
	comment.ID = m.id()
	clone := *comment
	m.comments[comment.ID] = &clone
	return nil
}

func (m *memStore) CommentByID(_ context.Context, id int64) (*model.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *comment
	return &clone, nil
}

func (m *memStore) CommentsByGoal(_ context.Context, goalID int64) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range m.comments {
		if c.GoalID == goalID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCommentText(_ context.Context, id int64, text string) error {
	if c, ok := m.comments[id]; ok {
		c.Text = text
	}
	return nil
}

func (m *memStore) DeleteComment(_ context.Context, id int64) error {
	delete(m.comments, id)
	return nil
}
