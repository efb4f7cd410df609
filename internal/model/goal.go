package model

import "time"

// GoalStatus follows the original numbering; Archived is terminal and doubles
// as the soft-delete marker for goals.
type GoalStatus int

const (
	StatusToDo       GoalStatus = 1
	StatusInProgress GoalStatus = 2
	StatusDone       GoalStatus = 3
	StatusArchived   GoalStatus = 4
)

// Priority of a goal.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

// Category groups goals within a board.
type Category struct {
	ID        int64     `db:"id"`
	BoardID   int64     `db:"board_id"`
	UserID    int64     `db:"user_id"`
	Title     string    `db:"title"`
	IsDeleted bool      `db:"is_deleted"`
	Created   time.Time `db:"created"`
	Updated   time.Time `db:"updated"`
}

// Goal lives under a category and is owned by its creating user.
type Goal struct {
	ID          int64      `db:"id"`
	CategoryID  int64      `db:"category_id"`
	UserID      int64      `db:"user_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Status      GoalStatus `db:"status"`
	Priority    Priority   `db:"priority"`
	DueDate     *time.Time `db:"due_date"`
	Created     time.Time  `db:"created"`
	Updated     time.Time  `db:"updated"`
}

// Comment on a goal. Hard-deletable by its author only.
type Comment struct {
	ID      int64     `db:"id"`
	GoalID  int64     `db:"goal_id"`
	UserID  int64     `db:"user_id"`
	Text    string    `db:"text"`
	Created time.Time `db:"created"`
	Updated time.Time `db:"updated"`
}
