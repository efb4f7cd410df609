package model

import "time"

// Role grants a user rights on a board, strictly ordered by privilege.
type Role int

const (
	RoleOwner  Role = 1
	RoleWriter Role = 2
	RoleReader Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleWriter:
		return "writer"
	case RoleReader:
		return "reader"
	}
	return "unknown"
}

// Valid reports whether the role is one of the defined grants.
func (r Role) Valid() bool {
	return r >= RoleOwner && r <= RoleReader
}

// Board is the top of the containment hierarchy. Never removed physically,
// only marked deleted.
type Board struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	IsDeleted bool      `db:"is_deleted"`
	Created   time.Time `db:"created"`
	Updated   time.Time `db:"updated"`
}

// BoardParticipant is a (board, user, role) grant. One row per (board, user).
type BoardParticipant struct {
	ID      int64     `db:"id"`
	BoardID int64     `db:"board_id"`
	UserID  int64     `db:"user_id"`
	Role    Role      `db:"role"`
	Created time.Time `db:"created"`
	Updated time.Time `db:"updated"`
}
