package goals

import "todolist/internal/model"

// Any participant role grants read access.
func canRead(r model.Role) bool {
	return r.Valid()
}

// Owners and writers may create and mutate categories, goals and comments.
func canWriteChild(r model.Role) bool {
	return r == model.RoleOwner || r == model.RoleWriter
}

// Board-level edits and deletion require the owner role exactly.
func canEditBoard(r model.Role) bool {
	return r == model.RoleOwner
}
