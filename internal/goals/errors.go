package goals

import "errors"

var (
	// ErrForbidden reports that the record is visible but the actor's board
	// role (or, for comments, authorship) does not permit the action.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation reports a rejected action: bad input or a soft-deleted /
	// archived parent.
	ErrValidation = errors.New("validation failed")
)
