package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName         = errors.New("name must not be empty")
	ErrNameConflict      = errors.New("name already used by a sibling")
	ErrCircularReference = errors.New("circular reference")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrDuplicateID       = errors.New("duplicate node id")
)

// ConflictError reports a rename or insert whose name collides with a sibling
type ConflictError struct {
	ID         string
	Name       string
	ExistingID string
}

func (e *ConflictError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("name %q already used by %s", e.Name, e.ExistingID)
	}
	return fmt.Sprintf("cannot name %s %q: already used by %s", e.ID, e.Name, e.ExistingID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// MoveError represents a rejected move or cut-paste
type MoveError struct {
	SourceID string
	DestID   string
	Err      error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %v", e.SourceID, e.DestID, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
