package mapping

import (
	"fmt"

	apperrors "github.com/stamp/pkg/errors"
)

// MethodNotFoundError is returned by method lookups that find no match.
// ID is exactly the identity that was queried.
type MethodNotFoundError struct {
	ID string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method not found: %s", e.ID)
}

// Unwrap lets errors.Is match apperrors.ErrNotFound.
func (e *MethodNotFoundError) Unwrap() error {
	return apperrors.ErrNotFound
}

// FieldNotFoundError is returned by RequireField when no field matches.
type FieldNotFoundError struct {
	Name string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found: %s", e.Name)
}

// Unwrap lets errors.Is match apperrors.ErrNotFound.
func (e *FieldNotFoundError) Unwrap() error {
	return apperrors.ErrNotFound
}

// DuplicateMemberError is returned when a member with the same identity is
// already mapped in the class.
type DuplicateMemberError struct {
	Class string
	Kind  MemberKind
	ID    string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("duplicate %s in %s: %s", e.Kind, e.Class, e.ID)
}

// Unwrap lets errors.Is match apperrors.ErrDuplicateMember.
func (e *DuplicateMemberError) Unwrap() error {
	return apperrors.ErrDuplicateMember
}
