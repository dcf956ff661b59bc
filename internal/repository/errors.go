package repository

import "errors"

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	// ErrAlreadyPersisted is returned by Save for a record that already has an id.
	ErrAlreadyPersisted = errors.New("record is already persisted")

	// ErrNotPersisted is returned by Update and Delete for a record without an id.
	ErrNotPersisted = errors.New("record is not persisted")

	// ErrNoDepartmentFinder is returned when an employee built without a
	// DepartmentFinder needs to resolve its department.
	ErrNoDepartmentFinder = errors.New("employee has no department finder")
)

// ValidationError reports a rejected field assignment. The record keeps its
// previous value when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
