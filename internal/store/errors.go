package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds reported by every store. Use errors.Is to discriminate.
var (
	// ErrItemNotFound is returned when the id does not resolve to a row.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists is returned when create is given an id that is
	// already taken. Nothing is written.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrItemDuplicated is returned when a write would break a uniqueness
	// rule. See DuplicateError for the offending fields.
	ErrItemDuplicated = errors.New("item duplicated")

	// ErrCreate is returned when an insert fails, including when the row
	// was written but could not be read back into an aggregate.
	ErrCreate = errors.New("create failed")

	// ErrSave is returned when an update statement fails.
	ErrSave = errors.New("save failed")

	// ErrUpdate is returned when an update touched zero rows even though
	// the row existed a moment earlier.
	ErrUpdate = errors.New("update affected no rows")

	// ErrItemInUse is returned when a delete is refused because other rows
	// still reference the item.
	ErrItemInUse = errors.New("item is still referenced")

	// ErrInvalidReference is returned when a write points at a parent row
	// that does not exist.
	ErrInvalidReference = errors.New("referenced item does not exist")

	// ErrConstraintViolated is returned when the database rejects a value
	// through a check or not-null constraint.
	ErrConstraintViolated = errors.New("constraint violated")
)

// StoreError adds entity and operation context to an error kind.
type StoreError struct {
	Entity    string // e.g. "workout"
	Operation string // e.g. "update"
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// DuplicateError names the fields whose values already belong to another
// row.
type DuplicateError struct {
	Entity string
	Fields map[string]any
}

// Error implements the error interface for DuplicateError.
func (e *DuplicateError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Fields[k]))
	}
	return fmt.Sprintf("duplicate %s: %s", e.Entity, strings.Join(parts, ", "))
}

// Unwrap makes a DuplicateError match ErrItemDuplicated.
func (e *DuplicateError) Unwrap() error {
	return ErrItemDuplicated
}

// NewDuplicateError creates a DuplicateError.
func NewDuplicateError(entity string, fields map[string]any) *DuplicateError {
	return &DuplicateError{Entity: entity, Fields: fields}
}

// IsNotFoundError reports whether err is ErrItemNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

// IsInUseError reports whether err is ErrItemInUse.
func IsInUseError(err error) bool {
	return errors.Is(err, ErrItemInUse)
}

// IsDuplicateError reports whether err is ErrItemDuplicated.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrItemDuplicated)
}
