// Package apperrors defines the error taxonomy shared by the store, the content
// pipeline and the HTTP layer. Every error is matchable with errors.As or errors.Is.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingCategoryForHR is returned when content targets HR without a category.
var ErrMissingCategoryForHR = errors.New("categoryId is required when publishing to HR")

// MissingRequiredFieldError names a required field that is absent or empty.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidFieldError reports a field whose value cannot be interpreted.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// DuplicateNameError is surfaced only by strict-create paths.
type DuplicateNameError struct {
	Resource string
	Name     string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s with name %q already exists", e.Resource, e.Name)
}

// CycleError reports a subspace parent that would make the tree cyclic.
type CycleError struct {
	ID       int64
	ParentID int64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("subspace %d cannot be placed under %d: parent is the node itself or one of its descendants", e.ID, e.ParentID)
}

// ConflictError reports a request that clashes with current resource state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StorageError wraps any underlying persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NotFound builds a NotFoundError from any printable id.
func NotFound(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

// Storage wraps err as a StorageError; nil stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var missing *MissingRequiredFieldError
	var invalid *InvalidFieldError
	return errors.Is(err, ErrMissingCategoryForHR) || errors.As(err, &missing) || errors.As(err, &invalid)
}

// HTTPStatus maps an error onto the status code returned to API clients.
func HTTPStatus(err error) int {
	var (
		notFound  *NotFoundError
		duplicate *DuplicateNameError
		cycle     *CycleError
		conflict  *ConflictError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate), errors.As(err, &cycle), errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine-readable code used in the error envelope.
func Code(err error) string {
	var (
		missing   *MissingRequiredFieldError
		invalid   *InvalidFieldError
		notFound  *NotFoundError
		duplicate *DuplicateNameError
		cycle     *CycleError
		conflict  *ConflictError
	)
	switch {
	case errors.Is(err, ErrMissingCategoryForHR):
		return "MISSING_CATEGORY_FOR_HR"
	case errors.As(err, &missing):
		return "MISSING_REQUIRED_FIELD"
	case errors.As(err, &invalid):
		return "INVALID_FIELD"
	case errors.As(err, &notFound):
		return "NOT_FOUND"
	case errors.As(err, &duplicate):
		return "DUPLICATE_NAME"
	case errors.As(err, &cycle):
		return "CYCLE"
	case errors.As(err, &conflict):
		return "CONFLICT"
	default:
		return "STORAGE_ERROR"
	}
}
