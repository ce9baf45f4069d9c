package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing field", &MissingRequiredFieldError{Field: "title"}, http.StatusBadRequest, "MISSING_REQUIRED_FIELD"},
		{"hr category", ErrMissingCategoryForHR, http.StatusBadRequest, "MISSING_CATEGORY_FOR_HR"},
		{"wrapped hr category", fmt.Errorf("create: %w", ErrMissingCategoryForHR), http.StatusBadRequest, "MISSING_CATEGORY_FOR_HR"},
		{"invalid field", &InvalidFieldError{Field: "status", Reason: "bad"}, http.StatusBadRequest, "INVALID_FIELD"},
		{"not found", NotFound("tag", 3), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", &DuplicateNameError{Resource: "tag", Name: "go"}, http.StatusConflict, "DUPLICATE_NAME"},
		{"cycle", &CycleError{ID: 1, ParentID: 2}, http.StatusConflict, "CYCLE"},
		{"conflict", &ConflictError{Message: "busy"}, http.StatusConflict, "CONFLICT"},
		{"storage", Storage("insert", errors.New("disk full")), http.StatusInternalServerError, "STORAGE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}

func TestStorageWrapsOnce(t *testing.T) {
	base := errors.New("boom")
	wrapped := Storage("outer", Storage("inner", base))

	var se *StorageError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "inner", se.Op)
	assert.ErrorIs(t, wrapped, base)
	assert.Nil(t, Storage("noop", nil))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "content 12 not found", NotFound("content", int64(12)).Error())
	assert.True(t, IsNotFound(fmt.Errorf("ctx: %w", NotFound("space", "HR/en"))))
}
