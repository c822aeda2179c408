package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/notekeeperapp/notekeeper/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: http.StatusNotFound, Message: "not found"}
	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	err := store.ErrAlreadyExists.WithCause(errors.New("UNIQUE constraint failed: users.email"))

	assert.Contains(t, err.Error(), "resource already exists")
	assert.Contains(t, err.Error(), "users.email")
	assert.Equal(t, http.StatusConflict, err.HTTPCode())
}

func TestError_WithMessageKeepsIdentity(t *testing.T) {
	err := store.ErrNotFound.WithMessage("book 7 not found")

	assert.Equal(t, "book 7 not found", err.Error())
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.False(t, errors.Is(err, store.ErrAlreadyExists))
	// The sentinel itself is untouched.
	assert.Equal(t, "resource not found", store.ErrNotFound.Message)
}

func TestIsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("get chapter: %w", store.ErrNotFound)

	assert.True(t, store.IsNotFound(wrapped))
	assert.False(t, store.IsAlreadyExists(wrapped))
	assert.True(t, store.IsAlreadyExists(store.ErrAlreadyExists))
	assert.False(t, store.IsNotFound(errors.New("boom")))
}
