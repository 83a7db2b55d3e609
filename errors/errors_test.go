package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(New("some other error")))

	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(Wrap(ErrNotFound, "creating ROI")))
	assert.True(t, IsNotFoundError(NewNotFoundError("specimen %q", "SPEC1234")))
	assert.True(t, IsNotFoundError(WrapNotFound(New("404"), "POST /api/v1/sections")))
}

func TestNewNotFoundErrorMessage(t *testing.T) {
	err := NewNotFoundError("acquisition %q", "ACQ001")
	assert.Contains(t, err.Error(), `acquisition "ACQ001"`)
	assert.True(t, Is(err, ErrNotFound))
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, Is(ErrInvalidRequest, ErrNotFound))
	assert.False(t, Is(ErrConflict, ErrNotFound))
	assert.True(t, IsInvalidRequestError(Wrap(ErrInvalidRequest, "bad tile")))
	assert.True(t, IsConflictError(Wrap(ErrConflict, "duplicate block")))
}
