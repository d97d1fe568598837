// File: internal/common/errors_test.go
package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := ErrNotFound.WithDetails("Profile not found.")

	assert.NotSame(t, ErrNotFound, detailed)
	assert.Nil(t, ErrNotFound.Details)
	assert.Equal(t, "Profile not found.", detailed.Details)
}

func TestErrorsIsMatchesDetailCopies(t *testing.T) {
	detailed := ErrNotFound.WithDetails("Profile not found.")

	assert.True(t, errors.Is(detailed, ErrNotFound))
	assert.False(t, errors.Is(detailed, ErrConflict))

	// Matching survives wrapping too.
	wrapped := fmt.Errorf("lookup failed: %w", detailed)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestIsAPIErrorUnwrapsDetailCopies(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", ErrConflict.WithDetails("already reviewed"))

	apiErr, ok := IsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, "CONFLICT", apiErr.Code)
}
