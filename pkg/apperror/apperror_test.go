package apperror

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	wrapped := errors.Wrap(NotFound("booking %s not found", "b1"), "dispatch")

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.True(t, IsExpected(wrapped))
	assert.False(t, IsExpected(errors.New("boom")))
}

func TestFrom(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := From(cause)

	require.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.True(t, errors.Is(appErr, cause))

	conflict := New(KindConflict, "berth taken").WithDetails(map[string]string{"id": "b2"})
	assert.Same(t, conflict, From(conflict))
}
