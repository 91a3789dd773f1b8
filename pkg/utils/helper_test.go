package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2024-02-15T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("15/02/2024")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	value := "2024-03-01"
	got, err = ParseOptionalDate(&value)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
}

func TestValidateStruct(t *testing.T) {
	type sample struct {
		Action string  `json:"action" validate:"required,oneof=confirm cancel"`
		When   *string `json:"when" validate:"omitempty,date"`
	}

	bad := "not-a-date"
	errs := ValidateStruct(sample{Action: "fly", When: &bad})
	assert.Equal(t, "Must be one of: confirm, cancel", errs["action"])
	assert.Equal(t, "Must be a date (YYYY-MM-DD) or RFC 3339 timestamp", errs["when"])

	good := "2024-02-01"
	assert.Empty(t, ValidateStruct(sample{Action: "confirm", When: &good}))
}
