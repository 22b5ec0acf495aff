package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID(t *testing.T) {
	id, err := UserID(" 0B3E0D5C-8E3A-4D44-9F2B-8D9B1B0C6A11 ")
	require.NoError(t, err)
	assert.Equal(t, "0b3e0d5c-8e3a-4d44-9f2b-8d9b1b0c6a11", id)

	_, err = UserID("42")
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestDate(t *testing.T) {
	d, err := Date("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = Date("2026-02-30")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Date("28/02/2026")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDateRange(t *testing.T) {
	today := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	from, to, err := DateRange("", "", 7, today)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-13", from.Format(time.DateOnly))
	assert.Equal(t, "2026-10-19", to.Format(time.DateOnly))

	from, to, err = DateRange("2026-01-01", "2026-01-31", 7, today)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, to.Sub(from))

	_, _, err = DateRange("2026-02-01", "2026-01-01", 7, today)
	assert.ErrorIs(t, err, ErrInvalid)
	_, _, err = DateRange("2024-01-01", "2026-01-01", 7, today)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBetweenAndRequired(t *testing.T) {
	assert.NoError(t, Between("weight_kg", 70, 20, 400))
	assert.ErrorIs(t, Between("weight_kg", 10, 20, 400), ErrInvalid)
	assert.NoError(t, Required("title", "hi"))
	assert.ErrorIs(t, Required("title", "  "), ErrInvalid)
}
