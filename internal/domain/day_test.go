package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "date 2024-12-12",
			date:     time.Date(2024, 12, 12, 10, 0, 0, 0, time.UTC),
			expected: "2024-12-12",
		},
		{
			name:     "date 2024-01-01",
			date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: "2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateKey(tt.date))
		})
	}
}

func TestDisplayDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{name: "today", date: now.Add(-3 * time.Hour), expected: "Today"},
		{name: "tomorrow", date: now.AddDate(0, 0, 1), expected: "Tomorrow"},
		{name: "yesterday", date: now.AddDate(0, 0, -1), expected: "Yesterday"},
		{name: "specific date", date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), expected: "10 Jun 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayDate(tt.date, now))
		})
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	fallback := time.Date(2024, 6, 16, 0, 0, 0, 0, loc)

	d, err := ParseDate("2024-07-30", loc, fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 30, 0, 0, 0, 0, loc), d)

	d, err = ParseDate("  ", loc, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, d)

	_, err = ParseDate("30/07/2024", loc, fallback)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2024, 6, 15, 23, 59, 1, 5, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.True(t, SameDay(ts, StartOfDay(ts)))
	assert.False(t, SameDay(ts, ts.Add(time.Minute)))
}
