package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateLock_Step(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	lock := NewDateLock(uuid.New())

	assert.Equal(t, StateLocked, lock.Step(now))

	until := now.Add(2 * time.Hour)
	require.NoError(t, lock.Unlock(until, now))
	assert.Equal(t, StateUnlocked, lock.Step(now))
	assert.Equal(t, StateUnlocked, lock.Step(now.Add(time.Hour)))

	// Lapsed unlocks flip back without any write.
	assert.Equal(t, StateLocked, lock.Step(until))
	assert.Equal(t, StateLocked, lock.Step(until.Add(time.Minute)))
}

func TestDateLock_UnlockRequiresFutureExpiry(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	lock := NewDateLock(uuid.New())

	err := lock.Unlock(now, now)
	require.Error(t, err)
	err = lock.Unlock(now.Add(-time.Hour), now)
	require.Error(t, err)

	require.NoError(t, lock.Unlock(now.Add(time.Minute), now))
}

func TestDateLock_Relock(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	lock := NewDateLock(uuid.New())

	require.NoError(t, lock.Unlock(now.Add(time.Hour), now))
	lock.Relock(now.Add(time.Minute))
	assert.Equal(t, StateLocked, lock.Step(now.Add(2*time.Minute)))
	assert.Nil(t, lock.UnlockExpiresAt)
}

func TestDateLock_Validate(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		days      int
		date      time.Time
		wantError bool
	}{
		{
			name: "today passes",
			days: 7,
			date: time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC),
		},
		{
			name: "window lower bound passes",
			days: 7,
			date: time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "one day before the window fails",
			days:      7,
			date:      time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
			wantError: true,
		},
		{
			name:      "future dates fail",
			days:      7,
			date:      time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC),
			wantError: true,
		},
		{
			name: "zero-day window accepts only today",
			days: 0,
			date: time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name:      "zero-day window rejects yesterday",
			days:      0,
			date:      time.Date(2026, 6, 14, 8, 0, 0, 0, time.UTC),
			wantError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lock := NewDateLock(uuid.New())
			lock.AllowedPastDays = tc.days

			err := lock.Validate(tc.date, now)
			if tc.wantError {
				require.Error(t, err)
				var violation *WindowViolation
				require.True(t, errors.As(err, &violation))
				assert.False(t, violation.MinDate.After(violation.MaxDate))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDateLock_ValidatePassesWhileUnlocked(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	lock := NewDateLock(uuid.New())
	require.NoError(t, lock.Unlock(now.Add(time.Hour), now))

	// Far outside the window, but the lock is suspended.
	require.NoError(t, lock.Validate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), now))

	// After expiry the same date is rejected again.
	later := now.Add(2 * time.Hour)
	require.Error(t, lock.Validate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), later))
}

func TestDateLock_Window(t *testing.T) {
	now := time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)
	lock := NewDateLock(uuid.New())

	min, max := lock.Window(now)
	assert.Equal(t, time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC), min)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), max)
}
