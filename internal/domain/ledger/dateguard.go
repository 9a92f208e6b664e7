package ledger

import (
	"fmt"
	"time"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LockState is the DateLock state machine state
type LockState string

const (
	// StateLocked restricts actual settlement dates to the sliding window
	// [today - AllowedPastDays, today].
	StateLocked LockState = "LOCKED"
	// StateUnlocked suspends the window until UnlockExpiresAt passes.
	StateUnlocked LockState = "UNLOCKED"
)

// DefaultAllowedPastDays is the window applied when a project has no
// stored lock record.
const DefaultAllowedPastDays = 7

// DateLock is the per-project editable-window record. The state is never
// stored: it is derived from UnlockExpiresAt on every call via Step, so a
// lapsed unlock flips back to LOCKED without any timer.
type DateLock struct {
	ProjectID       uuid.UUID
	AllowedPastDays int
	UnlockExpiresAt *time.Time
	UpdatedAt       time.Time
}

// NewDateLock returns the default lock record for a project
func NewDateLock(projectID uuid.UUID) *DateLock {
	return &DateLock{
		ProjectID:       projectID,
		AllowedPastDays: DefaultAllowedPastDays,
	}
}

// Step is the pure transition function: it returns the state the lock is
// in at the given instant.
func (l *DateLock) Step(now time.Time) LockState {
	if l.UnlockExpiresAt != nil && now.Before(*l.UnlockExpiresAt) {
		return StateUnlocked
	}
	return StateLocked
}

// Unlock suspends the window until the given instant
func (l *DateLock) Unlock(until time.Time, now time.Time) error {
	if !until.After(now) {
		return shared.NewDomainError("INVALID_UNLOCK", "Unlock expiry must be in the future")
	}
	l.UnlockExpiresAt = &until
	l.UpdatedAt = now
	return nil
}

// Relock cancels a pending unlock
func (l *DateLock) Relock(now time.Time) {
	l.UnlockExpiresAt = nil
	l.UpdatedAt = now
}

// Window returns the inclusive [min, max] date range accepted while LOCKED,
// at day granularity.
func (l *DateLock) Window(now time.Time) (min, max time.Time) {
	today := truncateToDay(now)
	return today.AddDate(0, 0, -l.AllowedPastDays), today
}

// Validate checks an actual settlement date against the lock. While
// UNLOCKED any date passes; while LOCKED the date must fall inside the
// sliding window. Violations carry the window bounds for the caller.
func (l *DateLock) Validate(date time.Time, now time.Time) error {
	if l.Step(now) == StateUnlocked {
		return nil
	}
	min, max := l.Window(now)
	day := truncateToDay(date)
	if day.Before(min) || day.After(max) {
		return &WindowViolation{Date: day, MinDate: min, MaxDate: max}
	}
	return nil
}

// WindowViolation reports a settlement date outside the editable window
type WindowViolation struct {
	Date    time.Time
	MinDate time.Time
	MaxDate time.Time
}

// Error implements the error interface
func (v *WindowViolation) Error() string {
	return fmt.Sprintf("date %s is outside the editable window [%s, %s]",
		v.Date.Format("2006-01-02"), v.MinDate.Format("2006-01-02"), v.MaxDate.Format("2006-01-02"))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
