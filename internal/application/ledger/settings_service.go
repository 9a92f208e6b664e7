package ledger

import (
	"context"
	"time"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SettingsService provides the per-project date-lock operations
type SettingsService struct {
	settings ledger.SettingsRepository
	clock    shared.Clock
}

// SettingsServiceOption is a functional option for configuring the service
type SettingsServiceOption func(*SettingsService)

// WithSettingsClock overrides the wall clock, for tests
func WithSettingsClock(clock shared.Clock) SettingsServiceOption {
	return func(s *SettingsService) {
		s.clock = clock
	}
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settings ledger.SettingsRepository, opts ...SettingsServiceOption) *SettingsService {
	s := &SettingsService{
		settings: settings,
		clock:    shared.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DateLockResponse represents the date-lock state in API responses
type DateLockResponse struct {
	State           string     `json:"state"`
	AllowedPastDays int        `json:"allowed_past_days"`
	WindowMinDate   string     `json:"window_min_date"`
	WindowMaxDate   string     `json:"window_max_date"`
	UnlockExpiresAt *time.Time `json:"unlock_expires_at,omitempty"`
}

// UnlockRequest represents a request to suspend the date lock
type UnlockRequest struct {
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

// UpdateWindowRequest represents a request to resize the editable window
type UpdateWindowRequest struct {
	AllowedPastDays int `json:"allowed_past_days" binding:"min=0"`
}

// GetDateLock returns the project's current lock state
func (s *SettingsService) GetDateLock(ctx context.Context, projectID uuid.UUID) (*DateLockResponse, error) {
	lock, err := s.settings.GetDateLock(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(lock), nil
}

// Unlock suspends the lock until the given instant
func (s *SettingsService) Unlock(ctx context.Context, projectID uuid.UUID, req UnlockRequest) (*DateLockResponse, error) {
	lock, err := s.settings.GetDateLock(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := lock.Unlock(req.ExpiresAt, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.settings.SaveDateLock(ctx, lock); err != nil {
		return nil, err
	}
	return s.toResponse(lock), nil
}

// Relock cancels a pending unlock
func (s *SettingsService) Relock(ctx context.Context, projectID uuid.UUID) (*DateLockResponse, error) {
	lock, err := s.settings.GetDateLock(ctx, projectID)
	if err != nil {
		return nil, err
	}

	lock.Relock(s.clock.Now())
	if err := s.settings.SaveDateLock(ctx, lock); err != nil {
		return nil, err
	}
	return s.toResponse(lock), nil
}

// UpdateWindow resizes the editable window
func (s *SettingsService) UpdateWindow(ctx context.Context, projectID uuid.UUID, req UpdateWindowRequest) (*DateLockResponse, error) {
	if req.AllowedPastDays < 0 {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Allowed past days cannot be negative")
	}

	lock, err := s.settings.GetDateLock(ctx, projectID)
	if err != nil {
		return nil, err
	}

	lock.AllowedPastDays = req.AllowedPastDays
	lock.UpdatedAt = s.clock.Now()
	if err := s.settings.SaveDateLock(ctx, lock); err != nil {
		return nil, err
	}
	return s.toResponse(lock), nil
}

func (s *SettingsService) toResponse(lock *ledger.DateLock) *DateLockResponse {
	now := s.clock.Now()
	min, max := lock.Window(now)

	resp := &DateLockResponse{
		State:           string(lock.Step(now)),
		AllowedPastDays: lock.AllowedPastDays,
		WindowMinDate:   min.Format("2006-01-02"),
		WindowMaxDate:   max.Format("2006-01-02"),
	}
	if lock.Step(now) == ledger.StateUnlocked {
		resp.UnlockExpiresAt = lock.UnlockExpiresAt
	}
	return resp
}
