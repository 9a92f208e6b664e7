package persistence

import (
	"context"
	"errors"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEntryRepository implements ledger.EntryRepository using GORM.
//
// Balance compensation never reads balances back: every adjustment is a
// relative UPDATE (current_balance = current_balance + delta) so concurrent
// writers to the same account serialize on the row without losing updates.
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

var _ ledger.EntryRepository = (*GormEntryRepository)(nil)

// Create inserts the entry and applies its balance deltas atomically
func (r *GormEntryRepository) Create(ctx context.Context, entry *ledger.Entry, deltas []ledger.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.LedgerEntryModelFromDomain(entry)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return applyDeltas(tx, entry.ProjectID, deltas)
	})
}

// Update persists the entry fields, reverting the old deltas and applying
// the new ones in the same unit of work.
func (r *GormEntryRepository) Update(ctx context.Context, entry *ledger.Entry, revert, apply []ledger.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.LedgerEntryModelFromDomain(entry)
		result := tx.Model(&models.LedgerEntryModel{}).
			Where("project_id = ? AND id = ?", entry.ProjectID, entry.ID).
			Select("*").Omit("id", "project_id", "created_at").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := applyDeltas(tx, entry.ProjectID, revert); err != nil {
			return err
		}
		return applyDeltas(tx, entry.ProjectID, apply)
	})
}

// Deactivate flips the entry inactive and reverts its deltas atomically
func (r *GormEntryRepository) Deactivate(ctx context.Context, entry *ledger.Entry, revert []ledger.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LedgerEntryModel{}).
			Where("project_id = ? AND id = ? AND active = ?", entry.ProjectID, entry.ID, true).
			Updates(map[string]any{
				"active":     false,
				"updated_at": entry.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return applyDeltas(tx, entry.ProjectID, revert)
	})
}

// FindByID finds one entry of the given kind scoped to the project
func (r *GormEntryRepository) FindByID(ctx context.Context, projectID uuid.UUID, kind ledger.EntryKind, id uuid.UUID) (*ledger.Entry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND kind = ? AND id = ?", projectID, string(kind), id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForProject lists entries matching the filter
func (r *GormEntryRepository) FindForProject(ctx context.Context, projectID uuid.UUID, filter ledger.EntryFilter) ([]*ledger.Entry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Where("project_id = ?", projectID)
	query = r.applyFilter(query, filter)

	if err := query.
		Order("COALESCE(actual_date, expected_date) ASC, kind ASC, created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*ledger.Entry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, nil
}

// FindForAccount lists active entries naming the account on any leg
func (r *GormEntryRepository) FindForAccount(ctx context.Context, projectID, accountID uuid.UUID) ([]*ledger.Entry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Where("account_id = ? OR source_account_id = ? OR destination_account_id = ?",
			accountID, accountID, accountID).
		Order("COALESCE(actual_date, expected_date) ASC, kind ASC, created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*ledger.Entry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, nil
}

// applyFilter applies filter conditions to query
func (r *GormEntryRepository) applyFilter(query *gorm.DB, filter ledger.EntryFilter) *gorm.DB {
	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", string(*filter.Kind))
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ? OR source_account_id = ? OR destination_account_id = ?",
			*filter.AccountID, *filter.AccountID, *filter.AccountID)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.From != nil {
		query = query.Where("COALESCE(actual_date, expected_date) >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("COALESCE(actual_date, expected_date) <= ?", *filter.To)
	}
	return query
}

// applyDeltas adjusts account balances relatively inside the transaction.
// A delta naming a missing account means the caller skipped validation.
func applyDeltas(tx *gorm.DB, projectID uuid.UUID, deltas []ledger.BalanceDelta) error {
	for _, d := range deltas {
		if d.Amount.IsZero() {
			continue
		}
		result := tx.Model(&models.AccountModel{}).
			Where("project_id = ? AND id = ?", projectID, d.AccountID).
			UpdateColumn("current_balance", gorm.Expr("current_balance + ?", d.Amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Referenced account does not exist")
		}
	}
	return nil
}
