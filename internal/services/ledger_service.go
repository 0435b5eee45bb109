package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
	"clarity/internal/pagination"
)

// ledgerService handles ledger entry business logic.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// buildEntry validates an EntryInput against the workspace and constructs
// the model, attributing it to the acting user when one is present.
func (s *ledgerService) buildEntry(tx *gorm.DB, userID, workspaceID string, input EntryInput) (*models.LedgerEntry, error) {
	if input.Amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	var period models.Period
	if err := tx.Where("id = ? AND workspace_id = ?", input.PeriodID, workspaceID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var category models.Category
	if err := tx.Where("id = ? AND workspace_id = ?", input.CategoryID, workspaceID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.LedgerEntry{
		WorkspaceID: workspaceID,
		PeriodID:    input.PeriodID,
		CategoryID:  input.CategoryID,
		Direction:   input.Direction,
		Amount:      input.Amount,
		Description: input.Description,
		Notes:       input.Notes,
		Status:      models.EntryStatusPosted,
		EntryDate:   input.EntryDate,
	}
	if userID != "" {
		entry.CreatedBy = &userID
	}
	return entry, nil
}

// CreateEntry creates a single ledger entry.
func (s *ledgerService) CreateEntry(userID, workspaceID string, input EntryInput) (*models.LedgerEntry, error) {
	entry, err := s.buildEntry(s.db, userID, workspaceID, input)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// BulkCreateEntries creates a batch of entries in one transaction; any
// invalid input aborts the whole batch. Returns the number created.
func (s *ledgerService) BulkCreateEntries(userID, workspaceID string, inputs []EntryInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		entries := make([]*models.LedgerEntry, 0, len(inputs))
		for _, input := range inputs {
			entry, err := s.buildEntry(tx, userID, workspaceID, input)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return 0, appErr
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(inputs), nil
}

// GetPeriodEntries returns a paginated list of a period's entries in
// creation order.
func (s *ledgerService) GetPeriodEntries(workspaceID, periodID string, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEntry], error) {
	page.Defaults()

	var period models.Period
	if err := s.db.Where("id = ? AND workspace_id = ?", periodID, workspaceID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	base := s.db.Model(&models.LedgerEntry{}).Where("period_id = ?", periodID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.LedgerEntry
	if err := base.Preload("Category").
		Order("created_at ASC").
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// getEntry returns an entry by ID if it belongs to the workspace.
func (s *ledgerService) getEntry(workspaceID, entryID string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := s.db.Where("id = ? AND workspace_id = ?", entryID, workspaceID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateEntry applies user edits to an entry. Only description, amount,
// category, notes, and entry date are editable; direction, period, and
// recurring attribution are immutable once created.
func (s *ledgerService) UpdateEntry(workspaceID, entryID string, update EntryUpdate) (*models.LedgerEntry, error) {
	entry, err := s.getEntry(workspaceID, entryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return nil, apperrors.ErrNegativeAmount
		}
		updates["amount"] = *update.Amount
	}
	if update.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND workspace_id = ?", *update.CategoryID, workspaceID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.EntryDate != nil {
		updates["entry_date"] = *update.EntryDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.getEntry(workspaceID, entryID)
}

// PostEntry finalizes a pending entry so it participates in aggregations.
func (s *ledgerService) PostEntry(workspaceID, entryID string) (*models.LedgerEntry, error) {
	entry, err := s.getEntry(workspaceID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == models.EntryStatusPosted {
		return entry, nil
	}
	if err := s.db.Model(entry).Update("status", models.EntryStatusPosted).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// DeleteEntry deletes an entry.
func (s *ledgerService) DeleteEntry(workspaceID, entryID string) error {
	entry, err := s.getEntry(workspaceID, entryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
