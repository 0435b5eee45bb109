package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clarity/internal/calendar"
	apperrors "clarity/internal/errors"
	"clarity/internal/models"
)

// periodService handles the fiscal calendar and period overrides.
type periodService struct {
	db *gorm.DB
}

// NewPeriodService creates a new PeriodServicer.
func NewPeriodService(db *gorm.DB) PeriodServicer {
	return &periodService{db: db}
}

// buildPeriods constructs the 12 calendar-month periods of a year.
func buildPeriods(workspaceID string, year int) []models.Period {
	periods := make([]models.Period, 0, 12)
	for m := 1; m <= 12; m++ {
		start, end := calendar.MonthBounds(year, m)
		periods = append(periods, models.Period{
			WorkspaceID: workspaceID,
			Year:        year,
			Month:       m,
			StartDate:   start,
			EndDate:     end,
			Label:       calendar.MonthLabel(m),
		})
	}
	return periods
}

// InitializeYear creates the 12 periods for a workspace-year. It is
// idempotent: when any period for the year already exists the call is a
// no-op, and a concurrent initialization losing the insert race is treated
// the same way.
func (s *periodService) InitializeYear(workspaceID string, year int) error {
	if year < 1970 || year > 2999 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Year is out of range")
	}

	var workspace models.Workspace
	if err := s.db.First(&workspace, "id = ?", workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrWorkspaceNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.Period{}).
		Where("workspace_id = ? AND year = ?", workspaceID, year).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	periods := buildPeriods(workspaceID, year)
	if err := s.db.Create(&periods).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetPeriodsForYear returns the periods of a workspace-year in month order.
func (s *periodService) GetPeriodsForYear(workspaceID string, year int) ([]models.Period, error) {
	var periods []models.Period
	if err := s.db.
		Where("workspace_id = ? AND year = ?", workspaceID, year).
		Order("month ASC").
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// GetPeriodByID returns a period by ID if it belongs to the workspace.
func (s *periodService) GetPeriodByID(workspaceID, periodID string) (*models.Period, error) {
	var period models.Period
	if err := s.db.Where("id = ? AND workspace_id = ?", periodID, workspaceID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// GetPeriodForMonth returns the period covering the given year and month.
func (s *periodService) GetPeriodForMonth(workspaceID string, year, month int) (*models.Period, error) {
	var period models.Period
	if err := s.db.
		Where("workspace_id = ? AND year = ? AND month = ?", workspaceID, year, month).
		First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// UpsertOverride creates or updates the manual corrections for a period.
// At most one override row exists per period; the update path and insert
// path are explicit branches rather than a blind upsert.
func (s *periodService) UpsertOverride(periodID string, input PeriodOverrideInput) (*models.PeriodOverride, error) {
	var period models.Period
	if err := s.db.First(&period, "id = ?", periodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existing models.PeriodOverride
	err := s.db.Where("period_id = ?", periodID).First(&existing).Error
	switch {
	case err == nil:
		updates := make(map[string]interface{})
		if input.ClearOpening {
			updates["opening_balance_override"] = nil
		} else if input.OpeningBalanceOverride != nil {
			updates["opening_balance_override"] = *input.OpeningBalanceOverride
		}
		if input.ClearClosing {
			updates["closing_balance_override"] = nil
		} else if input.ClosingBalanceOverride != nil {
			updates["closing_balance_override"] = *input.ClosingBalanceOverride
		}
		if input.DividendsReleased != nil {
			updates["dividends_released"] = *input.DividendsReleased
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(updates) > 0 {
			if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := s.db.First(&existing, "id = ?", existing.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		override := &models.PeriodOverride{
			PeriodID:          periodID,
			DividendsReleased: decimal.Zero,
		}
		if !input.ClearOpening {
			override.OpeningBalanceOverride = input.OpeningBalanceOverride
		}
		if !input.ClearClosing {
			override.ClosingBalanceOverride = input.ClosingBalanceOverride
		}
		if input.DividendsReleased != nil {
			override.DividendsReleased = *input.DividendsReleased
		}
		if input.Notes != nil {
			override.Notes = *input.Notes
		}
		if err := s.db.Create(override).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Wrap(apperrors.ErrConflict, err)
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return override, nil

	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// GetOverride returns the override for a period, or nil when none exists.
// Absence is meaningful: it means "derive purely from the ledger".
func (s *periodService) GetOverride(periodID string) (*models.PeriodOverride, error) {
	var override models.PeriodOverride
	if err := s.db.Where("period_id = ?", periodID).First(&override).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &override, nil
}
