package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
)

// budgetService handles budget planning and the budget-versus-actual
// reconciliation.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// UpsertBudget sets the planned amount for a (period, category) pair. At
// most one budget row exists per pair; the update path and insert path are
// explicit branches, with the unique index backstopping the insert race.
func (s *budgetService) UpsertBudget(workspaceID, periodID, categoryID string, amount decimal.Decimal, rollover bool) (*models.Budget, error) {
	if amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	var period models.Period
	if err := s.db.Where("id = ? AND workspace_id = ?", periodID, workspaceID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var category models.Category
	if err := s.db.Where("id = ? AND workspace_id = ?", categoryID, workspaceID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existing models.Budget
	err := s.db.
		Where("workspace_id = ? AND period_id = ? AND category_id = ?", workspaceID, periodID, categoryID).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"amount":   amount,
			"rollover": rollover,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.First(&existing, "id = ?", existing.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		budget := &models.Budget{
			WorkspaceID: workspaceID,
			PeriodID:    periodID,
			CategoryID:  categoryID,
			Amount:      amount,
			Rollover:    rollover,
		}
		if err := s.db.Create(budget).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Wrap(apperrors.ErrConflict, err)
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return budget, nil

	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// GetPeriodBudgets returns a period's budgets in creation order.
func (s *budgetService) GetPeriodBudgets(workspaceID, periodID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("workspace_id = ? AND period_id = ?", workspaceID, periodID).
		Order("created_at ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// DeleteBudget deletes a budget line.
func (s *budgetService) DeleteBudget(workspaceID, budgetID string) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND workspace_id = ?", budgetID, workspaceID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Reconcile joins each budget of the period against the posted activity of
// its category within [periodStart, periodEnd]. Entries without an explicit
// entry date fall back to their creation time. A budget with no activity
// still appears, with a zero actual.
func (s *budgetService) Reconcile(workspaceID, periodID string, periodStart, periodEnd time.Time) ([]BudgetActual, error) {
	budgets, err := s.GetPeriodBudgets(workspaceID, periodID)
	if err != nil {
		return nil, err
	}

	var entries []models.LedgerEntry
	if err := s.db.
		Where("workspace_id = ? AND status = ?", workspaceID, models.EntryStatusPosted).
		Where("COALESCE(entry_date, created_at) >= ? AND COALESCE(entry_date, created_at) < ?",
			periodStart, periodEnd.AddDate(0, 0, 1)).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	actualByCategory := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		actualByCategory[entry.CategoryID] = actualByCategory[entry.CategoryID].Add(entry.Amount)
	}

	results := make([]BudgetActual, 0, len(budgets))
	for _, budget := range budgets {
		actual := actualByCategory[budget.CategoryID]
		var percentUsed int64
		if !budget.Amount.IsZero() {
			percentUsed = actual.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
		results = append(results, BudgetActual{
			Budget:      budget,
			Actual:      actual,
			Remaining:   budget.Amount.Sub(actual),
			PercentUsed: percentUsed,
		})
	}
	return results, nil
}
