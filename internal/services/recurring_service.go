package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"clarity/internal/calendar"
	apperrors "clarity/internal/errors"
	"clarity/internal/logger"
	"clarity/internal/models"
)

// recurringService advances cadence-based rules into concrete ledger
// entries and manages the rules themselves.
type recurringService struct {
	db *gorm.DB
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB) RecurringServicer {
	return &recurringService{db: db}
}

// CreateRule creates a new recurring rule.
func (s *recurringService) CreateRule(workspaceID string, input RuleInput) (*models.RecurringRule, error) {
	if input.Amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}
	if input.EndDate != nil && input.EndDate.Before(input.NextRunDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	var category models.Category
	if err := s.db.Where("id = ? AND workspace_id = ?", input.CategoryID, workspaceID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rule := &models.RecurringRule{
		WorkspaceID: workspaceID,
		Direction:   input.Direction,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Amount:      input.Amount,
		Cadence:     input.Cadence,
		NextRunDate: input.NextRunDate,
		EndDate:     input.EndDate,
		AutoPost:    input.AutoPost,
	}
	if err := s.db.Create(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rule, nil
}

// GetWorkspaceRules returns all recurring rules of a workspace in creation order.
func (s *recurringService) GetWorkspaceRules(workspaceID string) ([]models.RecurringRule, error) {
	var rules []models.RecurringRule
	if err := s.db.Preload("Category").
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

// GetRuleByID returns a rule by ID if it belongs to the workspace.
func (s *recurringService) GetRuleByID(workspaceID, ruleID string) (*models.RecurringRule, error) {
	var rule models.RecurringRule
	if err := s.db.Where("id = ? AND workspace_id = ?", ruleID, workspaceID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRuleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

// UpdateRule applies user edits to a rule.
func (s *recurringService) UpdateRule(workspaceID, ruleID string, update RuleUpdate) (*models.RecurringRule, error) {
	rule, err := s.GetRuleByID(workspaceID, ruleID)
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
	if update.Cadence != nil {
		updates["cadence"] = *update.Cadence
	}
	if update.NextRunDate != nil {
		updates["next_run_date"] = *update.NextRunDate
	}
	if update.EndDate != nil {
		updates["end_date"] = *update.EndDate
	}
	if update.AutoPost != nil {
		updates["auto_post"] = *update.AutoPost
	}

	if len(updates) > 0 {
		if err := s.db.Model(rule).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetRuleByID(workspaceID, ruleID)
}

// DeleteRule deletes a rule. Entries already generated from it keep their
// history; the back-reference is cleared by the schema.
func (s *recurringService) DeleteRule(workspaceID, ruleID string) error {
	rule, err := s.GetRuleByID(workspaceID, ruleID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(rule).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// advanceCadence returns the next run date after one materialization,
// clamping the day-of-month so monthly runs never drift across month ends.
func advanceCadence(nextRun time.Time, cadence models.CadenceType) time.Time {
	switch cadence {
	case models.CadenceQuarterly:
		return calendar.AddMonths(nextRun, 3)
	case models.CadenceYearly:
		return calendar.AddYears(nextRun, 1)
	default:
		return calendar.AddMonths(nextRun, 1)
	}
}

// Generate materializes every due rule of the workspace into a ledger
// entry for the target period and returns how many entries were created.
//
// The operation is idempotent per (period, rule): the existence check is a
// fast path, and the unique index on (period_id, recurring_rule_id) is the
// authoritative guard, so a concurrent invocation losing the insert race
// degrades to a no-op for that rule. A failure on one rule never aborts
// the rest of the batch.
func (s *recurringService) Generate(userID, workspaceID, periodID string) (int, error) {
	var period models.Period
	if err := s.db.Where("id = ? AND workspace_id = ?", periodID, workspaceID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrPeriodNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Cadence applicability is evaluated per rule, so no period filter here.
	var rules []models.RecurringRule
	if err := s.db.Where("workspace_id = ?", workspaceID).Order("created_at ASC").Find(&rules).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log := logger.Get()
	generated := 0

	for i := range rules {
		rule := &rules[i]

		if rule.NextRunDate.After(period.StartDate) {
			continue
		}
		if rule.EndDate != nil && rule.EndDate.Before(period.StartDate) {
			continue
		}

		var count int64
		if err := s.db.Model(&models.LedgerEntry{}).
			Where("period_id = ? AND recurring_rule_id = ?", period.ID, rule.ID).
			Count(&count).Error; err != nil {
			log.Warnw("recurring: duplicate check failed, skipping rule",
				"rule_id", rule.ID, "period_id", period.ID, "error", err)
			continue
		}
		if count > 0 {
			continue
		}

		status := models.EntryStatusPosted
		if !rule.AutoPost {
			status = models.EntryStatusPending
		}

		entry := &models.LedgerEntry{
			WorkspaceID:     workspaceID,
			PeriodID:        period.ID,
			CategoryID:      rule.CategoryID,
			Direction:       rule.Direction,
			Amount:          rule.Amount,
			Description:     rule.Description,
			Status:          status,
			RecurringRuleID: &rule.ID,
		}
		if userID != "" {
			entry.CreatedBy = &userID
		}

		if err := s.db.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent invocation won the insert; already materialized.
				continue
			}
			log.Warnw("recurring: entry insert failed, skipping rule",
				"rule_id", rule.ID, "period_id", period.ID, "error", err)
			continue
		}
		generated++

		next := advanceCadence(rule.NextRunDate, rule.Cadence)
		if err := s.db.Model(rule).Update("next_run_date", next).Error; err != nil {
			log.Warnw("recurring: failed to advance next run date",
				"rule_id", rule.ID, "error", err)
		}
	}

	return generated, nil
}
