package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"clarity/internal/calendar"
	"clarity/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money parses a decimal amount literal, failing the test on bad input.
func Money(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestWorkspace creates a business workspace with a calendar fiscal year.
func CreateTestWorkspace(t *testing.T, db *gorm.DB) *models.Workspace {
	t.Helper()

	workspace := &models.Workspace{
		Name:                 fmt.Sprintf("Test Workspace %d", nextID()),
		Mode:                 models.WorkspaceModeBusiness,
		DefaultCurrency:      "USD",
		FiscalYearStartMonth: 1,
	}
	if err := db.Create(workspace).Error; err != nil {
		t.Fatalf("failed to create test workspace: %v", err)
	}
	return workspace
}

// CreateTestPeriod creates the period for the given year and month.
func CreateTestPeriod(t *testing.T, db *gorm.DB, workspaceID string, year, month int) *models.Period {
	t.Helper()

	start, end := calendar.MonthBounds(year, month)
	period := &models.Period{
		WorkspaceID: workspaceID,
		Year:        year,
		Month:       month,
		StartDate:   start,
		EndDate:     end,
		Label:       calendar.MonthLabel(month),
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return period
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, workspaceID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		WorkspaceID: workspaceID,
		Name:        fmt.Sprintf("Test Category %d", nextID()),
		Type:        categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestEntry creates a posted ledger entry with the given amount.
func CreateTestEntry(t *testing.T, db *gorm.DB, workspaceID, periodID, categoryID string, direction models.EntryDirection, amount string) *models.LedgerEntry {
	t.Helper()

	entry := &models.LedgerEntry{
		WorkspaceID: workspaceID,
		PeriodID:    periodID,
		CategoryID:  categoryID,
		Direction:   direction,
		Amount:      Money(t, amount),
		Description: fmt.Sprintf("Test Entry %d", nextID()),
		Status:      models.EntryStatusPosted,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}

// CreateTestBudget creates a budget line for the given period and category.
func CreateTestBudget(t *testing.T, db *gorm.DB, workspaceID, periodID, categoryID string, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		WorkspaceID: workspaceID,
		PeriodID:    periodID,
		CategoryID:  categoryID,
		Amount:      Money(t, amount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a goal, optionally linked to a category.
func CreateTestGoal(t *testing.T, db *gorm.DB, workspaceID string, linkedCategoryID *string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		WorkspaceID:      workspaceID,
		Name:             fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:     Money(t, "10000"),
		CurrentAmount:    decimal.Zero,
		LinkedCategoryID: linkedCategoryID,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestRule creates an auto-posting monthly rule due on nextRun.
func CreateTestRule(t *testing.T, db *gorm.DB, workspaceID, categoryID string, direction models.EntryDirection, amount string, nextRun time.Time) *models.RecurringRule {
	t.Helper()

	rule := &models.RecurringRule{
		WorkspaceID: workspaceID,
		Direction:   direction,
		CategoryID:  categoryID,
		Description: fmt.Sprintf("Test Rule %d", nextID()),
		Amount:      Money(t, amount),
		Cadence:     models.CadenceMonthly,
		NextRunDate: nextRun,
		AutoPost:    true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}
