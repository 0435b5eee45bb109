package services

import (
	"testing"

	"clarity/internal/models"
	"clarity/internal/testutil"
)

func TestUpsertBudget(t *testing.T) {
	t.Run("insert_then_update_single_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)

		first, err := svc.UpsertBudget(ws.ID, period.ID, cat.ID, testutil.Money(t, "500"), false)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "500", first.Amount)

		second, err := svc.UpsertBudget(ws.ID, period.ID, cat.ID, testutil.Money(t, "750"), true)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "750", second.Amount)
		if !second.Rollover {
			t.Error("expected rollover to be set")
		}
		if second.ID != first.ID {
			t.Errorf("expected the same budget row to be updated, got %s then %s", first.ID, second.ID)
		}

		var count int64
		if err := db.Model(&models.Budget{}).Where("period_id = ?", period.ID).Count(&count).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected exactly 1 budget row, got %d", count)
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)

		_, err := svc.UpsertBudget(ws.ID, period.ID, cat.ID, testutil.Money(t, "-1"), false)
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")
	})

	t.Run("period_not_in_workspace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws1 := testutil.CreateTestWorkspace(t, db)
		ws2 := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws2.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws1.ID, models.CategoryTypeExpense)

		_, err := svc.UpsertBudget(ws1.ID, period.ID, cat.ID, testutil.Money(t, "100"), false)
		testutil.AssertAppError(t, err, "PERIOD_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, ws.ID, period.ID, cat.ID, "500")

		testutil.AssertNoError(t, svc.DeleteBudget(ws.ID, budget.ID))

		var count int64
		if err := db.Model(&models.Budget{}).Count(&count).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0 budgets after delete, got %d", count)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		err := svc.DeleteBudget(ws.ID, "44444444-4444-4444-4444-444444444444")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestReconcile(t *testing.T) {
	t.Run("computes_actual_and_percent_used", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, ws.ID, period.ID, cat.ID, "500")

		inWindow := period.StartDate.AddDate(0, 0, 10)
		for _, amount := range []string{"200", "175"} {
			entry := testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionExpense, amount)
			if err := db.Model(entry).Update("entry_date", inWindow).Error; err != nil {
				t.Fatalf("failed to set entry date: %v", err)
			}
		}

		results, err := svc.Reconcile(ws.ID, period.ID, period.StartDate, period.EndDate)
		testutil.AssertNoError(t, err)
		if len(results) != 1 {
			t.Fatalf("expected 1 reconciliation row, got %d", len(results))
		}

		testutil.AssertDecimalEqual(t, "375", results[0].Actual)
		testutil.AssertDecimalEqual(t, "125", results[0].Remaining)
		if results[0].PercentUsed != 75 {
			t.Errorf("expected 75 percent used, got %d", results[0].PercentUsed)
		}
	})

	t.Run("zero_budget_amount_guards_division", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, ws.ID, period.ID, cat.ID, "0")
		entry := testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionExpense, "50")
		if err := db.Model(entry).Update("entry_date", period.StartDate.AddDate(0, 0, 5)).Error; err != nil {
			t.Fatalf("failed to set entry date: %v", err)
		}

		results, err := svc.Reconcile(ws.ID, period.ID, period.StartDate, period.EndDate)
		testutil.AssertNoError(t, err)
		if len(results) != 1 {
			t.Fatalf("expected 1 reconciliation row, got %d", len(results))
		}
		if results[0].PercentUsed != 0 {
			t.Errorf("expected 0 percent used for a zero budget, got %d", results[0].PercentUsed)
		}
	})

	t.Run("budget_without_activity_still_appears", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, ws.ID, period.ID, cat.ID, "300")

		results, err := svc.Reconcile(ws.ID, period.ID, period.StartDate, period.EndDate)
		testutil.AssertNoError(t, err)
		if len(results) != 1 {
			t.Fatalf("expected 1 reconciliation row, got %d", len(results))
		}
		testutil.AssertDecimalEqual(t, "0", results[0].Actual)
		testutil.AssertDecimalEqual(t, "300", results[0].Remaining)
	})

	t.Run("pending_entries_are_excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, ws.ID, period.ID, cat.ID, "500")

		entry := testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionExpense, "100")
		updates := map[string]interface{}{
			"status":     models.EntryStatusPending,
			"entry_date": period.StartDate.AddDate(0, 0, 5),
		}
		if err := db.Model(entry).Updates(updates).Error; err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}

		results, err := svc.Reconcile(ws.ID, period.ID, period.StartDate, period.EndDate)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "0", results[0].Actual)
	})

	t.Run("entry_date_outside_window_is_excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, ws.ID, period.ID, cat.ID, "500")

		entry := testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionExpense, "100")
		outside := period.StartDate.AddDate(0, -1, 0)
		if err := db.Model(entry).Update("entry_date", outside).Error; err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}

		results, err := svc.Reconcile(ws.ID, period.ID, period.StartDate, period.EndDate)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "0", results[0].Actual)
	})
}
