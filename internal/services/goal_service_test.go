package services

import (
	"testing"
	"time"

	"clarity/internal/models"
	"clarity/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		goal, err := svc.CreateGoal(ws.ID, "Emergency Fund", testutil.Money(t, "10000"), nil, nil)
		testutil.AssertNoError(t, err)

		if goal.ID == "" {
			t.Fatal("expected non-empty goal ID")
		}
		testutil.AssertDecimalEqual(t, "0", goal.CurrentAmount)
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		_, err := svc.CreateGoal(ws.ID, "", testutil.Money(t, "10000"), nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("linked_category_must_exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		bogus := "55555555-5555-5555-5555-555555555555"
		_, err := svc.CreateGoal(ws.ID, "Linked", testutil.Money(t, "10000"), nil, &bogus)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestSyncGoal(t *testing.T) {
	t.Run("empty_history_resyncs_to_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeIncome)
		goal := testutil.CreateTestGoal(t, db, ws.ID, &cat.ID)

		// A drifted cache must be corrected even with no ledger activity.
		if err := db.Model(goal).Update("current_amount", testutil.Money(t, "999")).Error; err != nil {
			t.Fatalf("failed to drift cache: %v", err)
		}

		synced, err := svc.SyncGoal(ws.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "0", synced.CurrentAmount)
	})

	t.Run("sums_posted_entries_regardless_of_direction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeIncome)
		goal := testutil.CreateTestGoal(t, db, ws.ID, &cat.ID)

		testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionIncome, "300")
		testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionExpense, "200")

		synced, err := svc.SyncGoal(ws.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "500", synced.CurrentAmount)
	})

	t.Run("pending_entries_do_not_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeIncome)
		goal := testutil.CreateTestGoal(t, db, ws.ID, &cat.ID)

		entry := testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionIncome, "300")
		if err := db.Model(entry).Update("status", models.EntryStatusPending).Error; err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}

		synced, err := svc.SyncGoal(ws.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "0", synced.CurrentAmount)
	})

	t.Run("unlinked_goal_is_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		goal := testutil.CreateTestGoal(t, db, ws.ID, nil)
		if err := db.Model(goal).Update("current_amount", testutil.Money(t, "250")).Error; err != nil {
			t.Fatalf("failed to set amount: %v", err)
		}

		synced, err := svc.SyncGoal(ws.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "250", synced.CurrentAmount)
	})
}

func TestSyncGoals(t *testing.T) {
	t.Run("sweeps_all_workspace_goals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat1 := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeIncome)
		cat2 := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeIncome)
		goal1 := testutil.CreateTestGoal(t, db, ws.ID, &cat1.ID)
		goal2 := testutil.CreateTestGoal(t, db, ws.ID, &cat2.ID)

		testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat1.ID, models.EntryDirectionIncome, "100")
		testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat2.ID, models.EntryDirectionIncome, "400")

		testutil.AssertNoError(t, svc.SyncGoals(ws.ID))

		var g1, g2 models.Goal
		if err := db.First(&g1, "id = ?", goal1.ID).Error; err != nil {
			t.Fatalf("failed to reload goal: %v", err)
		}
		if err := db.First(&g2, "id = ?", goal2.ID).Error; err != nil {
			t.Fatalf("failed to reload goal: %v", err)
		}
		testutil.AssertDecimalEqual(t, "100", g1.CurrentAmount)
		testutil.AssertDecimalEqual(t, "400", g2.CurrentAmount)
	})
}

func TestUpdateGoal(t *testing.T) {
	t.Run("unlink_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeIncome)
		goal := testutil.CreateTestGoal(t, db, ws.ID, &cat.ID)

		updated, err := svc.UpdateGoal(ws.ID, goal.ID, GoalUpdate{UnlinkCategory: true})
		testutil.AssertNoError(t, err)
		if updated.LinkedCategoryID != nil {
			t.Errorf("expected nil linked category, got %v", *updated.LinkedCategoryID)
		}
	})

	t.Run("updates_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		goal := testutil.CreateTestGoal(t, db, ws.ID, nil)

		target := testutil.Money(t, "25000")
		targetDate := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
		updated, err := svc.UpdateGoal(ws.ID, goal.ID, GoalUpdate{
			TargetAmount: &target,
			TargetDate:   &targetDate,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "25000", updated.TargetAmount)
		if updated.TargetDate == nil {
			t.Fatal("expected target date to be set")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		name := "x"
		_, err := svc.UpdateGoal(ws.ID, "66666666-6666-6666-6666-666666666666", GoalUpdate{Name: &name})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}
