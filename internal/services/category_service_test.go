package services

import (
	"testing"
	"time"

	"clarity/internal/models"
	"clarity/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		cat, err := svc.CreateCategory(ws.ID, "Travel", models.CategoryTypeExpense, "Operations", 5)
		testutil.AssertNoError(t, err)

		if cat.Name != "Travel" {
			t.Errorf("expected name Travel, got %s", cat.Name)
		}
		if cat.IsSystem {
			t.Error("expected user category, got system")
		}
	})

	t.Run("workspace_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("cccccccc-cccc-cccc-cccc-cccccccccccc", "Travel", models.CategoryTypeExpense, "", 0)
		testutil.AssertAppError(t, err, "WORKSPACE_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("unused_category_deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)

		testutil.AssertNoError(t, svc.DeleteCategory(ws.ID, cat.ID))
	})

	t.Run("category_with_entries_is_protected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 3)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestEntry(t, db, ws.ID, period.ID, cat.ID, models.EntryDirectionExpense, "10")

		testutil.AssertAppError(t, svc.DeleteCategory(ws.ID, cat.ID), "CATEGORY_IN_USE")
	})

	t.Run("category_with_rules_is_protected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "10", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

		testutil.AssertAppError(t, svc.DeleteCategory(ws.ID, cat.ID), "CATEGORY_IN_USE")
	})
}

func TestGetWorkspaceCategories(t *testing.T) {
	t.Run("orders_by_type_then_sort_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		_, err := svc.CreateCategory(ws.ID, "Zed", models.CategoryTypeIncome, "", 1)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(ws.ID, "Alpha", models.CategoryTypeExpense, "", 0)
		testutil.AssertNoError(t, err)

		categories, err := svc.GetWorkspaceCategories(ws.ID)
		testutil.AssertNoError(t, err)
		if len(categories) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(categories))
		}
		if categories[0].Type != models.CategoryTypeExpense {
			t.Errorf("expected expense first, got %s", categories[0].Type)
		}
	})
}
