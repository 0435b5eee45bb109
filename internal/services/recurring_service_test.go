package services

import (
	"testing"
	"time"

	"clarity/internal/models"
	"clarity/internal/testutil"
)

func TestCreateRule(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)

		rule, err := svc.CreateRule(ws.ID, RuleInput{
			Direction:   models.EntryDirectionExpense,
			CategoryID:  cat.ID,
			Description: "Office rent",
			Amount:      testutil.Money(t, "1800"),
			Cadence:     models.CadenceMonthly,
			NextRunDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			AutoPost:    true,
		})
		testutil.AssertNoError(t, err)

		if rule.ID == "" {
			t.Fatal("expected non-empty rule ID")
		}
		if rule.Cadence != models.CadenceMonthly {
			t.Errorf("expected monthly cadence, got %s", rule.Cadence)
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)

		_, err := svc.CreateRule(ws.ID, RuleInput{
			Direction:   models.EntryDirectionExpense,
			CategoryID:  cat.ID,
			Description: "Bad",
			Amount:      testutil.Money(t, "-5"),
			Cadence:     models.CadenceMonthly,
			NextRunDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")
	})

	t.Run("end_before_next_run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)

		end := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.CreateRule(ws.ID, RuleInput{
			Direction:   models.EntryDirectionExpense,
			CategoryID:  cat.ID,
			Description: "Bad range",
			Amount:      testutil.Money(t, "10"),
			Cadence:     models.CadenceMonthly,
			NextRunDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     &end,
		})
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("category_not_in_workspace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws1 := testutil.CreateTestWorkspace(t, db)
		ws2 := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws2.ID, models.CategoryTypeExpense)

		_, err := svc.CreateRule(ws1.ID, RuleInput{
			Direction:   models.EntryDirectionExpense,
			CategoryID:  cat.ID,
			Description: "Not mine",
			Amount:      testutil.Money(t, "10"),
			Cadence:     models.CadenceMonthly,
			NextRunDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGenerate(t *testing.T) {
	t.Run("due_rule_generates_posted_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "1800", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

		count, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)
		if count != 1 {
			t.Fatalf("expected 1 generated entry, got %d", count)
		}

		var entry models.LedgerEntry
		if err := db.Where("period_id = ? AND recurring_rule_id = ?", period.ID, rule.ID).First(&entry).Error; err != nil {
			t.Fatalf("expected generated entry: %v", err)
		}
		if entry.Status != models.EntryStatusPosted {
			t.Errorf("expected posted status, got %s", entry.Status)
		}
		testutil.AssertDecimalEqual(t, "1800", entry.Amount)
		if entry.Direction != models.EntryDirectionExpense {
			t.Errorf("expected expense direction, got %s", entry.Direction)
		}
	})

	t.Run("manual_review_rule_generates_pending_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "100", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
		if err := db.Model(rule).Update("auto_post", false).Error; err != nil {
			t.Fatalf("failed to update rule: %v", err)
		}

		count, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)
		if count != 1 {
			t.Fatalf("expected 1 generated entry, got %d", count)
		}

		var entry models.LedgerEntry
		if err := db.Where("recurring_rule_id = ?", rule.ID).First(&entry).Error; err != nil {
			t.Fatalf("expected generated entry: %v", err)
		}
		if entry.Status != models.EntryStatusPending {
			t.Errorf("expected pending status, got %s", entry.Status)
		}
	})

	t.Run("rerun_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "50", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

		first, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)
		if first != 1 {
			t.Fatalf("expected 1 entry on first run, got %d", first)
		}

		second, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)
		if second != 0 {
			t.Errorf("expected 0 entries on rerun, got %d", second)
		}

		var total int64
		if err := db.Model(&models.LedgerEntry{}).Where("recurring_rule_id = ?", rule.ID).Count(&total).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if total != 1 {
			t.Errorf("expected exactly 1 entry, got %d", total)
		}
	})

	t.Run("future_rule_is_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "50", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		count, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected 0 entries for a future rule, got %d", count)
		}
	})

	t.Run("ended_rule_is_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "50", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		end := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		if err := db.Model(rule).Update("end_date", end).Error; err != nil {
			t.Fatalf("failed to update rule: %v", err)
		}

		count, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected 0 entries for an ended rule, got %d", count)
		}
	})

	t.Run("advances_next_run_with_day_clamping", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2024, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "50", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

		_, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)

		var updated models.RecurringRule
		if err := db.First(&updated, "id = ?", rule.ID).Error; err != nil {
			t.Fatalf("failed to reload rule: %v", err)
		}
		want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
		if !updated.NextRunDate.Equal(want) {
			t.Errorf("expected next run %s, got %s", want, updated.NextRunDate)
		}
	})

	t.Run("one_failing_rule_does_not_abort_batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		nextRun := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		blocked := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "10", nextRun)
		healthy := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "20", nextRun)

		// A pre-existing materialization makes the first rule a no-op.
		preexisting := &models.LedgerEntry{
			WorkspaceID:     ws.ID,
			PeriodID:        period.ID,
			CategoryID:      cat.ID,
			Direction:       models.EntryDirectionExpense,
			Amount:          testutil.Money(t, "10"),
			Status:          models.EntryStatusPosted,
			RecurringRuleID: &blocked.ID,
		}
		if err := db.Create(preexisting).Error; err != nil {
			t.Fatalf("failed to pre-insert entry: %v", err)
		}

		count, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)
		if count != 1 {
			t.Fatalf("expected 1 generated entry, got %d", count)
		}

		var healthyCount int64
		if err := db.Model(&models.LedgerEntry{}).Where("recurring_rule_id = ?", healthy.ID).Count(&healthyCount).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if healthyCount != 1 {
			t.Errorf("expected healthy rule to generate, got %d entries", healthyCount)
		}
	})

	t.Run("records_acting_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "50", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

		userID := "11111111-1111-1111-1111-111111111111"
		_, err := svc.Generate(userID, ws.ID, period.ID)
		testutil.AssertNoError(t, err)

		var entry models.LedgerEntry
		if err := db.Where("recurring_rule_id = ?", rule.ID).First(&entry).Error; err != nil {
			t.Fatalf("expected generated entry: %v", err)
		}
		if entry.CreatedBy == nil || *entry.CreatedBy != userID {
			t.Errorf("expected created_by %s, got %v", userID, entry.CreatedBy)
		}
	})

	t.Run("period_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		_, err := svc.Generate("", ws.ID, "22222222-2222-2222-2222-222222222222")
		testutil.AssertAppError(t, err, "PERIOD_NOT_FOUND")
	})
}

func TestUpdateRule(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "50", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

		desc := "Updated description"
		amount := testutil.Money(t, "75")
		cadence := models.CadenceQuarterly
		updated, err := svc.UpdateRule(ws.ID, rule.ID, RuleUpdate{
			Description: &desc,
			Amount:      &amount,
			Cadence:     &cadence,
		})
		testutil.AssertNoError(t, err)

		if updated.Description != desc {
			t.Errorf("expected description %q, got %q", desc, updated.Description)
		}
		testutil.AssertDecimalEqual(t, "75", updated.Amount)
		if updated.Cadence != models.CadenceQuarterly {
			t.Errorf("expected quarterly cadence, got %s", updated.Cadence)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		desc := "x"
		_, err := svc.UpdateRule(ws.ID, "33333333-3333-3333-3333-333333333333", RuleUpdate{Description: &desc})
		testutil.AssertAppError(t, err, "RULE_NOT_FOUND")
	})
}

func TestDeleteRule(t *testing.T) {
	t.Run("keeps_generated_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		period := testutil.CreateTestPeriod(t, db, ws.ID, 2025, 2)
		cat := testutil.CreateTestCategory(t, db, ws.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, ws.ID, cat.ID, models.EntryDirectionExpense, "50", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

		_, err := svc.Generate("", ws.ID, period.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteRule(ws.ID, rule.ID))

		var entryCount int64
		if err := db.Model(&models.LedgerEntry{}).Where("period_id = ?", period.ID).Count(&entryCount).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if entryCount != 1 {
			t.Errorf("expected generated entry to survive rule deletion, got %d", entryCount)
		}
	})
}
