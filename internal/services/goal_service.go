package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
)

// goalService handles goals and their progress resynchronization.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new goal, optionally linked to a category whose
// posted activity drives the goal's progress.
func (s *goalService) CreateGoal(workspaceID, name string, targetAmount decimal.Decimal, targetDate *time.Time, linkedCategoryID *string) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal name is required")
	}
	if targetAmount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}
	if linkedCategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND workspace_id = ?", *linkedCategoryID, workspaceID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	goal := &models.Goal{
		WorkspaceID:      workspaceID,
		Name:             name,
		TargetAmount:     targetAmount,
		CurrentAmount:    decimal.Zero,
		TargetDate:       targetDate,
		LinkedCategoryID: linkedCategoryID,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetWorkspaceGoals returns all goals of a workspace in creation order.
func (s *goalService) GetWorkspaceGoals(workspaceID string) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Preload("LinkedCategory").
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// getGoal returns a goal by ID if it belongs to the workspace.
func (s *goalService) getGoal(workspaceID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND workspace_id = ?", goalID, workspaceID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies user edits to a goal.
func (s *goalService) UpdateGoal(workspaceID, goalID string, update GoalUpdate) (*models.Goal, error) {
	goal, err := s.getGoal(workspaceID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.TargetAmount != nil {
		if update.TargetAmount.IsNegative() {
			return nil, apperrors.ErrNegativeAmount
		}
		updates["target_amount"] = *update.TargetAmount
	}
	if update.TargetDate != nil {
		updates["target_date"] = *update.TargetDate
	}
	if update.UnlinkCategory {
		updates["linked_category_id"] = nil
	} else if update.LinkedCategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND workspace_id = ?", *update.LinkedCategoryID, workspaceID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["linked_category_id"] = *update.LinkedCategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.getGoal(workspaceID, goalID)
}

// DeleteGoal deletes a goal.
func (s *goalService) DeleteGoal(workspaceID, goalID string) error {
	goal, err := s.getGoal(workspaceID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// syncGoal recomputes a goal's cached progress from the ledger and writes
// it through unconditionally. The figure is the full posted history of the
// linked category, whatever the entry direction. An unlinked goal resyncs
// to whatever was accumulated manually, which for a fresh goal is zero.
func (s *goalService) syncGoal(goal *models.Goal) error {
	if goal.LinkedCategoryID == nil {
		return nil
	}

	var entries []models.LedgerEntry
	if err := s.db.
		Where("workspace_id = ? AND category_id = ? AND status = ?",
			goal.WorkspaceID, *goal.LinkedCategoryID, models.EntryStatusPosted).
		Find(&entries).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}

	if err := s.db.Model(goal).Update("current_amount", total).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	goal.CurrentAmount = total
	return nil
}

// SyncGoal resynchronizes one goal and returns it with fresh progress.
func (s *goalService) SyncGoal(workspaceID, goalID string) (*models.Goal, error) {
	goal, err := s.getGoal(workspaceID, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.syncGoal(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// SyncGoals resynchronizes every goal in the workspace. The first store
// failure aborts the sweep; a stale cache is recoverable, silently wrong
// progress is not.
func (s *goalService) SyncGoals(workspaceID string) error {
	var goals []models.Goal
	if err := s.db.Where("workspace_id = ?", workspaceID).Find(&goals).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range goals {
		if err := s.syncGoal(&goals[i]); err != nil {
			return err
		}
	}
	return nil
}
