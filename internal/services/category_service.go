package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category in the workspace.
func (s *categoryService) CreateCategory(workspaceID, name string, categoryType models.CategoryType, groupName string, sortOrder int) (*models.Category, error) {
	var workspace models.Workspace
	if err := s.db.First(&workspace, "id = ?", workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category := &models.Category{
		WorkspaceID: workspaceID,
		Name:        name,
		Type:        categoryType,
		GroupName:   groupName,
		SortOrder:   sortOrder,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetWorkspaceCategories returns all categories of a workspace, grouped by
// type and ordered for display.
func (s *categoryService) GetWorkspaceCategories(workspaceID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.
		Where("workspace_id = ?", workspaceID).
		Order("type ASC, sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID returns a category by ID if it belongs to the workspace.
func (s *categoryService) GetCategoryByID(workspaceID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND workspace_id = ?", categoryID, workspaceID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category's fields.
func (s *categoryService) UpdateCategory(workspaceID, categoryID string, name, groupName string, sortOrder *int) (*models.Category, error) {
	category, err := s.GetCategoryByID(workspaceID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if groupName != "" {
		updates["group_name"] = groupName
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// DeleteCategory deletes a category unless ledger entries, budgets, or
// recurring rules still reference it.
func (s *categoryService) DeleteCategory(workspaceID, categoryID string) error {
	category, err := s.GetCategoryByID(workspaceID, categoryID)
	if err != nil {
		return err
	}

	for _, model := range []interface{}{&models.LedgerEntry{}, &models.Budget{}} {
		var count int64
		if err := s.db.Model(model).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrCategoryInUse
		}
	}
	var ruleCount int64
	if err := s.db.Model(&models.RecurringRule{}).Where("category_id = ?", categoryID).Count(&ruleCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if ruleCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
