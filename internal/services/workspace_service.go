package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
)

// workspaceService handles workspace provisioning.
type workspaceService struct {
	db *gorm.DB
}

// NewWorkspaceService creates a new WorkspaceServicer.
func NewWorkspaceService(db *gorm.DB) WorkspaceServicer {
	return &workspaceService{db: db}
}

// defaultCategories is the seed set for new workspaces.
var defaultCategories = []struct {
	Name  string
	Type  models.CategoryType
	Group string
}{
	{"Sales Revenue", models.CategoryTypeIncome, "Operating Income"},
	{"Consulting Income", models.CategoryTypeIncome, "Operating Income"},
	{"Other Income", models.CategoryTypeIncome, "Other Income"},
	{"Payroll", models.CategoryTypeExpense, "People"},
	{"Contractors", models.CategoryTypeExpense, "People"},
	{"Rent & Utilities", models.CategoryTypeExpense, "Facilities"},
	{"Software & Subscriptions", models.CategoryTypeExpense, "Operations"},
	{"Marketing", models.CategoryTypeExpense, "Operations"},
	{"Professional Services", models.CategoryTypeExpense, "Operations"},
	{"Taxes", models.CategoryTypeExpense, "Other"},
	{"Other Expenses", models.CategoryTypeExpense, "Other"},
}

// CreateWorkspace provisions a workspace with its seed categories and the
// 12 periods of the starting year, all in one transaction.
func (s *workspaceService) CreateWorkspace(name string, mode models.WorkspaceMode, currency string, fiscalYearStartMonth, startYear int) (*models.Workspace, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Workspace name is required")
	}
	if fiscalYearStartMonth < 1 || fiscalYearStartMonth > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Fiscal year start month must be between 1 and 12")
	}

	workspace := &models.Workspace{
		Name:                 name,
		Mode:                 mode,
		DefaultCurrency:      currency,
		FiscalYearStartMonth: fiscalYearStartMonth,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}

		categories := make([]models.Category, 0, len(defaultCategories))
		for i, c := range defaultCategories {
			categories = append(categories, models.Category{
				WorkspaceID: workspace.ID,
				Name:        c.Name,
				Type:        c.Type,
				GroupName:   c.Group,
				SortOrder:   i,
				IsSystem:    true,
			})
		}
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}

		periods := buildPeriods(workspace.ID, startYear)
		return tx.Create(&periods).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return workspace, nil
}

// ListWorkspaces returns every workspace in creation order. Used by the
// period-open scheduler to sweep all tenants.
func (s *workspaceService) ListWorkspaces() ([]models.Workspace, error) {
	var workspaces []models.Workspace
	if err := s.db.Order("created_at ASC").Find(&workspaces).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return workspaces, nil
}

// GetWorkspaceByID returns a workspace by ID.
func (s *workspaceService) GetWorkspaceByID(workspaceID string) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := s.db.First(&workspace, "id = ?", workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &workspace, nil
}
