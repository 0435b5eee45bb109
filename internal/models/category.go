package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a ledger entry category
type Category struct {
	Base
	WorkspaceID string       `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name        string       `gorm:"not null" json:"name"`
	Type        CategoryType `gorm:"not null" json:"type"`
	GroupName   string       `json:"group_name"`
	SortOrder   int          `gorm:"default:0" json:"sort_order"`
	IsSystem    bool         `gorm:"default:false" json:"is_system"`
}
