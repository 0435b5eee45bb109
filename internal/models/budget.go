package models

import "github.com/shopspring/decimal"

// Budget holds the planned amount for one category in one period.
// Exactly one budget may exist per (workspace, period, category) triple.
type Budget struct {
	Base
	WorkspaceID string          `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_workspace_period_category" json:"workspace_id"`
	PeriodID    string          `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_workspace_period_category" json:"period_id"`
	CategoryID  string          `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_workspace_period_category" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Rollover    bool            `gorm:"default:false" json:"rollover"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
