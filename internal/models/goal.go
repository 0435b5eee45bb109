package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings or revenue target. CurrentAmount is a derived cache,
// not a source of truth: it must always be recomputable by replaying the
// linked category's posted ledger history, and consumers must trigger a
// resync before trusting it for decisions.
type Goal struct {
	Base
	WorkspaceID      string          `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name             string          `gorm:"not null" json:"name"`
	TargetAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"target_amount"`
	CurrentAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"current_amount"`
	TargetDate       *time.Time      `json:"target_date,omitempty"`
	LinkedCategoryID *string         `gorm:"type:uuid" json:"linked_category_id,omitempty"`

	// Relationships
	LinkedCategory *Category `gorm:"foreignKey:LinkedCategoryID" json:"linked_category,omitempty"`
}
