package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CadenceType represents how often a recurring rule materializes
type CadenceType string

const (
	CadenceMonthly   CadenceType = "monthly"
	CadenceQuarterly CadenceType = "quarterly"
	CadenceYearly    CadenceType = "yearly"
)

// RecurringRule is a template that materializes into concrete ledger
// entries on a cadence. NextRunDate is advanced by the rule engine after
// each successful generation; user edits are the only other mutation.
type RecurringRule struct {
	Base
	WorkspaceID string          `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Direction   EntryDirection  `gorm:"not null" json:"direction"`
	CategoryID  string          `gorm:"type:uuid;not null" json:"category_id"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Cadence     CadenceType     `gorm:"not null" json:"cadence"`
	NextRunDate time.Time       `gorm:"not null" json:"next_run_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	AutoPost    bool            `gorm:"default:true" json:"auto_post"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
