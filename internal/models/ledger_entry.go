package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection represents whether an entry adds to or subtracts from cash
type EntryDirection string

const (
	EntryDirectionIncome  EntryDirection = "income"
	EntryDirectionExpense EntryDirection = "expense"
)

// EntryStatus represents the posting status of a ledger entry.
// Only posted entries participate in aggregations.
type EntryStatus string

const (
	EntryStatusPending EntryStatus = "pending"
	EntryStatusPosted  EntryStatus = "posted"
)

// LedgerEntry represents a single financial posting within a period.
// Entries created by the recurring rule engine carry the generating rule's
// ID; the unique index on (period_id, recurring_rule_id) is the
// authoritative guard against duplicate generation.
type LedgerEntry struct {
	Base
	WorkspaceID     string          `gorm:"type:uuid;not null;index" json:"workspace_id"`
	PeriodID        string          `gorm:"type:uuid;not null;index;uniqueIndex:idx_ledger_entries_period_rule" json:"period_id"`
	CategoryID      string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Direction       EntryDirection  `gorm:"not null" json:"direction"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`
	Status          EntryStatus     `gorm:"not null;default:'posted'" json:"status"`
	EntryDate       *time.Time      `json:"entry_date,omitempty"`
	RecurringRuleID *string         `gorm:"type:uuid;uniqueIndex:idx_ledger_entries_period_rule" json:"recurring_rule_id,omitempty"`
	CreatedBy       *string         `gorm:"type:uuid" json:"created_by,omitempty"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Period   Period   `gorm:"foreignKey:PeriodID" json:"-"`
}
