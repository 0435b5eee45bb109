package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one calendar month of financial activity within a
// workspace-year. Start and end dates are immutable once created.
type Period struct {
	Base
	WorkspaceID string    `gorm:"type:uuid;not null;uniqueIndex:idx_periods_workspace_year_month" json:"workspace_id"`
	Year        int       `gorm:"not null;uniqueIndex:idx_periods_workspace_year_month" json:"year"`
	Month       int       `gorm:"not null;uniqueIndex:idx_periods_workspace_year_month" json:"month"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	Label       string    `gorm:"not null" json:"label"`
}

// PeriodOverride holds manual corrections layered on top of a period's
// derived figures. Absence of a row means "derive purely from the ledger".
// Nil balance overrides mean the balance is unknown, not zero.
type PeriodOverride struct {
	Base
	PeriodID               string           `gorm:"type:uuid;not null;uniqueIndex" json:"period_id"`
	OpeningBalanceOverride *decimal.Decimal `gorm:"type:numeric(14,2)" json:"opening_balance_override"`
	ClosingBalanceOverride *decimal.Decimal `gorm:"type:numeric(14,2)" json:"closing_balance_override"`
	DividendsReleased      decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0" json:"dividends_released"`
	Notes                  string           `json:"notes"`
}
