package models

// WorkspaceMode represents the operating mode of a workspace
type WorkspaceMode string

const (
	WorkspaceModeBusiness WorkspaceMode = "business"
	WorkspaceModePersonal WorkspaceMode = "personal"
)

// Workspace is the top-level container that owns periods, categories,
// ledger entries, budgets, goals and recurring rules. Membership and
// access control live outside this service; the core treats workspaces
// as read-only once provisioned.
type Workspace struct {
	Base
	Name                 string        `gorm:"not null" json:"name"`
	Mode                 WorkspaceMode `gorm:"not null;default:'business'" json:"mode"`
	DefaultCurrency      string        `gorm:"size:3;not null;default:'USD'" json:"default_currency"`
	FiscalYearStartMonth int           `gorm:"not null;default:1" json:"fiscal_year_start_month"`

	// Relationships
	Periods    []Period   `gorm:"foreignKey:WorkspaceID" json:"periods,omitempty"`
	Categories []Category `gorm:"foreignKey:WorkspaceID" json:"categories,omitempty"`
}
