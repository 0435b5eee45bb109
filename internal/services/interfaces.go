package services

import (
	"time"

	"github.com/shopspring/decimal"

	"clarity/internal/models"
	"clarity/internal/pagination"
)

// WorkspaceServicer defines the contract for workspace provisioning.
type WorkspaceServicer interface {
	CreateWorkspace(name string, mode models.WorkspaceMode, currency string, fiscalYearStartMonth, startYear int) (*models.Workspace, error)
	GetWorkspaceByID(workspaceID string) (*models.Workspace, error)
	ListWorkspaces() ([]models.Workspace, error)
}

// PeriodOverrideInput holds the optional manual corrections for a period.
// Nil fields are left untouched on update; the Clear flags reset a balance
// override back to "unknown".
type PeriodOverrideInput struct {
	OpeningBalanceOverride *decimal.Decimal
	ClearOpening           bool
	ClosingBalanceOverride *decimal.Decimal
	ClearClosing           bool
	DividendsReleased      *decimal.Decimal
	Notes                  *string
}

// PeriodServicer defines the contract for the fiscal calendar.
type PeriodServicer interface {
	InitializeYear(workspaceID string, year int) error
	GetPeriodsForYear(workspaceID string, year int) ([]models.Period, error)
	GetPeriodByID(workspaceID, periodID string) (*models.Period, error)
	GetPeriodForMonth(workspaceID string, year, month int) (*models.Period, error)
	UpsertOverride(periodID string, input PeriodOverrideInput) (*models.PeriodOverride, error)
	GetOverride(periodID string) (*models.PeriodOverride, error)
}

// CategoryServicer defines the contract for category management.
type CategoryServicer interface {
	CreateCategory(workspaceID, name string, categoryType models.CategoryType, groupName string, sortOrder int) (*models.Category, error)
	GetWorkspaceCategories(workspaceID string) ([]models.Category, error)
	GetCategoryByID(workspaceID, categoryID string) (*models.Category, error)
	UpdateCategory(workspaceID, categoryID string, name, groupName string, sortOrder *int) (*models.Category, error)
	DeleteCategory(workspaceID, categoryID string) error
}

// EntryInput holds the fields for creating a ledger entry.
type EntryInput struct {
	PeriodID    string
	CategoryID  string
	Direction   models.EntryDirection
	Amount      decimal.Decimal
	Description string
	Notes       string
	EntryDate   *time.Time
}

// EntryUpdate holds the user-editable fields of a posted entry.
type EntryUpdate struct {
	Description *string
	Amount      *decimal.Decimal
	CategoryID  *string
	Notes       *string
	EntryDate   *time.Time
}

// LedgerServicer defines the contract for ledger entry management.
type LedgerServicer interface {
	CreateEntry(userID, workspaceID string, input EntryInput) (*models.LedgerEntry, error)
	BulkCreateEntries(userID, workspaceID string, inputs []EntryInput) (int, error)
	GetPeriodEntries(workspaceID, periodID string, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEntry], error)
	UpdateEntry(workspaceID, entryID string, update EntryUpdate) (*models.LedgerEntry, error)
	PostEntry(workspaceID, entryID string) (*models.LedgerEntry, error)
	DeleteEntry(workspaceID, entryID string) error
}

// RuleInput holds the fields for creating a recurring rule.
type RuleInput struct {
	Direction   models.EntryDirection
	CategoryID  string
	Description string
	Amount      decimal.Decimal
	Cadence     models.CadenceType
	NextRunDate time.Time
	EndDate     *time.Time
	AutoPost    bool
}

// RuleUpdate holds the user-editable fields of a recurring rule.
type RuleUpdate struct {
	Description *string
	Amount      *decimal.Decimal
	CategoryID  *string
	Cadence     *models.CadenceType
	NextRunDate *time.Time
	EndDate     *time.Time
	AutoPost    *bool
}

// RecurringServicer defines the contract for the recurring rule engine.
type RecurringServicer interface {
	CreateRule(workspaceID string, input RuleInput) (*models.RecurringRule, error)
	GetWorkspaceRules(workspaceID string) ([]models.RecurringRule, error)
	GetRuleByID(workspaceID, ruleID string) (*models.RecurringRule, error)
	UpdateRule(workspaceID, ruleID string, update RuleUpdate) (*models.RecurringRule, error)
	DeleteRule(workspaceID, ruleID string) error
	Generate(userID, workspaceID, periodID string) (int, error)
}

// BudgetActual joins a budget against the posted activity of its category
// within the reconciliation window.
type BudgetActual struct {
	Budget      models.Budget   `json:"budget"`
	Actual      decimal.Decimal `json:"actual"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed int64           `json:"percent_used"`
}

// BudgetServicer defines the contract for budget planning and reconciliation.
type BudgetServicer interface {
	UpsertBudget(workspaceID, periodID, categoryID string, amount decimal.Decimal, rollover bool) (*models.Budget, error)
	GetPeriodBudgets(workspaceID, periodID string) ([]models.Budget, error)
	DeleteBudget(workspaceID, budgetID string) error
	Reconcile(workspaceID, periodID string, periodStart, periodEnd time.Time) ([]BudgetActual, error)
}

// GoalUpdate holds the user-editable fields of a goal.
type GoalUpdate struct {
	Name             *string
	TargetAmount     *decimal.Decimal
	TargetDate       *time.Time
	LinkedCategoryID *string
	UnlinkCategory   bool
}

// GoalServicer defines the contract for goals and progress resync.
type GoalServicer interface {
	CreateGoal(workspaceID, name string, targetAmount decimal.Decimal, targetDate *time.Time, linkedCategoryID *string) (*models.Goal, error)
	GetWorkspaceGoals(workspaceID string) ([]models.Goal, error)
	UpdateGoal(workspaceID, goalID string, update GoalUpdate) (*models.Goal, error)
	DeleteGoal(workspaceID, goalID string) error
	SyncGoal(workspaceID, goalID string) (*models.Goal, error)
	SyncGoals(workspaceID string) error
}

// PeriodSummary is one month's row in the year rollforward. OpeningBalance
// is nil when no override supplies it: "unknown" is distinct from zero.
type PeriodSummary struct {
	Period            models.Period    `json:"period"`
	Revenue           decimal.Decimal  `json:"revenue"`
	Expenses          decimal.Decimal  `json:"expenses"`
	NetCashFlow       decimal.Decimal  `json:"net_cash_flow"`
	DividendsReleased decimal.Decimal  `json:"dividends_released"`
	RetainedEarnings  decimal.Decimal  `json:"retained_earnings"`
	OpeningBalance    *decimal.Decimal `json:"opening_balance"`
	ClosingBalance    decimal.Decimal  `json:"closing_balance"`
}

// YearSummary is the chronological income-statement/balance rollforward for
// a workspace-year. Totals sum flow quantities only; balances are not
// additive across months.
type YearSummary struct {
	Year                  int             `json:"year"`
	Months                []PeriodSummary `json:"months"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalExpenses         decimal.Decimal `json:"total_expenses"`
	TotalNetCashFlow      decimal.Decimal `json:"total_net_cash_flow"`
	TotalDividends        decimal.Decimal `json:"total_dividends"`
	TotalRetainedEarnings decimal.Decimal `json:"total_retained_earnings"`
}

// ReportServicer defines the contract for the period rollup aggregator.
type ReportServicer interface {
	SummarizeYear(workspaceID string, year int) (*YearSummary, error)
}
