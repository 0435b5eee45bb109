package services

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
)

// reportService produces the year rollforward report.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// summarizePeriod aggregates one period's posted entries and resolves its
// balance column against any override.
func (s *reportService) summarizePeriod(period models.Period) (PeriodSummary, error) {
	var entries []models.LedgerEntry
	if err := s.db.
		Where("period_id = ? AND status = ?", period.ID, models.EntryStatusPosted).
		Find(&entries).Error; err != nil {
		return PeriodSummary{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	revenue := decimal.Zero
	expenses := decimal.Zero
	for _, entry := range entries {
		if entry.Direction == models.EntryDirectionIncome {
			revenue = revenue.Add(entry.Amount)
		} else {
			expenses = expenses.Add(entry.Amount)
		}
	}
	net := revenue.Sub(expenses)

	var override *models.PeriodOverride
	var row models.PeriodOverride
	err := s.db.Where("period_id = ?", period.ID).First(&row).Error
	switch {
	case err == nil:
		override = &row
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no corrections for this period
	default:
		return PeriodSummary{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dividends := decimal.Zero
	if override != nil {
		dividends = override.DividendsReleased
	}

	opening, closing := resolveBalances(override, net, dividends)

	return PeriodSummary{
		Period:            period,
		Revenue:           revenue,
		Expenses:          expenses,
		NetCashFlow:       net,
		DividendsReleased: dividends,
		RetainedEarnings:  net.Sub(dividends),
		OpeningBalance:    opening,
		ClosingBalance:    closing,
	}, nil
}

// SummarizeYear builds the chronological rollforward for a workspace-year.
// Months are summarized concurrently since each one is independent. A year
// with no initialized periods yields nil rather than an empty report.
func (s *reportService) SummarizeYear(workspaceID string, year int) (*YearSummary, error) {
	var workspace models.Workspace
	if err := s.db.First(&workspace, "id = ?", workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var periods []models.Period
	if err := s.db.
		Where("workspace_id = ? AND year = ?", workspaceID, year).
		Order("month ASC").
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(periods) == 0 {
		return nil, nil
	}

	months := make([]PeriodSummary, len(periods))
	errs := make([]error, len(periods))
	var wg sync.WaitGroup
	for i, period := range periods {
		wg.Add(1)
		go func(i int, period models.Period) {
			defer wg.Done()
			months[i], errs[i] = s.summarizePeriod(period)
		}(i, period)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	summary := &YearSummary{
		Year:                  year,
		Months:                months,
		TotalRevenue:          decimal.Zero,
		TotalExpenses:         decimal.Zero,
		TotalNetCashFlow:      decimal.Zero,
		TotalDividends:        decimal.Zero,
		TotalRetainedEarnings: decimal.Zero,
	}
	for _, month := range months {
		summary.TotalRevenue = summary.TotalRevenue.Add(month.Revenue)
		summary.TotalExpenses = summary.TotalExpenses.Add(month.Expenses)
		summary.TotalNetCashFlow = summary.TotalNetCashFlow.Add(month.NetCashFlow)
		summary.TotalDividends = summary.TotalDividends.Add(month.DividendsReleased)
		summary.TotalRetainedEarnings = summary.TotalRetainedEarnings.Add(month.RetainedEarnings)
	}
	return summary, nil
}
