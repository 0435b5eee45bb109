package scheduler

import (
	"errors"
	"testing"
	"time"

	"clarity/internal/models"
	"clarity/internal/services"
)

type mockWorkspaceService struct {
	services.WorkspaceServicer
	listWorkspacesFn func() ([]models.Workspace, error)
}

func (m *mockWorkspaceService) ListWorkspaces() ([]models.Workspace, error) {
	return m.listWorkspacesFn()
}

type mockPeriodService struct {
	services.PeriodServicer
	initializeYearFn    func(workspaceID string, year int) error
	getPeriodForMonthFn func(workspaceID string, year, month int) (*models.Period, error)
}

func (m *mockPeriodService) InitializeYear(workspaceID string, year int) error {
	return m.initializeYearFn(workspaceID, year)
}

func (m *mockPeriodService) GetPeriodForMonth(workspaceID string, year, month int) (*models.Period, error) {
	return m.getPeriodForMonthFn(workspaceID, year, month)
}

type mockRecurringService struct {
	services.RecurringServicer
	generateFn func(userID, workspaceID, periodID string) (int, error)
}

func (m *mockRecurringService) Generate(userID, workspaceID, periodID string) (int, error) {
	return m.generateFn(userID, workspaceID, periodID)
}

func workspace(id string) models.Workspace {
	w := models.Workspace{
		Name:                 "ws-" + id,
		Mode:                 models.WorkspaceModeBusiness,
		DefaultCurrency:      "USD",
		FiscalYearStartMonth: 1,
	}
	w.ID = id
	return w
}

func TestRunPeriodOpen(t *testing.T) {
	t.Run("generates for every workspace with no acting user", func(t *testing.T) {
		generated := map[string]bool{}
		initialized := map[string]bool{}

		s := New(
			&mockWorkspaceService{listWorkspacesFn: func() ([]models.Workspace, error) {
				return []models.Workspace{workspace("ws-1"), workspace("ws-2")}, nil
			}},
			&mockPeriodService{
				initializeYearFn: func(workspaceID string, year int) error {
					if year != time.Now().UTC().Year() {
						t.Errorf("expected current year, got %d", year)
					}
					initialized[workspaceID] = true
					return nil
				},
				getPeriodForMonthFn: func(workspaceID string, year, month int) (*models.Period, error) {
					p := models.Period{WorkspaceID: workspaceID, Year: year, Month: month}
					p.ID = "period-" + workspaceID
					return &p, nil
				},
			},
			&mockRecurringService{generateFn: func(userID, workspaceID, periodID string) (int, error) {
				if userID != "" {
					t.Errorf("expected no acting user, got %q", userID)
				}
				generated[workspaceID] = true
				return 1, nil
			}},
		)

		s.runPeriodOpen()

		for _, id := range []string{"ws-1", "ws-2"} {
			if !initialized[id] {
				t.Errorf("expected year initialization for %s", id)
			}
			if !generated[id] {
				t.Errorf("expected generation for %s", id)
			}
		}
	})

	t.Run("one failing workspace does not stall the sweep", func(t *testing.T) {
		generated := map[string]bool{}

		s := New(
			&mockWorkspaceService{listWorkspacesFn: func() ([]models.Workspace, error) {
				return []models.Workspace{workspace("ws-bad"), workspace("ws-good")}, nil
			}},
			&mockPeriodService{
				initializeYearFn: func(workspaceID string, year int) error {
					if workspaceID == "ws-bad" {
						return errors.New("boom")
					}
					return nil
				},
				getPeriodForMonthFn: func(workspaceID string, year, month int) (*models.Period, error) {
					p := models.Period{WorkspaceID: workspaceID}
					p.ID = "period-" + workspaceID
					return &p, nil
				},
			},
			&mockRecurringService{generateFn: func(_, workspaceID, _ string) (int, error) {
				generated[workspaceID] = true
				return 0, nil
			}},
		)

		s.runPeriodOpen()

		if generated["ws-bad"] {
			t.Error("expected generation to be skipped for the failing workspace")
		}
		if !generated["ws-good"] {
			t.Error("expected generation for the healthy workspace")
		}
	})
}
