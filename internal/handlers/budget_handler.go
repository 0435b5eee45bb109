package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clarity/internal/errors"
	"clarity/internal/services"
)

// BudgetHandler handles budget planning and reconciliation requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	periodService services.PeriodServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, periodService services.PeriodServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, periodService: periodService}
}

// UpsertBudgetRequest represents the request payload for setting a budget.
type UpsertBudgetRequest struct {
	CategoryID string          `json:"category_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Rollover   bool            `json:"rollover"`
}

// UpsertBudget handles creating or updating the budget for a period-category pair.
// @Summary     Upsert a budget
// @Description Set the planned amount for a period and category; one row per pair
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string              true "Workspace ID"
// @Param       periodId path string              true "Period ID"
// @Param       request  body UpsertBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period or category not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/periods/{periodId}/budgets [put]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodID, err := parseUUIDParam(c, "periodId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpsertBudget(workspaceID, periodID, req.CategoryID, req.Amount, req.Rollover)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgets handles listing a period's budgets.
// @Summary     Get period budgets
// @Description Get all budget lines of a period
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string true "Workspace ID"
// @Param       periodId path string true "Period ID"
// @Success     200 {object} []models.Budget "Budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/periods/{periodId}/budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodID, err := parseUUIDParam(c, "periodId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetPeriodBudgets(workspaceID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// DeleteBudget handles deleting a budget line.
// @Summary     Delete budget
// @Description Delete a budget line by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string true "Workspace ID"
// @Param       budgetId path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/budgets/{budgetId} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parseUUIDParam(c, "budgetId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(workspaceID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// Reconcile handles the budget-versus-actual report for a period.
// @Summary     Reconcile period budgets
// @Description Join each budget against the period's posted activity
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string true "Workspace ID"
// @Param       periodId path string true "Period ID"
// @Success     200 {object} []services.BudgetActual "Reconciliation rows"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/periods/{periodId}/reconciliation [get]
func (h *BudgetHandler) Reconcile(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodID, err := parseUUIDParam(c, "periodId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodService.GetPeriodByID(workspaceID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	results, err := h.budgetService.Reconcile(workspaceID, periodID, period.StartDate, period.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": results})
}
