package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clarity/internal/errors"
	"clarity/internal/services"
)

// PeriodHandler handles fiscal calendar requests.
type PeriodHandler struct {
	periodService services.PeriodServicer
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodService services.PeriodServicer) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

// parseYearParam parses a year path parameter.
func parseYearParam(c *gin.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year")
	}
	return year, nil
}

// InitializeYear handles creating the 12 periods for a workspace-year.
// @Summary     Initialize a year
// @Description Create the 12 monthly periods for a workspace-year; idempotent
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string true "Workspace ID"
// @Param       year path int    true "Year"
// @Success     201 {object} []models.Period "Periods for the year"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Workspace not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/years/{year}/periods [post]
func (h *PeriodHandler) InitializeYear(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := parseYearParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.periodService.InitializeYear(workspaceID, year); err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.periodService.GetPeriodsForYear(workspaceID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"periods": periods})
}

// GetPeriods handles listing the periods of a workspace-year.
// @Summary     Get periods for a year
// @Description Get the monthly periods of a workspace-year in order
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string true "Workspace ID"
// @Param       year path int    true "Year"
// @Success     200 {object} []models.Period "Periods for the year"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/years/{year}/periods [get]
func (h *PeriodHandler) GetPeriods(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := parseYearParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.periodService.GetPeriodsForYear(workspaceID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// UpsertOverrideRequest represents the request payload for setting a period's
// manual corrections. A null balance field leaves the stored value untouched;
// the clear flags reset a balance back to unknown.
type UpsertOverrideRequest struct {
	OpeningBalanceOverride *decimal.Decimal `json:"opening_balance_override"`
	ClearOpening           bool             `json:"clear_opening"`
	ClosingBalanceOverride *decimal.Decimal `json:"closing_balance_override"`
	ClearClosing           bool             `json:"clear_closing"`
	DividendsReleased      *decimal.Decimal `json:"dividends_released"`
	Notes                  *string          `json:"notes" binding:"omitempty,max=1000"`
}

// UpsertOverride handles creating or updating a period's manual corrections.
// @Summary     Upsert period override
// @Description Create or update the manual balance corrections for a period
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Period ID"
// @Param       request body UpsertOverrideRequest true "Override details"
// @Success     200 {object} models.PeriodOverride "Override"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id}/override [put]
func (h *PeriodHandler) UpsertOverride(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	override, err := h.periodService.UpsertOverride(periodID, services.PeriodOverrideInput{
		OpeningBalanceOverride: req.OpeningBalanceOverride,
		ClearOpening:           req.ClearOpening,
		ClosingBalanceOverride: req.ClosingBalanceOverride,
		ClearClosing:           req.ClearClosing,
		DividendsReleased:      req.DividendsReleased,
		Notes:                  req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"override": override})
}

// GetOverride handles retrieving a period's manual corrections.
// @Summary     Get period override
// @Description Get the manual corrections for a period; null when none exist
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Period ID"
// @Success     200 {object} models.PeriodOverride "Override or null"
// @Failure     400 {object} ErrorResponse "Invalid period ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id}/override [get]
func (h *PeriodHandler) GetOverride(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	override, err := h.periodService.GetOverride(periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"override": override})
}
