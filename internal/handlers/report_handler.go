package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "clarity/internal/errors"
	"clarity/internal/services"
)

// ReportHandler handles rollup report requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetYearSummary handles the year rollforward report.
// @Summary     Get year summary
// @Description Get the chronological monthly rollforward for a workspace-year
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string true "Workspace ID"
// @Param       year path int    true "Year"
// @Success     200 {object} services.YearSummary "Year summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No periods exist for the year"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/years/{year}/summary [get]
func (h *ReportHandler) GetYearSummary(c *gin.Context) {
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

	summary, err := h.reportService.SummarizeYear(workspaceID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if summary == nil {
		respondWithError(c, apperrors.ErrNoPeriodsFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
