package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
	"clarity/internal/services"
)

// WorkspaceHandler handles workspace provisioning requests.
type WorkspaceHandler struct {
	workspaceService services.WorkspaceServicer
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService services.WorkspaceServicer) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// CreateWorkspaceRequest represents the request payload for provisioning a workspace.
type CreateWorkspaceRequest struct {
	Name                 string               `json:"name" binding:"required,min=1,max=100"`
	Mode                 models.WorkspaceMode `json:"mode" binding:"required,workspace_mode"`
	DefaultCurrency      string               `json:"default_currency" binding:"required,iso4217"`
	FiscalYearStartMonth int                  `json:"fiscal_year_start_month" binding:"required,min=1,max=12"`
	StartYear            int                  `json:"start_year" binding:"required,min=1970,max=2999"`
}

// CreateWorkspace handles provisioning a new workspace.
// @Summary     Create a workspace
// @Description Provision a workspace with seed categories and the starting year's periods
// @Tags        workspaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWorkspaceRequest true "Workspace details"
// @Success     201 {object} models.Workspace "Workspace created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(
		req.Name, req.Mode, req.DefaultCurrency, req.FiscalYearStartMonth, req.StartYear,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workspace": workspace})
}

// GetWorkspace handles retrieving a workspace.
// @Summary     Get workspace by ID
// @Description Get a specific workspace by ID
// @Tags        workspaces
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Workspace ID"
// @Success     200 {object} models.Workspace "Workspace details"
// @Failure     400 {object} ErrorResponse "Invalid workspace ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Workspace not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id} [get]
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	workspace, err := h.workspaceService.GetWorkspaceByID(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": workspace})
}
