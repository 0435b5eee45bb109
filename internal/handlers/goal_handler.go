package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clarity/internal/errors"
	"clarity/internal/services"
)

// GoalHandler handles goal requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name             string          `json:"name" binding:"required,min=1,max=100"`
	TargetAmount     decimal.Decimal `json:"target_amount" binding:"required"`
	TargetDate       *time.Time      `json:"target_date"`
	LinkedCategoryID *string         `json:"linked_category_id" binding:"omitempty,uuid"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
type UpdateGoalRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount     *decimal.Decimal `json:"target_amount"`
	TargetDate       *time.Time       `json:"target_date"`
	LinkedCategoryID *string          `json:"linked_category_id" binding:"omitempty,uuid"`
	UnlinkCategory   bool             `json:"unlink_category"`
}

// CreateGoal handles the creation of a new goal.
// @Summary     Create a goal
// @Description Create a goal, optionally linked to a category that drives its progress
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Workspace ID"
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoal(workspaceID, req.Name, req.TargetAmount, req.TargetDate, req.LinkedCategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoals handles listing the workspace's goals.
// @Summary     Get goals
// @Description Get all goals of a workspace
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Workspace ID"
// @Success     200 {object} []models.Goal "Goals"
// @Failure     400 {object} ErrorResponse "Invalid workspace ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetWorkspaceGoals(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// UpdateGoal handles updating an existing goal.
// @Summary     Update goal
// @Description Update a goal's fields, including relinking or unlinking its category
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Workspace ID"
// @Param       goalId  path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Updated goal details"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/goals/{goalId} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parseUUIDParam(c, "goalId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.UpdateGoal(workspaceID, goalID, services.GoalUpdate{
		Name:             req.Name,
		TargetAmount:     req.TargetAmount,
		TargetDate:       req.TargetDate,
		LinkedCategoryID: req.LinkedCategoryID,
		UnlinkCategory:   req.UnlinkCategory,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles deleting a goal.
// @Summary     Delete goal
// @Description Delete a goal by ID
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Workspace ID"
// @Param       goalId path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/goals/{goalId} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parseUUIDParam(c, "goalId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(workspaceID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// SyncGoal handles resynchronizing one goal's progress from the ledger.
// @Summary     Sync goal progress
// @Description Recompute a goal's progress from its linked category's posted history
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Workspace ID"
// @Param       goalId path string true "Goal ID"
// @Success     200 {object} models.Goal "Goal with fresh progress"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/goals/{goalId}/sync [post]
func (h *GoalHandler) SyncGoal(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parseUUIDParam(c, "goalId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.SyncGoal(workspaceID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// SyncGoals handles resynchronizing every goal in the workspace.
// @Summary     Sync all goals
// @Description Recompute progress for every goal in the workspace
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Workspace ID"
// @Success     200 {object} MessageResponse "Goals synced"
// @Failure     400 {object} ErrorResponse "Invalid workspace ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/goals/sync [post]
func (h *GoalHandler) SyncGoals(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.SyncGoals(workspaceID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goals synced successfully"})
}
