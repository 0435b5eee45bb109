package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
	"clarity/internal/services"
)

// RecurringHandler handles recurring rule requests.
type RecurringHandler struct {
	recurringService services.RecurringServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateRuleRequest represents the request payload for creating a recurring rule.
type CreateRuleRequest struct {
	Direction   models.EntryDirection `json:"direction" binding:"required,entry_direction"`
	CategoryID  string                `json:"category_id" binding:"required,uuid"`
	Description string                `json:"description" binding:"required,min=1,max=255"`
	Amount      decimal.Decimal       `json:"amount" binding:"required"`
	Cadence     models.CadenceType    `json:"cadence" binding:"required,cadence"`
	NextRunDate time.Time             `json:"next_run_date" binding:"required"`
	EndDate     *time.Time            `json:"end_date"`
	AutoPost    *bool                 `json:"auto_post"`
}

// UpdateRuleRequest represents the request payload for updating a recurring rule.
type UpdateRuleRequest struct {
	Description *string             `json:"description" binding:"omitempty,min=1,max=255"`
	Amount      *decimal.Decimal    `json:"amount"`
	CategoryID  *string             `json:"category_id" binding:"omitempty,uuid"`
	Cadence     *models.CadenceType `json:"cadence" binding:"omitempty,cadence"`
	NextRunDate *time.Time          `json:"next_run_date"`
	EndDate     *time.Time          `json:"end_date"`
	AutoPost    *bool               `json:"auto_post"`
}

// CreateRule handles the creation of a new recurring rule.
// @Summary     Create a recurring rule
// @Description Create a rule that materializes into ledger entries on a cadence
// @Tags        recurring-rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Workspace ID"
// @Param       request body CreateRuleRequest true "Rule details"
// @Success     201 {object} models.RecurringRule "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/recurring-rules [post]
func (h *RecurringHandler) CreateRule(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	autoPost := true
	if req.AutoPost != nil {
		autoPost = *req.AutoPost
	}

	rule, err := h.recurringService.CreateRule(workspaceID, services.RuleInput{
		Direction:   req.Direction,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		Cadence:     req.Cadence,
		NextRunDate: req.NextRunDate,
		EndDate:     req.EndDate,
		AutoPost:    autoPost,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

// GetRules handles listing the workspace's recurring rules.
// @Summary     Get recurring rules
// @Description Get all recurring rules of a workspace
// @Tags        recurring-rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Workspace ID"
// @Success     200 {object} []models.RecurringRule "Rules"
// @Failure     400 {object} ErrorResponse "Invalid workspace ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/recurring-rules [get]
func (h *RecurringHandler) GetRules(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rules, err := h.recurringService.GetWorkspaceRules(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// GetRule handles retrieving a specific rule.
// @Summary     Get recurring rule by ID
// @Description Get a specific recurring rule by ID
// @Tags        recurring-rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Workspace ID"
// @Param       ruleId path string true "Rule ID"
// @Success     200 {object} models.RecurringRule "Rule details"
// @Failure     400 {object} ErrorResponse "Invalid rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/recurring-rules/{ruleId} [get]
func (h *RecurringHandler) GetRule(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	ruleID, err := parseUUIDParam(c, "ruleId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.GetRuleByID(workspaceID, ruleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// UpdateRule handles updating an existing rule.
// @Summary     Update recurring rule
// @Description Update a recurring rule's fields
// @Tags        recurring-rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Workspace ID"
// @Param       ruleId  path string            true "Rule ID"
// @Param       request body UpdateRuleRequest true "Updated rule details"
// @Success     200 {object} models.RecurringRule "Updated rule"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/recurring-rules/{ruleId} [put]
func (h *RecurringHandler) UpdateRule(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	ruleID, err := parseUUIDParam(c, "ruleId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rule, err := h.recurringService.UpdateRule(workspaceID, ruleID, services.RuleUpdate{
		Description: req.Description,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Cadence:     req.Cadence,
		NextRunDate: req.NextRunDate,
		EndDate:     req.EndDate,
		AutoPost:    req.AutoPost,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// DeleteRule handles deleting a rule.
// @Summary     Delete recurring rule
// @Description Delete a rule; entries already generated from it are kept
// @Tags        recurring-rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Workspace ID"
// @Param       ruleId path string true "Rule ID"
// @Success     200 {object} MessageResponse "Rule deleted"
// @Failure     400 {object} ErrorResponse "Invalid rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/recurring-rules/{ruleId} [delete]
func (h *RecurringHandler) DeleteRule(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	ruleID, err := parseUUIDParam(c, "ruleId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRule(workspaceID, ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted successfully"})
}

// Generate handles materializing due rules into a period.
// @Summary     Generate recurring entries
// @Description Materialize every due rule into the target period; idempotent per rule
// @Tags        recurring-rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string true "Workspace ID"
// @Param       periodId path string true "Period ID"
// @Success     200 {object} MessageResponse "Generation result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/periods/{periodId}/generate [post]
func (h *RecurringHandler) Generate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
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

	count, err := h.recurringService.Generate(userID, workspaceID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"generated": count})
}
