package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clarity/internal/errors"
	"clarity/internal/models"
	"clarity/internal/pagination"
	"clarity/internal/services"
)

// LedgerHandler handles ledger entry requests.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	goalService   services.GoalServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, goalService services.GoalServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, goalService: goalService}
}

// CreateEntryRequest represents the request payload for creating a ledger entry.
type CreateEntryRequest struct {
	CategoryID  string                `json:"category_id" binding:"required,uuid"`
	Direction   models.EntryDirection `json:"direction" binding:"required,entry_direction"`
	Amount      decimal.Decimal       `json:"amount" binding:"required"`
	Description string                `json:"description" binding:"omitempty,max=255"`
	Notes       string                `json:"notes" binding:"omitempty,max=1000"`
	EntryDate   *time.Time            `json:"entry_date"`
}

// UpdateEntryRequest represents the request payload for updating a ledger entry.
type UpdateEntryRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount"`
	CategoryID  *string          `json:"category_id" binding:"omitempty,uuid"`
	Notes       *string          `json:"notes" binding:"omitempty,max=1000"`
	EntryDate   *time.Time       `json:"entry_date"`
}

func (r CreateEntryRequest) toInput(periodID string) services.EntryInput {
	return services.EntryInput{
		PeriodID:    periodID,
		CategoryID:  r.CategoryID,
		Direction:   r.Direction,
		Amount:      r.Amount,
		Description: r.Description,
		Notes:       r.Notes,
		EntryDate:   r.EntryDate,
	}
}

// resyncGoals refreshes goal progress after a ledger mutation. The mutation
// has already committed, so a sync failure must not fail the request; the
// cached progress is corrected on the next sync.
func (h *LedgerHandler) resyncGoals(workspaceID string) {
	_ = h.goalService.SyncGoals(workspaceID)
}

// CreateEntry handles the creation of a single ledger entry.
// @Summary     Create a ledger entry
// @Description Create a posted ledger entry in a period
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string             true "Workspace ID"
// @Param       periodId path string             true "Period ID"
// @Param       request  body CreateEntryRequest true "Entry details"
// @Success     201 {object} models.LedgerEntry "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/periods/{periodId}/entries [post]
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
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

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.CreateEntry(userID, workspaceID, req.toInput(periodID))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.resyncGoals(workspaceID)

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// BulkCreateEntries handles creating a batch of entries atomically.
// @Summary     Bulk create ledger entries
// @Description Create a batch of entries in one transaction; any invalid input aborts all
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string               true "Workspace ID"
// @Param       periodId path string               true "Period ID"
// @Param       request  body []CreateEntryRequest true "Entries"
// @Success     201 {object} MessageResponse "Entries created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/periods/{periodId}/entries/bulk [post]
func (h *LedgerHandler) BulkCreateEntries(c *gin.Context) {
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

	var reqs []CreateEntryRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.EntryInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, req.toInput(periodID))
	}

	count, err := h.ledgerService.BulkCreateEntries(userID, workspaceID, inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.resyncGoals(workspaceID)

	c.JSON(http.StatusCreated, gin.H{"created": count})
}

// GetEntries handles listing a period's entries.
// @Summary     Get period entries
// @Description Get a paginated list of a period's entries in creation order
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true "Workspace ID"
// @Param       periodId  path  string true "Period ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.LedgerEntry] "Paginated entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/periods/{periodId}/entries [get]
func (h *LedgerHandler) GetEntries(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledgerService.GetPeriodEntries(workspaceID, periodID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateEntry handles updating an existing entry.
// @Summary     Update ledger entry
// @Description Update an entry's editable fields
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Workspace ID"
// @Param       entryId path string             true "Entry ID"
// @Param       request body UpdateEntryRequest true "Updated entry details"
// @Success     200 {object} models.LedgerEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/entries/{entryId} [put]
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parseUUIDParam(c, "entryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.UpdateEntry(workspaceID, entryID, services.EntryUpdate{
		Description: req.Description,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Notes:       req.Notes,
		EntryDate:   req.EntryDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.resyncGoals(workspaceID)

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// PostEntry handles finalizing a pending entry.
// @Summary     Post ledger entry
// @Description Finalize a pending entry so it participates in aggregations
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string true "Workspace ID"
// @Param       entryId path string true "Entry ID"
// @Success     200 {object} models.LedgerEntry "Posted entry"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/entries/{entryId}/post [post]
func (h *LedgerHandler) PostEntry(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parseUUIDParam(c, "entryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.ledgerService.PostEntry(workspaceID, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.resyncGoals(workspaceID)

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry handles deleting an entry.
// @Summary     Delete ledger entry
// @Description Delete an entry by ID
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string true "Workspace ID"
// @Param       entryId path string true "Entry ID"
// @Success     200 {object} MessageResponse "Entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/entries/{entryId} [delete]
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parseUUIDParam(c, "entryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteEntry(workspaceID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.resyncGoals(workspaceID)

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}
