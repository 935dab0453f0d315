package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// ledgerHandler handles journal reads, manual entries and the dashboard.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// createManualEntry godoc
// @Summary Post a manual cash ingress or egress
// @Tags ledger
// @Accept json
// @Produce json
// @Param entry body dto.ManualEntryRequest true "Manual entry"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid request format"
// @Failure 403 {object} handlers.ErrorResponse "Missing ledger.manage permission"
// @Router /ledger/entries [post]
func (h *ledgerHandler) createManualEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	entry, err := h.ledgerService.ManualEntry(c.Request.Context(), caller, req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to post manual entry", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags ledger
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Router /ledger/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Tags ledger
// @Produce json
// @Param from query string false "Entry-at lower bound (RFC3339)"
// @Param to query string false "Entry-at upper bound (RFC3339)"
// @Param memo query string false "Memo substring filter"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListEntriesParams{Memo: c.Query("memo")}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from timestamp"})
			return
		}
		params.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid to timestamp"})
			return
		}
		params.To = &t
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		params.Limit = limit
	}
	if v := c.Query("nextToken"); v != "" {
		params.NextToken = &v
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), params)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to list entries", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDashboard godoc
// @Summary Get the accounting dashboard
// @Description Recomputes operating cash, receivables, realized interest and the 7-day cash flow series from the journal
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /ledger/dashboard [get]
func (h *ledgerHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.ledgerService.Dashboard(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute dashboard", slog.String("error", err.Error()))
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(summary))
}

// registerLedgerRoutes registers ledger routes.
func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	ledger := group.Group("/ledger")
	ledger.POST("/entries", h.createManualEntry)
	ledger.GET("/entries", h.listEntries)
	ledger.GET("/entries/:entryID", h.getEntry)
	ledger.GET("/dashboard", h.getDashboard)
}
