package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prestaflow/lending_backend/internal/core/domain"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// sessionHandler handles register-session lifecycle requests.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
}

func newSessionHandler(sessionService portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{sessionService: sessionService}
}

// callerOrAbort extracts the resolved caller identity or aborts with 401.
func callerOrAbort(c *gin.Context) (domain.CallerIdentity, bool) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return caller, ok
}

// openSession godoc
// @Summary Open a register session
// @Description Opens a session on a till for the caller, recording the opening float
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body dto.OpenSessionRequest true "Opening details"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid request format"
// @Failure 409 {object} handlers.ErrorResponse "Cashier or till already has an open session"
// @Router /sessions [post]
func (h *sessionHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), caller, req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to open session", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// recordMovement godoc
// @Summary Record a movement in an open session
// @Tags sessions
// @Accept json
// @Produce json
// @Param movement body dto.RecordMovementRequest true "Movement details"
// @Success 201 {object} dto.RecordMovementResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid request format"
// @Failure 409 {object} handlers.ErrorResponse "Session is not open"
// @Router /sessions/movements [post]
func (h *sessionHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	movement, err := h.sessionService.RecordMovement(c.Request.Context(), caller, req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to record movement", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusCreated, dto.RecordMovementResponse{MovementID: movement.MovementID})
}

// declareClose godoc
// @Summary Declare a session closed
// @Description Aggregates the session's movements, computes the expected drawer cash and moves the session to PENDING_REVIEW
// @Tags sessions
// @Accept json
// @Produce json
// @Param close body dto.DeclareCloseRequest true "Closing declaration"
// @Success 200 {object} dto.CloseSummaryResponse
// @Failure 409 {object} handlers.ErrorResponse "Session is not open"
// @Router /sessions/close [post]
func (h *sessionHandler) declareClose(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.DeclareCloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	summary, err := h.sessionService.DeclareClose(c.Request.Context(), caller, req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to declare close", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToCloseSummaryResponse(summary))
}

// confirmSession godoc
// @Summary Confirm a declared session
// @Description Stamps the audit confirmation; large differences require a justification note
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param confirmation body dto.ConfirmSessionRequest false "Confirmation note"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} handlers.ErrorResponse "Missing session.confirm permission"
// @Failure 409 {object} handlers.ErrorResponse "Not yet declared or already confirmed"
// @Router /sessions/{sessionID}/confirm [post]
func (h *sessionHandler) confirmSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")

	// The note is optional; an empty body is fine.
	var req dto.ConfirmSessionRequest
	_ = c.ShouldBindJSON(&req)

	session, err := h.sessionService.Confirm(c.Request.Context(), caller, sessionID, req.Note)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to confirm session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// activeSession godoc
// @Summary Get the caller's open session
// @Tags sessions
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} handlers.ErrorResponse "No open session"
// @Router /sessions/active [get]
func (h *sessionHandler) activeSession(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	session, err := h.sessionService.ActiveSession(c.Request.Context(), caller.UserID)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// getSession godoc
// @Summary Get a session by ID
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} handlers.ErrorResponse "Session not found"
// @Router /sessions/{sessionID} [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	session, err := h.sessionService.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// listSessions godoc
// @Summary List session history
// @Tags sessions
// @Produce json
// @Param cashier_id query int false "Filter by cashier"
// @Param status query string false "Filter by status (OPEN, PENDING_REVIEW, CONFIRMED)"
// @Param from query string false "Opened-at lower bound (RFC3339)"
// @Param to query string false "Opened-at upper bound (RFC3339)"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListSessionsResponse
// @Router /sessions [get]
func (h *sessionHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListSessionsParams{}
	if v := c.Query("cashier_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid cashier_id"})
			return
		}
		params.CashierID = &id
	}
	if v := c.Query("status"); v != "" {
		params.Status = &v
	}
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

	resp, err := h.sessionService.History(c.Request.Context(), params)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to list sessions", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerSessionRoutes registers register-session routes.
func registerSessionRoutes(group *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := newSessionHandler(sessionService)
	sessions := group.Group("/sessions")
	sessions.POST("", h.openSession)
	sessions.GET("", h.listSessions)
	sessions.GET("/active", h.activeSession)
	sessions.POST("/movements", h.recordMovement)
	sessions.POST("/close", h.declareClose)
	sessions.GET("/:sessionID", h.getSession)
	sessions.POST("/:sessionID/confirm", h.confirmSession)
}
