package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// referenceHandler serves the read-only catalogs.
type referenceHandler struct {
	referenceService portssvc.ReferenceSvcFacade
}

func newReferenceHandler(referenceService portssvc.ReferenceSvcFacade) *referenceHandler {
	return &referenceHandler{referenceService: referenceService}
}

// listTills godoc
// @Summary List tills
// @Tags reference
// @Produce json
// @Success 200 {array} dto.TillResponse
// @Router /tills [get]
func (h *referenceHandler) listTills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tills, err := h.referenceService.ListTills(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list tills", slog.String("error", err.Error()))
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	resp := make([]dto.TillResponse, 0, len(tills))
	for i := range tills {
		resp = append(resp, dto.ToTillResponse(&tills[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// listRates godoc
// @Summary List interest rate catalog
// @Tags reference
// @Produce json
// @Success 200 {array} dto.RateResponse
// @Router /rates [get]
func (h *referenceHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.referenceService.ListRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list rates", slog.String("error", err.Error()))
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	resp := make([]dto.RateResponse, 0, len(rates))
	for i := range rates {
		resp = append(resp, dto.ToRateResponse(&rates[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// listPaymentMethods godoc
// @Summary List payment methods with their derived kinds
// @Tags reference
// @Produce json
// @Success 200 {array} dto.PaymentMethodResponse
// @Router /payment-methods [get]
func (h *referenceHandler) listPaymentMethods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	methods, err := h.referenceService.ListPaymentMethods(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list payment methods", slog.String("error", err.Error()))
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	resp := make([]dto.PaymentMethodResponse, 0, len(methods))
	for i := range methods {
		resp = append(resp, dto.ToPaymentMethodResponse(&methods[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// registerReferenceRoutes registers catalog routes.
func registerReferenceRoutes(group *gin.RouterGroup, referenceService portssvc.ReferenceSvcFacade) {
	h := newReferenceHandler(referenceService)
	group.GET("/tills", h.listTills)
	group.GET("/rates", h.listRates)
	group.GET("/payment-methods", h.listPaymentMethods)
}
