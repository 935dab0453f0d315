package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// paymentHandler handles payment allocation requests.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentService}
}

// createPayment godoc
// @Summary Record a payment against an installment
// @Description Splits the amount into capital and interest, posts the ledger entry and updates the installment atomically
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid request format"
// @Failure 409 {object} handlers.ErrorResponse "Loan is voided"
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	allocation, err := h.paymentService.Allocate(c.Request.Context(), caller, req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to allocate payment", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(allocation))
}

// registerPaymentRoutes registers payment routes.
func registerPaymentRoutes(group *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)
	group.POST("/payments", h.createPayment)
}
