package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
	"github.com/prestaflow/lending_backend/internal/utils/amortization"
)

// loanHandler handles loan origination and schedule reads.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(loanService portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: loanService}
}

func toScheduleResponse(s *amortization.Schedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		Principal:        s.Principal,
		RatePercent:      s.RatePercent,
		TotalInterest:    s.TotalInterest,
		TotalDue:         s.TotalDue,
		InstallmentCount: len(s.Installments),
		InstallmentValue: s.InstallmentValue,
	}
	for _, inst := range s.Installments {
		resp.Plan = append(resp.Plan, dto.InstallmentResponse{
			Sequence:        inst.Sequence,
			DueDate:         inst.DueDate.Format("2006-01-02"),
			ScheduledAmount: inst.ScheduledAmount,
			CapitalShare:    inst.CapitalShare,
			InterestShare:   inst.InterestShare,
		})
	}
	return resp
}

// previewLoan godoc
// @Summary Preview an installment plan
// @Description Computes the schedule for the requested terms without persisting anything
// @Tags loans
// @Accept json
// @Produce json
// @Param terms body dto.PreviewLoanRequest true "Loan terms"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid terms"
// @Router /loans/preview [post]
func (h *loanHandler) previewLoan(c *gin.Context) {
	var req dto.PreviewLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	schedule, err := h.loanService.Preview(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

// createLoan godoc
// @Summary Originate a loan
// @Description Disburses a loan: the full schedule is materialized and the disbursement entry posts atomically
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan terms"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid terms"
// @Failure 403 {object} handlers.ErrorResponse "Missing loan.manage permission"
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	loan, err := h.loanService.Originate(c.Request.Context(), caller, req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to originate loan", slog.String("error", err.Error()))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// voidLoan godoc
// @Summary Void an unpaid loan
// @Description Reverses the disbursement entry; loans with recorded payments cannot be voided
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 409 {object} handlers.ErrorResponse "Loan has payments or is not voidable"
// @Router /loans/{loanID}/void [post]
func (h *loanHandler) voidLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	loanID := c.Param("loanID")

	loan, err := h.loanService.Void(c.Request.Context(), caller, loanID)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to void loan", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		}
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// getLoan godoc
// @Summary Get a loan with its schedule
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} handlers.ErrorResponse "Loan not found"
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	loan, err := h.loanService.GetLoan(c.Request.Context(), c.Param("loanID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// listCustomerLoans godoc
// @Summary List a customer's loans
// @Tags loans
// @Produce json
// @Param customerID path int true "Customer ID"
// @Success 200 {array} dto.LoanResponse
// @Failure 404 {object} handlers.ErrorResponse "Customer not found"
// @Router /customers/{customerID}/loans [get]
func (h *loanHandler) listCustomerLoans(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid customer ID"})
		return
	}

	loans, err := h.loanService.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, errorBody(status, err))
		return
	}

	resp := []dto.LoanResponse{}
	for i := range loans {
		resp = append(resp, dto.ToLoanResponse(&loans[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// registerLoanRoutes registers loan routes.
func registerLoanRoutes(group *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)
	loans := group.Group("/loans")
	loans.POST("", h.createLoan)
	loans.POST("/preview", h.previewLoan)
	loans.GET("/:loanID", h.getLoan)
	loans.POST("/:loanID/void", h.voidLoan)

	group.GET("/customers/:customerID/loans", h.listCustomerLoans)
}
