package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// PreviewLoanRequest computes a schedule without persisting anything.
type PreviewLoanRequest struct {
	Principal        decimal.Decimal `json:"principal" binding:"required"`
	InstallmentCount int             `json:"installment_count" binding:"required"`
	RateID           int64           `json:"rate_id" binding:"required"`
	FirstDueDate     string          `json:"first_due_date"` // YYYY-MM-DD, optional
}

// CreateLoanRequest originates a loan with its full schedule.
type CreateLoanRequest struct {
	CustomerID       int64           `json:"customer_id" binding:"required"`
	RateID           int64           `json:"rate_id" binding:"required"`
	Principal        decimal.Decimal `json:"principal" binding:"required"`
	InstallmentCount int             `json:"installment_count" binding:"required"`
	FirstDueDate     string          `json:"first_due_date"` // YYYY-MM-DD, optional
}

// InstallmentResponse is one scheduled repayment slice.
type InstallmentResponse struct {
	InstallmentID   string          `json:"installment_id,omitempty"`
	Sequence        int             `json:"installment_number"`
	DueDate         string          `json:"due_date"` // YYYY-MM-DD
	ScheduledAmount decimal.Decimal `json:"scheduled_amount"`
	CapitalShare    decimal.Decimal `json:"capital_share"`
	InterestShare   decimal.Decimal `json:"interest_share"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Status          string          `json:"status,omitempty"`
}

// ScheduleResponse is the computed plan returned by the preview operation.
type ScheduleResponse struct {
	Principal        decimal.Decimal       `json:"principal"`
	RatePercent      decimal.Decimal       `json:"rate_percent"`
	TotalInterest    decimal.Decimal       `json:"total_interest"`
	TotalDue         decimal.Decimal       `json:"total_due"`
	InstallmentCount int                   `json:"installment_count"`
	InstallmentValue decimal.Decimal       `json:"installment_value"`
	Plan             []InstallmentResponse `json:"plan"`
}

// LoanResponse is the read shape of a loan with its schedule.
type LoanResponse struct {
	LoanID           string                `json:"loan_id"`
	CustomerID       int64                 `json:"customer_id"`
	OriginatedBy     int64                 `json:"originated_by"`
	RateID           int64                 `json:"rate_id"`
	Principal        decimal.Decimal       `json:"principal"`
	TotalDue         decimal.Decimal       `json:"total_due"`
	InstallmentCount int                   `json:"installment_count"`
	DisbursedAt      time.Time             `json:"disbursed_at"`
	Status           string                `json:"status"`
	Installments     []InstallmentResponse `json:"installments,omitempty"`
}

// ToInstallmentResponse converts a domain installment to its read shape.
func ToInstallmentResponse(inst *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:   inst.InstallmentID,
		Sequence:        inst.Sequence,
		DueDate:         inst.DueDate.Format("2006-01-02"),
		ScheduledAmount: inst.ScheduledAmount,
		CapitalShare:    inst.CapitalShare,
		InterestShare:   inst.InterestShare,
		PaidAmount:      inst.PaidAmount,
		Status:          string(inst.Status),
	}
}

// ToLoanResponse converts a domain loan (with installments) to its read shape.
func ToLoanResponse(loan *domain.Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:           loan.LoanID,
		CustomerID:       loan.CustomerID,
		OriginatedBy:     loan.OriginatedBy,
		RateID:           loan.RateID,
		Principal:        loan.Principal,
		TotalDue:         loan.TotalDue,
		InstallmentCount: loan.InstallmentCount,
		DisbursedAt:      loan.DisbursedAt,
		Status:           string(loan.Status),
	}
	for i := range loan.Installments {
		resp.Installments = append(resp.Installments, ToInstallmentResponse(&loan.Installments[i]))
	}
	return resp
}
