package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// CreatePaymentRequest records a payment against an installment. There is
// no idempotency key: a retried request records a second payment.
type CreatePaymentRequest struct {
	InstallmentID   string          `json:"installment_id" binding:"required"`
	PaymentMethodID int64           `json:"payment_method_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	ReceiptRef      string          `json:"receipt_ref"`
}

// PaymentResponse returns the recorded payment, its capital/interest split
// and the updated installment and loan state.
type PaymentResponse struct {
	PaymentID       string              `json:"payment_id"`
	InstallmentID   string              `json:"installment_id"`
	PaymentMethodID int64               `json:"payment_method_id"`
	Amount          decimal.Decimal     `json:"amount"`
	CapitalPortion  decimal.Decimal     `json:"capital_portion"`
	InterestPortion decimal.Decimal     `json:"interest_portion"`
	PaidAt          time.Time           `json:"paid_at"`
	ReceiptRef      string              `json:"receipt_ref,omitempty"`
	EntryID         string              `json:"entry_id"`
	Installment     InstallmentResponse `json:"installment"`
	LoanStatus      string              `json:"loan_status"`
}

// ToPaymentResponse converts an allocation result to its wire shape.
func ToPaymentResponse(a *domain.Allocation) PaymentResponse {
	return PaymentResponse{
		PaymentID:       a.Payment.PaymentID,
		InstallmentID:   a.Payment.InstallmentID,
		PaymentMethodID: a.Payment.PaymentMethodID,
		Amount:          a.Payment.Amount,
		CapitalPortion:  a.CapitalPortion,
		InterestPortion: a.InterestPortion,
		PaidAt:          a.Payment.PaidAt,
		ReceiptRef:      a.Payment.ReceiptRef,
		EntryID:         a.EntryID,
		Installment:     ToInstallmentResponse(&a.Installment),
		LoanStatus:      string(a.LoanStatus),
	}
}
