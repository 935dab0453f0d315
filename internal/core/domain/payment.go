package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one append-only cash collection against an installment.
// There is no duplicate-submission guard: a retried request records a
// second payment. Distinct receipt references are the caller's concern.
type Payment struct {
	PaymentID       string          `json:"paymentID"`
	InstallmentID   string          `json:"installmentID"`
	PaymentMethodID int64           `json:"paymentMethodID"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAt          time.Time       `json:"paidAt"`
	ReceiptRef      string          `json:"receiptRef,omitempty"`
}

// Allocation is the capital/interest split of a payment as computed by the
// allocator. CapitalPortion + InterestPortion == Amount within one cent.
type Allocation struct {
	Payment         Payment         `json:"payment"`
	CapitalPortion  decimal.Decimal `json:"capitalPortion"`
	InterestPortion decimal.Decimal `json:"interestPortion"`
	Installment     Installment     `json:"installment"`
	LoanStatus      LoanStatus      `json:"loanStatus"`
	EntryID         string          `json:"entryID"`
}
