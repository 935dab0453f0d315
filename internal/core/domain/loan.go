package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the loan lifecycle state.
type LoanStatus string

const (
	LoanPending LoanStatus = "PENDING"
	LoanPaid    LoanStatus = "PAID"
	LoanVoided  LoanStatus = "VOIDED"
)

// InstallmentStatus is the repayment state of a single installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
)

// Customer is the borrower reference. CRUD lives outside the core; the
// core only verifies existence at origination.
type Customer struct {
	CustomerID int64  `json:"customerID"`
	Document   string `json:"document"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// InterestRate is a named percentage used at origination. Later edits to a
// rate do not retroactively change existing loans: the loan stores its own
// computed totals.
type InterestRate struct {
	RateID      int64           `json:"rateID"`
	Name        string          `json:"name"`
	Percent     decimal.Decimal `json:"percent"`
	Description string          `json:"description"`
}

// Loan is a disbursed credit with its full schedule created at origination.
type Loan struct {
	LoanID           string          `json:"loanID"`
	CustomerID       int64           `json:"customerID"`
	OriginatedBy     int64           `json:"originatedBy"`
	RateID           int64           `json:"rateID"`
	Principal        decimal.Decimal `json:"principal"`
	TotalDue         decimal.Decimal `json:"totalDue"` // principal + total interest
	InstallmentCount int             `json:"installmentCount"`
	DisbursedAt      time.Time       `json:"disbursedAt"`
	Status           LoanStatus      `json:"status"`
	Installments     []Installment   `json:"installments,omitempty"`
}

// TotalInterest is the deferred interest recognized up front at origination.
func (l Loan) TotalInterest() decimal.Decimal {
	return l.TotalDue.Sub(l.Principal)
}

// Installment is one scheduled repayment slice of a loan.
type Installment struct {
	InstallmentID   string            `json:"installmentID"`
	LoanID          string            `json:"loanID"`
	Sequence        int               `json:"sequence"` // 1..N
	DueDate         time.Time         `json:"dueDate"`
	ScheduledAmount decimal.Decimal   `json:"scheduledAmount"` // capital + interest share
	CapitalShare    decimal.Decimal   `json:"capitalShare"`
	InterestShare   decimal.Decimal   `json:"interestShare"`
	PaidAmount      decimal.Decimal   `json:"paidAmount"` // cumulative, may exceed scheduled
	Status          InstallmentStatus `json:"status"`
}
