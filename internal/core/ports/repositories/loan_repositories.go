package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// LoanRepositoryFacade persists loans, their schedules and payments.
type LoanRepositoryFacade interface {
	// CreateLoan inserts the loan, its installments and the disbursement
	// entry in one transaction.
	CreateLoan(ctx context.Context, loan domain.Loan, entry domain.JournalEntry) error

	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	FindInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error)
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)
	ListLoansByCustomer(ctx context.Context, customerID int64) ([]domain.Loan, error)

	// TotalPaid sums cumulative paid amounts across the loan's installments.
	TotalPaid(ctx context.Context, loanID string) (decimal.Decimal, error)

	// VoidLoan sets the loan VOIDED and inserts the reversing entry in one
	// transaction, guarded by the loan's current status.
	VoidLoan(ctx context.Context, loanID string, entry domain.JournalEntry) error

	// SavePaymentAllocation inserts the payment row and the ledger entry, and
	// applies the payment amount to the installment's cumulative paid total,
	// all in one transaction. The installment row is locked and re-read inside
	// the transaction so concurrent payments serialize instead of overwriting
	// each other's increments. When the payment completes the loan's last
	// installment the loan is marked PAID in the same transaction. Returns the
	// installment as stored after the update and whether the loan completed.
	// A failure anywhere rolls back everything: a payment is never observable
	// without its ledger counterpart.
	SavePaymentAllocation(ctx context.Context, payment domain.Payment, entry domain.JournalEntry) (*domain.Installment, bool, error)
}
