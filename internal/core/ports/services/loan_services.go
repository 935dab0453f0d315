package services

import (
	"context"

	"github.com/prestaflow/lending_backend/internal/core/domain"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/utils/amortization"
)

// LoanSvcFacade handles origination, void and schedule reads.
type LoanSvcFacade interface {
	Preview(ctx context.Context, req dto.PreviewLoanRequest) (*amortization.Schedule, error)
	Originate(ctx context.Context, caller domain.CallerIdentity, req dto.CreateLoanRequest) (*domain.Loan, error)
	Void(ctx context.Context, caller domain.CallerIdentity, loanID string) (*domain.Loan, error)
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Loan, error)
}

// PaymentSvcFacade allocates cash payments against installments.
type PaymentSvcFacade interface {
	Allocate(ctx context.Context, caller domain.CallerIdentity, req dto.CreatePaymentRequest) (*domain.Allocation, error)
}
