package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// ErrLoanNotPayable means a payment was attempted against a voided loan.
var ErrLoanNotPayable = fmt.Errorf("%w: loan is voided and does not accept payments", apperrors.ErrConflict)

type paymentService struct {
	loanRepo      portsrepo.LoanRepositoryFacade
	referenceRepo portsrepo.ReferenceRepositoryFacade
	ledgerSvc     portssvc.LedgerSvcFacade
	authSvc       portssvc.AuthSvcFacade
}

// NewPaymentService creates the payment allocator.
func NewPaymentService(
	loanRepo portsrepo.LoanRepositoryFacade,
	referenceRepo portsrepo.ReferenceRepositoryFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	authSvc portssvc.AuthSvcFacade,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		loanRepo:      loanRepo,
		referenceRepo: referenceRepo,
		ledgerSvc:     ledgerSvc,
		authSvc:       authSvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// splitPortions divides a payment between capital and interest in proportion
// to the installment's stored shares. The interest portion takes the rounding
// remainder so the two always sum to the amount. An installment with a zero
// scheduled amount allocates everything to capital.
func splitPortions(amount decimal.Decimal, inst *domain.Installment) (capital, interest decimal.Decimal) {
	if inst.ScheduledAmount.IsZero() {
		return amount, decimal.Zero
	}
	capital = amount.Mul(inst.CapitalShare).Div(inst.ScheduledAmount).Round(2)
	interest = amount.Sub(capital)
	return capital, interest
}

// Allocate records a payment against an installment: the split, the ledger
// entry, the installment progress and any loan completion commit atomically.
func (s *paymentService) Allocate(ctx context.Context, caller domain.CallerIdentity, req dto.CreatePaymentRequest) (*domain.Allocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authSvc.Authorize(caller, domain.PermPaymentRecord); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}
	if _, err := s.referenceRepo.FindPaymentMethodByID(ctx, req.PaymentMethodID); err != nil {
		return nil, fmt.Errorf("failed to resolve payment method %d: %w", req.PaymentMethodID, err)
	}

	installment, err := s.loanRepo.FindInstallmentByID(ctx, req.InstallmentID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.FindLoanByID(ctx, installment.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load loan %s: %w", installment.LoanID, err)
	}
	if loan.Status == domain.LoanVoided {
		return nil, ErrLoanNotPayable
	}

	amount := req.Amount.Round(2)
	capital, interest := splitPortions(amount, installment)

	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		InstallmentID:   installment.InstallmentID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          amount,
		PaidAt:          time.Now().UTC(),
		ReceiptRef:      req.ReceiptRef,
	}

	lines := []domain.DraftLine{
		{Account: domain.AccountCash, Debit: amount},
		{Account: domain.AccountReceivables, Credit: amount},
	}
	if interest.IsPositive() {
		// Realize the collected slice of the deferred interest.
		lines = append(lines,
			domain.DraftLine{Account: domain.AccountInterestReceivable, Debit: interest},
			domain.DraftLine{Account: domain.AccountInterestIncome, Credit: interest},
		)
	}
	entry, err := s.ledgerSvc.PrepareEntry(
		fmt.Sprintf("Payment on installment %d of loan %s", installment.Sequence, loan.LoanID),
		caller.UserID,
		lines,
	)
	if err != nil {
		return nil, err
	}

	// The repository re-reads the installment under a row lock, so the
	// cumulative total and any loan completion reflect concurrent payments.
	updated, loanPaid, err := s.loanRepo.SavePaymentAllocation(ctx, payment, *entry)
	if err != nil {
		logger.Error("Failed to save payment allocation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payment allocation: %w", err)
	}

	loanStatus := loan.Status
	if loanPaid {
		loanStatus = domain.LoanPaid
	}

	logger.Info("Payment allocated",
		slog.String("payment_id", payment.PaymentID),
		slog.String("loan_id", loan.LoanID),
		slog.String("amount", amount.String()),
		slog.String("capital", capital.String()),
		slog.String("interest", interest.String()))

	return &domain.Allocation{
		Payment:         payment,
		CapitalPortion:  capital,
		InterestPortion: interest,
		Installment:     *updated,
		LoanStatus:      loanStatus,
		EntryID:         entry.EntryID,
	}, nil
}
