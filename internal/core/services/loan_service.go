package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
	"github.com/prestaflow/lending_backend/internal/utils/amortization"
)

var (
	// ErrLoanHasPayments means a void was attempted after money moved.
	ErrLoanHasPayments = fmt.Errorf("%w: loan has recorded payments and cannot be voided", apperrors.ErrConflict)
	// ErrLoanNotVoidable means the loan already left the PENDING state.
	ErrLoanNotVoidable = fmt.Errorf("%w: loan is not in a voidable state", apperrors.ErrConflict)
)

type loanService struct {
	loanRepo      portsrepo.LoanRepositoryFacade
	referenceRepo portsrepo.ReferenceRepositoryFacade
	ledgerSvc     portssvc.LedgerSvcFacade
	authSvc       portssvc.AuthSvcFacade
}

// NewLoanService creates the loan origination service.
func NewLoanService(
	loanRepo portsrepo.LoanRepositoryFacade,
	referenceRepo portsrepo.ReferenceRepositoryFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	authSvc portssvc.AuthSvcFacade,
) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:      loanRepo,
		referenceRepo: referenceRepo,
		ledgerSvc:     ledgerSvc,
		authSvc:       authSvc,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// parseDueDate parses the optional YYYY-MM-DD first due date. A zero time
// lets the schedule engine apply its one-week default.
func parseDueDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: first_due_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	return t.UTC(), nil
}

// Preview computes the schedule for the requested terms without persisting
// anything.
func (s *loanService) Preview(ctx context.Context, req dto.PreviewLoanRequest) (*amortization.Schedule, error) {
	rate, err := s.referenceRepo.FindRateByID(ctx, req.RateID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve interest rate %d: %w", req.RateID, err)
	}
	firstDue, err := parseDueDate(req.FirstDueDate)
	if err != nil {
		return nil, err
	}
	schedule, err := amortization.ComputeSchedule(req.Principal, req.InstallmentCount, rate.Percent, firstDue)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return schedule, nil
}

// Originate disburses a loan: the full schedule is materialized up front and
// the disbursement entry recognizes the deferred interest at origination.
// The loan rows and the entry commit in one transaction.
func (s *loanService) Originate(ctx context.Context, caller domain.CallerIdentity, req dto.CreateLoanRequest) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authSvc.Authorize(caller, domain.PermLoanManage); err != nil {
		return nil, err
	}
	if _, err := s.referenceRepo.FindCustomerByID(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("failed to resolve customer %d: %w", req.CustomerID, err)
	}
	rate, err := s.referenceRepo.FindRateByID(ctx, req.RateID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve interest rate %d: %w", req.RateID, err)
	}
	firstDue, err := parseDueDate(req.FirstDueDate)
	if err != nil {
		return nil, err
	}
	schedule, err := amortization.ComputeSchedule(req.Principal, req.InstallmentCount, rate.Percent, firstDue)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:           uuid.NewString(),
		CustomerID:       req.CustomerID,
		OriginatedBy:     caller.UserID,
		RateID:           req.RateID,
		Principal:        schedule.Principal,
		TotalDue:         schedule.TotalDue,
		InstallmentCount: req.InstallmentCount,
		DisbursedAt:      now,
		Status:           domain.LoanPending,
		Installments:     make([]domain.Installment, len(schedule.Installments)),
	}
	for i, draft := range schedule.Installments {
		loan.Installments[i] = domain.Installment{
			InstallmentID:   uuid.NewString(),
			LoanID:          loan.LoanID,
			Sequence:        draft.Sequence,
			DueDate:         draft.DueDate,
			ScheduledAmount: draft.ScheduledAmount,
			CapitalShare:    draft.CapitalShare,
			InterestShare:   draft.InterestShare,
			Status:          domain.InstallmentPending,
		}
	}

	lines := []domain.DraftLine{
		{Account: domain.AccountReceivables, Debit: loan.TotalDue},
		{Account: domain.AccountCash, Credit: loan.Principal},
	}
	if schedule.TotalInterest.IsPositive() {
		lines = append(lines, domain.DraftLine{Account: domain.AccountInterestReceivable, Credit: schedule.TotalInterest})
	}
	entry, err := s.ledgerSvc.PrepareEntry(
		fmt.Sprintf("Loan %s disbursement to customer %d", loan.LoanID, loan.CustomerID),
		caller.UserID,
		lines,
	)
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.CreateLoan(ctx, loan, *entry); err != nil {
		logger.Error("Failed to create loan", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	logger.Info("Loan originated",
		slog.String("loan_id", loan.LoanID),
		slog.Int64("customer_id", loan.CustomerID),
		slog.String("principal", loan.Principal.String()),
		slog.String("total_due", loan.TotalDue.String()))
	return &loan, nil
}

// Void reverses an unpaid loan with an exact mirror of the disbursement
// entry. A loan with any recorded payment cannot be voided.
func (s *loanService) Void(ctx context.Context, caller domain.CallerIdentity, loanID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authSvc.Authorize(caller, domain.PermLoanManage); err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanPending {
		return nil, ErrLoanNotVoidable
	}
	totalPaid, err := s.loanRepo.TotalPaid(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to check loan payments: %w", err)
	}
	if totalPaid.IsPositive() {
		return nil, ErrLoanHasPayments
	}

	interest := loan.TotalInterest()
	lines := []domain.DraftLine{
		{Account: domain.AccountCash, Debit: loan.Principal},
		{Account: domain.AccountReceivables, Credit: loan.TotalDue},
	}
	if interest.IsPositive() {
		lines = append(lines, domain.DraftLine{Account: domain.AccountInterestReceivable, Debit: interest})
	}
	entry, err := s.ledgerSvc.PrepareEntry(
		fmt.Sprintf("Loan %s void reversal", loan.LoanID),
		caller.UserID,
		lines,
	)
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.VoidLoan(ctx, loanID, *entry); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrLoanNotVoidable
		}
		logger.Error("Failed to void loan", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to void loan: %w", err)
	}

	loan.Status = domain.LoanVoided
	logger.Info("Loan voided", slog.String("loan_id", loan.LoanID), slog.Int64("voided_by", caller.UserID))
	return loan, nil
}

// GetLoan retrieves a loan with its full schedule.
func (s *loanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	installments, err := s.loanRepo.FindInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments for loan %s: %w", loanID, err)
	}
	loan.Installments = installments
	return loan, nil
}

// ListByCustomer lists a borrower's loans, newest first.
func (s *loanService) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Loan, error) {
	if _, err := s.referenceRepo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to resolve customer %d: %w", customerID, err)
	}
	return s.loanRepo.ListLoansByCustomer(ctx, customerID)
}
