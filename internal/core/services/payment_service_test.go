package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/core/services"
	"github.com/prestaflow/lending_backend/internal/dto"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockLoanRepo      *MockLoanRepository
	mockReferenceRepo *MockReferenceRepository
	mockLedgerRepo    *MockLedgerRepository
	service           portssvc.PaymentSvcFacade

	cashier     domain.CallerIdentity
	loanID      string
	installment domain.Installment
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockReferenceRepo = new(MockReferenceRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)

	authSvc := services.NewAuthService(new(MockUserRepository), "test-secret", "test-issuer", time.Hour)
	ledgerSvc := services.NewLedgerService(suite.mockLedgerRepo, authSvc)
	suite.service = services.NewPaymentService(suite.mockLoanRepo, suite.mockReferenceRepo, ledgerSvc, authSvc)

	suite.cashier = cashierCaller(42)
	suite.loanID = uuid.NewString()
	// One slice of the 1,000,000 / 4 installments / 20% plan.
	suite.installment = domain.Installment{
		InstallmentID:   uuid.NewString(),
		LoanID:          suite.loanID,
		Sequence:        2,
		ScheduledAmount: d("300000"),
		CapitalShare:    d("250000"),
		InterestShare:   d("50000"),
		PaidAmount:      d("0"),
		Status:          domain.InstallmentPending,
	}
}

func (suite *PaymentServiceTestSuite) expectLookups(ctx context.Context) {
	suite.mockReferenceRepo.On("FindPaymentMethodByID", ctx, int64(1)).
		Return(&domain.PaymentMethod{PaymentMethodID: 1, Name: "Efectivo"}, nil).Once()
	suite.mockLoanRepo.On("FindInstallmentByID", ctx, suite.installment.InstallmentID).
		Return(&suite.installment, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, suite.loanID).
		Return(&domain.Loan{LoanID: suite.loanID, Status: domain.LoanPending}, nil).Once()
}

// storedAfter is the installment as the repository persists it once the
// payment amount lands on the cumulative total.
func (suite *PaymentServiceTestSuite) storedAfter(paid string, status domain.InstallmentStatus) *domain.Installment {
	stored := suite.installment
	stored.PaidAmount = d(paid)
	stored.Status = status
	return &stored
}

// A 150,000 partial payment on a 250,000/50,000 installment splits 5:1 into
// 125,000 capital and 25,000 interest.
func (suite *PaymentServiceTestSuite) TestAllocate_PartialPaymentSplit() {
	ctx := context.Background()
	suite.expectLookups(ctx)

	var savedPayment domain.Payment
	var savedEntry domain.JournalEntry
	suite.mockLoanRepo.On("SavePaymentAllocation", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			savedPayment = args.Get(1).(domain.Payment)
			savedEntry = args.Get(2).(domain.JournalEntry)
		}).
		Return(suite.storedAfter("150000", domain.InstallmentPending), false, nil).Once()

	alloc, err := suite.service.Allocate(ctx, suite.cashier, dto.CreatePaymentRequest{
		InstallmentID: suite.installment.InstallmentID, PaymentMethodID: 1, Amount: d("150000"),
	})

	require.NoError(suite.T(), err)
	assert.True(suite.T(), alloc.CapitalPortion.Equal(d("125000")))
	assert.True(suite.T(), alloc.InterestPortion.Equal(d("25000")))
	assert.Equal(suite.T(), domain.LoanPending, alloc.LoanStatus)

	assert.True(suite.T(), savedPayment.Amount.Equal(d("150000")))
	assert.True(suite.T(), alloc.Installment.PaidAmount.Equal(d("150000")))
	assert.Equal(suite.T(), domain.InstallmentPending, alloc.Installment.Status)

	require.Len(suite.T(), savedEntry.Lines, 4)
	assert.Equal(suite.T(), domain.AccountCash, savedEntry.Lines[0].Account)
	assert.True(suite.T(), savedEntry.Lines[0].Debit.Equal(d("150000")))
	assert.Equal(suite.T(), domain.AccountReceivables, savedEntry.Lines[1].Account)
	assert.True(suite.T(), savedEntry.Lines[1].Credit.Equal(d("150000")))
	assert.Equal(suite.T(), domain.AccountInterestReceivable, savedEntry.Lines[2].Account)
	assert.True(suite.T(), savedEntry.Lines[2].Debit.Equal(d("25000")))
	assert.Equal(suite.T(), domain.AccountInterestIncome, savedEntry.Lines[3].Account)
	assert.True(suite.T(), savedEntry.Lines[3].Credit.Equal(d("25000")))
}

// Paying the last pending installment in full marks both the installment and
// the loan as paid in the same transaction.
func (suite *PaymentServiceTestSuite) TestAllocate_FullPaymentCompletesLoan() {
	ctx := context.Background()
	suite.expectLookups(ctx)
	suite.mockLoanRepo.On("SavePaymentAllocation", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry")).
		Return(suite.storedAfter("300000", domain.InstallmentPaid), true, nil).Once()

	alloc, err := suite.service.Allocate(ctx, suite.cashier, dto.CreatePaymentRequest{
		InstallmentID: suite.installment.InstallmentID, PaymentMethodID: 1, Amount: d("300000"),
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.InstallmentPaid, alloc.Installment.Status)
	assert.Equal(suite.T(), domain.LoanPaid, alloc.LoanStatus)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestAllocate_OtherInstallmentsStillPending() {
	ctx := context.Background()
	suite.expectLookups(ctx)
	suite.mockLoanRepo.On("SavePaymentAllocation", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry")).
		Return(suite.storedAfter("300000", domain.InstallmentPaid), false, nil).Once()

	alloc, err := suite.service.Allocate(ctx, suite.cashier, dto.CreatePaymentRequest{
		InstallmentID: suite.installment.InstallmentID, PaymentMethodID: 1, Amount: d("300000"),
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.InstallmentPaid, alloc.Installment.Status)
	assert.Equal(suite.T(), domain.LoanPending, alloc.LoanStatus)
}

// When another payment lands between the service's read and the repository
// transaction, the returned allocation carries the repository's cumulative
// total, not one recomputed from the stale read.
func (suite *PaymentServiceTestSuite) TestAllocate_ReportsStoredCumulativeTotal() {
	ctx := context.Background()
	suite.expectLookups(ctx)
	// Pre-read shows 0 paid; the locked re-read inside the transaction has
	// already absorbed a concurrent 150,000 payment.
	suite.mockLoanRepo.On("SavePaymentAllocation", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry")).
		Return(suite.storedAfter("300000", domain.InstallmentPaid), false, nil).Once()

	alloc, err := suite.service.Allocate(ctx, suite.cashier, dto.CreatePaymentRequest{
		InstallmentID: suite.installment.InstallmentID, PaymentMethodID: 1, Amount: d("150000"),
	})

	require.NoError(suite.T(), err)
	assert.True(suite.T(), alloc.Installment.PaidAmount.Equal(d("300000")))
	assert.Equal(suite.T(), domain.InstallmentPaid, alloc.Installment.Status)
}

func (suite *PaymentServiceTestSuite) TestAllocate_VoidedLoanRejected() {
	ctx := context.Background()
	suite.mockReferenceRepo.On("FindPaymentMethodByID", ctx, int64(1)).
		Return(&domain.PaymentMethod{PaymentMethodID: 1, Name: "Efectivo"}, nil).Once()
	suite.mockLoanRepo.On("FindInstallmentByID", ctx, suite.installment.InstallmentID).
		Return(&suite.installment, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, suite.loanID).
		Return(&domain.Loan{LoanID: suite.loanID, Status: domain.LoanVoided}, nil).Once()

	_, err := suite.service.Allocate(ctx, suite.cashier, dto.CreatePaymentRequest{
		InstallmentID: suite.installment.InstallmentID, PaymentMethodID: 1, Amount: d("1000"),
	})

	assert.ErrorIs(suite.T(), err, services.ErrLoanNotPayable)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SavePaymentAllocation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestAllocate_NonPositiveAmountRejected() {
	_, err := suite.service.Allocate(context.Background(), suite.cashier, dto.CreatePaymentRequest{
		InstallmentID: suite.installment.InstallmentID, PaymentMethodID: 1, Amount: d("0"),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
