package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo      *MockLoanRepository
	mockReferenceRepo *MockReferenceRepository
	mockLedgerRepo    *MockLedgerRepository
	service           portssvc.LoanSvcFacade

	admin domain.CallerIdentity
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockReferenceRepo = new(MockReferenceRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)

	authSvc := services.NewAuthService(new(MockUserRepository), "test-secret", "test-issuer", time.Hour)
	ledgerSvc := services.NewLedgerService(suite.mockLedgerRepo, authSvc)
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockReferenceRepo, ledgerSvc, authSvc)

	suite.admin = adminCaller()
}

func (suite *LoanServiceTestSuite) TestPreview_Success() {
	ctx := context.Background()
	suite.mockReferenceRepo.On("FindRateByID", ctx, int64(2)).
		Return(&domain.InterestRate{RateID: 2, Name: "Standard", Percent: d("20")}, nil).Once()

	schedule, err := suite.service.Preview(ctx, dto.PreviewLoanRequest{
		Principal: d("1000000"), InstallmentCount: 4, RateID: 2,
	})

	require.NoError(suite.T(), err)
	assert.True(suite.T(), schedule.TotalInterest.Equal(d("200000")))
	assert.True(suite.T(), schedule.TotalDue.Equal(d("1200000")))
	require.Len(suite.T(), schedule.Installments, 4)
	assert.True(suite.T(), schedule.Installments[0].ScheduledAmount.Equal(d("300000")))
}

func (suite *LoanServiceTestSuite) TestPreview_BadTermsRejected() {
	ctx := context.Background()
	suite.mockReferenceRepo.On("FindRateByID", ctx, int64(2)).
		Return(&domain.InterestRate{RateID: 2, Percent: d("20")}, nil).Once()

	_, err := suite.service.Preview(ctx, dto.PreviewLoanRequest{
		Principal: d("-5"), InstallmentCount: 4, RateID: 2,
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestOriginate_Success() {
	ctx := context.Background()
	suite.mockReferenceRepo.On("FindCustomerByID", ctx, int64(10)).
		Return(&domain.Customer{CustomerID: 10}, nil).Once()
	suite.mockReferenceRepo.On("FindRateByID", ctx, int64(2)).
		Return(&domain.InterestRate{RateID: 2, Percent: d("20")}, nil).Once()

	var savedLoan domain.Loan
	var savedEntry domain.JournalEntry
	suite.mockLoanRepo.On("CreateLoan", ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			savedLoan = args.Get(1).(domain.Loan)
			savedEntry = args.Get(2).(domain.JournalEntry)
		}).
		Return(nil).Once()

	loan, err := suite.service.Originate(ctx, suite.admin, dto.CreateLoanRequest{
		CustomerID: 10, RateID: 2, Principal: d("1000000"), InstallmentCount: 4, FirstDueDate: "2026-09-04",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LoanPending, loan.Status)
	assert.True(suite.T(), loan.TotalDue.Equal(d("1200000")))
	require.Len(suite.T(), savedLoan.Installments, 4)
	assert.Equal(suite.T(), 1, savedLoan.Installments[0].Sequence)
	assert.Equal(suite.T(), "2026-09-04", savedLoan.Installments[0].DueDate.Format("2006-01-02"))
	assert.Equal(suite.T(), "2026-09-25", savedLoan.Installments[3].DueDate.Format("2006-01-02"))

	// Disbursement recognizes the deferred interest up front.
	require.Len(suite.T(), savedEntry.Lines, 3)
	assert.Equal(suite.T(), domain.AccountReceivables, savedEntry.Lines[0].Account)
	assert.True(suite.T(), savedEntry.Lines[0].Debit.Equal(d("1200000")))
	assert.Equal(suite.T(), domain.AccountCash, savedEntry.Lines[1].Account)
	assert.True(suite.T(), savedEntry.Lines[1].Credit.Equal(d("1000000")))
	assert.Equal(suite.T(), domain.AccountInterestReceivable, savedEntry.Lines[2].Account)
	assert.True(suite.T(), savedEntry.Lines[2].Credit.Equal(d("200000")))
}

func (suite *LoanServiceTestSuite) TestOriginate_RequiresPermission() {
	caller := domain.CallerIdentity{UserID: 8, Roles: []string{"Cashier"}, Permissions: []string{domain.PermSessionManage}}

	_, err := suite.service.Originate(context.Background(), caller, dto.CreateLoanRequest{
		CustomerID: 10, RateID: 2, Principal: d("1000"), InstallmentCount: 2,
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "CreateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestVoid_Success() {
	ctx := context.Background()
	loanID := uuid.NewString()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(&domain.Loan{
		LoanID: loanID, Principal: d("1000000"), TotalDue: d("1200000"), Status: domain.LoanPending,
	}, nil).Once()
	suite.mockLoanRepo.On("TotalPaid", ctx, loanID).Return(decimal.Zero, nil).Once()

	var savedEntry domain.JournalEntry
	suite.mockLoanRepo.On("VoidLoan", ctx, loanID, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { savedEntry = args.Get(2).(domain.JournalEntry) }).
		Return(nil).Once()

	loan, err := suite.service.Void(ctx, suite.admin, loanID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LoanVoided, loan.Status)

	// Exact mirror of the disbursement entry.
	require.Len(suite.T(), savedEntry.Lines, 3)
	assert.Equal(suite.T(), domain.AccountCash, savedEntry.Lines[0].Account)
	assert.True(suite.T(), savedEntry.Lines[0].Debit.Equal(d("1000000")))
	assert.Equal(suite.T(), domain.AccountReceivables, savedEntry.Lines[1].Account)
	assert.True(suite.T(), savedEntry.Lines[1].Credit.Equal(d("1200000")))
	assert.Equal(suite.T(), domain.AccountInterestReceivable, savedEntry.Lines[2].Account)
	assert.True(suite.T(), savedEntry.Lines[2].Debit.Equal(d("200000")))
}

func (suite *LoanServiceTestSuite) TestVoid_BlockedAfterPayment() {
	ctx := context.Background()
	loanID := uuid.NewString()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(&domain.Loan{
		LoanID: loanID, Principal: d("1000000"), TotalDue: d("1200000"), Status: domain.LoanPending,
	}, nil).Once()
	suite.mockLoanRepo.On("TotalPaid", ctx, loanID).Return(d("150000"), nil).Once()

	_, err := suite.service.Void(ctx, suite.admin, loanID)

	assert.ErrorIs(suite.T(), err, services.ErrLoanHasPayments)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "VoidLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestVoid_BlockedWhenNotPending() {
	ctx := context.Background()
	loanID := uuid.NewString()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(&domain.Loan{
		LoanID: loanID, Status: domain.LoanVoided,
	}, nil).Once()

	_, err := suite.service.Void(ctx, suite.admin, loanID)

	assert.ErrorIs(suite.T(), err, services.ErrLoanNotVoidable)
}

func (suite *LoanServiceTestSuite) TestGetLoan_LoadsSchedule() {
	ctx := context.Background()
	loanID := uuid.NewString()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(&domain.Loan{LoanID: loanID, Status: domain.LoanPending}, nil).Once()
	suite.mockLoanRepo.On("FindInstallmentsByLoanID", ctx, loanID).Return([]domain.Installment{
		{InstallmentID: uuid.NewString(), LoanID: loanID, Sequence: 1},
		{InstallmentID: uuid.NewString(), LoanID: loanID, Sequence: 2},
	}, nil).Once()

	loan, err := suite.service.GetLoan(ctx, loanID)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), loan.Installments, 2)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
