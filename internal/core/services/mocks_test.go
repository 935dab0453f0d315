package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) AccountBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) CashFlowSince(ctx context.Context, from time.Time) ([]domain.CashFlowPoint, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashFlowPoint), args.Error(1)
}

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

var _ portsrepo.SessionRepositoryFacade = (*MockSessionRepository)(nil)

func (m *MockSessionRepository) CreateSession(ctx context.Context, session domain.RegisterSession, opening *domain.RegisterMovement, entry *domain.JournalEntry) error {
	args := m.Called(ctx, session, opening, entry)
	return args.Error(0)
}

func (m *MockSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}

func (m *MockSessionRepository) FindOpenSessionByCashier(ctx context.Context, cashierID int64) (*domain.RegisterSession, error) {
	args := m.Called(ctx, cashierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}

func (m *MockSessionRepository) FindOpenSessionByTill(ctx context.Context, tillID int64) (*domain.RegisterSession, error) {
	args := m.Called(ctx, tillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterSession), args.Error(1)
}

func (m *MockSessionRepository) SaveMovement(ctx context.Context, movement domain.RegisterMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockSessionRepository) ListMovementsBySession(ctx context.Context, sessionID string) ([]domain.RegisterMovement, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegisterMovement), args.Error(1)
}

func (m *MockSessionRepository) MarkDeclaredClosed(ctx context.Context, session domain.RegisterSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) MarkConfirmed(ctx context.Context, session domain.RegisterSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) ListSessions(ctx context.Context, filter portsrepo.SessionFilter, limit int, nextToken *string) ([]domain.RegisterSession, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.RegisterSession), returnedNextToken, args.Error(2)
}

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

var _ portsrepo.LoanRepositoryFacade = (*MockLoanRepository)(nil)

func (m *MockLoanRepository) CreateLoan(ctx context.Context, loan domain.Loan, entry domain.JournalEntry) error {
	args := m.Called(ctx, loan, entry)
	return args.Error(0)
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockLoanRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByCustomer(ctx context.Context, customerID int64) ([]domain.Loan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) TotalPaid(ctx context.Context, loanID string) (decimal.Decimal, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLoanRepository) VoidLoan(ctx context.Context, loanID string, entry domain.JournalEntry) error {
	args := m.Called(ctx, loanID, entry)
	return args.Error(0)
}

func (m *MockLoanRepository) SavePaymentAllocation(ctx context.Context, payment domain.Payment, entry domain.JournalEntry) (*domain.Installment, bool, error) {
	args := m.Called(ctx, payment, entry)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Installment), args.Bool(1), args.Error(2)
}

// --- Mock ReferenceRepository ---
type MockReferenceRepository struct {
	mock.Mock
}

var _ portsrepo.ReferenceRepositoryFacade = (*MockReferenceRepository)(nil)

func (m *MockReferenceRepository) FindTillByID(ctx context.Context, tillID int64) (*domain.Till, error) {
	args := m.Called(ctx, tillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Till), args.Error(1)
}

func (m *MockReferenceRepository) FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Branch), args.Error(1)
}

func (m *MockReferenceRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockReferenceRepository) FindRateByID(ctx context.Context, rateID int64) (*domain.InterestRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestRate), args.Error(1)
}

func (m *MockReferenceRepository) FindPaymentMethodByID(ctx context.Context, paymentMethodID int64) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockReferenceRepository) FindMovementTypeByName(ctx context.Context, name string) (*domain.MovementType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MovementType), args.Error(1)
}

func (m *MockReferenceRepository) ListTills(ctx context.Context) ([]domain.Till, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Till), args.Error(1)
}

func (m *MockReferenceRepository) ListRates(ctx context.Context) ([]domain.InterestRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterestRate), args.Error(1)
}

func (m *MockReferenceRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

func (m *MockReferenceRepository) ListMovementTypes(ctx context.Context) ([]domain.MovementType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MovementType), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Shared test fixtures ---

// adminCaller holds the administrative override.
func adminCaller() domain.CallerIdentity {
	return domain.CallerIdentity{UserID: 1, Username: "admin", Roles: []string{domain.AdminRole}}
}

// cashierCaller holds the register permissions only.
func cashierCaller(userID int64) domain.CallerIdentity {
	return domain.CallerIdentity{
		UserID:      userID,
		Username:    "cashier",
		Roles:       []string{"Cashier"},
		Permissions: []string{domain.PermSessionManage, domain.PermPaymentRecord},
	}
}

// d parses a decimal literal for test fixtures.
func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
