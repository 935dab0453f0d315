package repositories

import (
	"context"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// ReferenceRepositoryFacade reads the catalog tables (tills, branches,
// customers, rates, payment methods, movement types). These rows are seed
// data; the core only verifies existence and classifies names.
type ReferenceRepositoryFacade interface {
	FindTillByID(ctx context.Context, tillID int64) (*domain.Till, error)
	FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error)
	FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error)
	FindRateByID(ctx context.Context, rateID int64) (*domain.InterestRate, error)
	FindPaymentMethodByID(ctx context.Context, paymentMethodID int64) (*domain.PaymentMethod, error)

	// FindMovementTypeByName matches case-insensitively on the row name.
	FindMovementTypeByName(ctx context.Context, name string) (*domain.MovementType, error)

	ListTills(ctx context.Context) ([]domain.Till, error)
	ListRates(ctx context.Context) ([]domain.InterestRate, error)
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	ListMovementTypes(ctx context.Context) ([]domain.MovementType, error)
}

// UserRepositoryFacade resolves stored identities. The permission set is
// resolved through the role/permission association tables in one query.
type UserRepositoryFacade interface {
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)
}
