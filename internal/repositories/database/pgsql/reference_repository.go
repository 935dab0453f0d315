package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
)

type PgxReferenceRepository struct {
	BaseRepository
}

// newPgxReferenceRepository creates the read-only repository for catalog
// tables.
func newPgxReferenceRepository(pool *pgxpool.Pool) *PgxReferenceRepository {
	return &PgxReferenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReferenceRepositoryFacade = (*PgxReferenceRepository)(nil)

func (r *PgxReferenceRepository) FindTillByID(ctx context.Context, tillID int64) (*domain.Till, error) {
	query := `SELECT till_id, description, expedition_code, status FROM tills WHERE till_id = $1;`
	var t domain.Till
	err := r.Pool.QueryRow(ctx, query, tillID).Scan(&t.TillID, &t.Description, &t.ExpeditionCode, &t.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: till %d", apperrors.ErrNotFound, tillID)
		}
		return nil, fmt.Errorf("failed to query till %d: %w", tillID, err)
	}
	return &t, nil
}

func (r *PgxReferenceRepository) FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error) {
	query := `SELECT branch_id, name FROM branches WHERE branch_id = $1;`
	var b domain.Branch
	err := r.Pool.QueryRow(ctx, query, branchID).Scan(&b.BranchID, &b.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: branch %d", apperrors.ErrNotFound, branchID)
		}
		return nil, fmt.Errorf("failed to query branch %d: %w", branchID, err)
	}
	return &b, nil
}

func (r *PgxReferenceRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	query := `SELECT customer_id, document, first_name, last_name, phone, address FROM customers WHERE customer_id = $1;`
	var c domain.Customer
	err := r.Pool.QueryRow(ctx, query, customerID).Scan(&c.CustomerID, &c.Document, &c.FirstName, &c.LastName, &c.Phone, &c.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to query customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (r *PgxReferenceRepository) FindRateByID(ctx context.Context, rateID int64) (*domain.InterestRate, error) {
	query := `SELECT rate_id, name, percent, description FROM interest_rates WHERE rate_id = $1;`
	var rate domain.InterestRate
	err := r.Pool.QueryRow(ctx, query, rateID).Scan(&rate.RateID, &rate.Name, &rate.Percent, &rate.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: interest rate %d", apperrors.ErrNotFound, rateID)
		}
		return nil, fmt.Errorf("failed to query interest rate %d: %w", rateID, err)
	}
	return &rate, nil
}

func (r *PgxReferenceRepository) FindPaymentMethodByID(ctx context.Context, paymentMethodID int64) (*domain.PaymentMethod, error) {
	query := `SELECT payment_method_id, name FROM payment_methods WHERE payment_method_id = $1;`
	var pm domain.PaymentMethod
	err := r.Pool.QueryRow(ctx, query, paymentMethodID).Scan(&pm.PaymentMethodID, &pm.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment method %d", apperrors.ErrNotFound, paymentMethodID)
		}
		return nil, fmt.Errorf("failed to query payment method %d: %w", paymentMethodID, err)
	}
	return &pm, nil
}

// FindMovementTypeByName matches case-insensitively on the row name.
func (r *PgxReferenceRepository) FindMovementTypeByName(ctx context.Context, name string) (*domain.MovementType, error) {
	query := `SELECT movement_type_id, name FROM movement_types WHERE LOWER(name) = LOWER($1);`
	var mt domain.MovementType
	err := r.Pool.QueryRow(ctx, query, name).Scan(&mt.MovementTypeID, &mt.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: movement type %q", apperrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to query movement type %q: %w", name, err)
	}
	return &mt, nil
}

func (r *PgxReferenceRepository) ListTills(ctx context.Context) ([]domain.Till, error) {
	query := `SELECT till_id, description, expedition_code, status FROM tills ORDER BY till_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tills: %w", err)
	}
	defer rows.Close()

	tills := []domain.Till{}
	for rows.Next() {
		var t domain.Till
		if err := rows.Scan(&t.TillID, &t.Description, &t.ExpeditionCode, &t.Status); err != nil {
			return nil, fmt.Errorf("failed to scan till row: %w", err)
		}
		tills = append(tills, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating till rows: %w", err)
	}
	return tills, nil
}

func (r *PgxReferenceRepository) ListRates(ctx context.Context) ([]domain.InterestRate, error) {
	query := `SELECT rate_id, name, percent, description FROM interest_rates ORDER BY rate_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query interest rates: %w", err)
	}
	defer rows.Close()

	rates := []domain.InterestRate{}
	for rows.Next() {
		var rate domain.InterestRate
		if err := rows.Scan(&rate.RateID, &rate.Name, &rate.Percent, &rate.Description); err != nil {
			return nil, fmt.Errorf("failed to scan interest rate row: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interest rate rows: %w", err)
	}
	return rates, nil
}

func (r *PgxReferenceRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	query := `SELECT payment_method_id, name FROM payment_methods ORDER BY payment_method_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer rows.Close()

	methods := []domain.PaymentMethod{}
	for rows.Next() {
		var pm domain.PaymentMethod
		if err := rows.Scan(&pm.PaymentMethodID, &pm.Name); err != nil {
			return nil, fmt.Errorf("failed to scan payment method row: %w", err)
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method rows: %w", err)
	}
	return methods, nil
}

func (r *PgxReferenceRepository) ListMovementTypes(ctx context.Context) ([]domain.MovementType, error) {
	query := `SELECT movement_type_id, name FROM movement_types ORDER BY movement_type_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement types: %w", err)
	}
	defer rows.Close()

	types := []domain.MovementType{}
	for rows.Next() {
		var mt domain.MovementType
		if err := rows.Scan(&mt.MovementTypeID, &mt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan movement type row: %w", err)
		}
		types = append(types, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement type rows: %w", err)
	}
	return types, nil
}
