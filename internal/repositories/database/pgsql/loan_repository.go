package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
)

type PgxLoanRepository struct {
	BaseRepository
	ledgerRepo *PgxLedgerRepository
}

// newPgxLoanRepository creates the repository for loans, installments and
// payments.
func newPgxLoanRepository(pool *pgxpool.Pool, ledgerRepo *PgxLedgerRepository) *PgxLoanRepository {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
	}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

// CreateLoan inserts the loan, its installments and the disbursement entry
// in one transaction.
func (r *PgxLoanRepository) CreateLoan(ctx context.Context, loan domain.Loan, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	loanQuery := `
		INSERT INTO loans (loan_id, customer_id, originated_by, rate_id, principal, total_due, installment_count, disbursed_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, loanQuery,
		loan.LoanID, loan.CustomerID, loan.OriginatedBy, loan.RateID,
		loan.Principal, loan.TotalDue, loan.InstallmentCount, loan.DisbursedAt, loan.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan %s: %w", loan.LoanID, err)
	}

	batch := &pgx.Batch{}
	installmentQuery := `
		INSERT INTO installments (installment_id, loan_id, sequence, due_date, scheduled_amount, capital_share, interest_share, paid_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, inst := range loan.Installments {
		batch.Queue(installmentQuery,
			inst.InstallmentID, inst.LoanID, inst.Sequence, inst.DueDate,
			inst.ScheduledAmount, inst.CapitalShare, inst.InterestShare,
			inst.PaidAmount, inst.Status,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert installments for loan %s: %w", loan.LoanID, err)
	}

	if err := r.ledgerRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindLoanByID retrieves a loan header by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `
		SELECT loan_id, customer_id, originated_by, rate_id, principal, total_due, installment_count, disbursed_at, status
		FROM loans
		WHERE loan_id = $1;
	`
	var l domain.Loan
	err := r.Pool.QueryRow(ctx, query, loanID).Scan(
		&l.LoanID, &l.CustomerID, &l.OriginatedBy, &l.RateID,
		&l.Principal, &l.TotalDue, &l.InstallmentCount, &l.DisbursedAt, &l.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to query loan %s: %w", loanID, err)
	}
	return &l, nil
}

// FindInstallmentsByLoanID retrieves a loan's schedule in sequence order.
func (r *PgxLoanRepository) FindInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error) {
	query := `
		SELECT installment_id, loan_id, sequence, due_date, scheduled_amount, capital_share, interest_share, paid_amount, status
		FROM installments
		WHERE loan_id = $1
		ORDER BY sequence;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	installments := []domain.Installment{}
	for rows.Next() {
		var i domain.Installment
		if err := rows.Scan(&i.InstallmentID, &i.LoanID, &i.Sequence, &i.DueDate, &i.ScheduledAmount, &i.CapitalShare, &i.InterestShare, &i.PaidAmount, &i.Status); err != nil {
			return nil, fmt.Errorf("failed to scan installment row for loan %s: %w", loanID, err)
		}
		installments = append(installments, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows for loan %s: %w", loanID, err)
	}
	return installments, nil
}

// FindInstallmentByID retrieves a single installment.
func (r *PgxLoanRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `
		SELECT installment_id, loan_id, sequence, due_date, scheduled_amount, capital_share, interest_share, paid_amount, status
		FROM installments
		WHERE installment_id = $1;
	`
	var i domain.Installment
	err := r.Pool.QueryRow(ctx, query, installmentID).Scan(
		&i.InstallmentID, &i.LoanID, &i.Sequence, &i.DueDate,
		&i.ScheduledAmount, &i.CapitalShare, &i.InterestShare, &i.PaidAmount, &i.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, installmentID)
		}
		return nil, fmt.Errorf("failed to query installment %s: %w", installmentID, err)
	}
	return &i, nil
}

// ListLoansByCustomer retrieves a borrower's loans, newest first.
func (r *PgxLoanRepository) ListLoansByCustomer(ctx context.Context, customerID int64) ([]domain.Loan, error) {
	query := `
		SELECT loan_id, customer_id, originated_by, rate_id, principal, total_due, installment_count, disbursed_at, status
		FROM loans
		WHERE customer_id = $1
		ORDER BY disbursed_at DESC, loan_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.LoanID, &l.CustomerID, &l.OriginatedBy, &l.RateID, &l.Principal, &l.TotalDue, &l.InstallmentCount, &l.DisbursedAt, &l.Status); err != nil {
			return nil, fmt.Errorf("failed to scan loan row for customer %d: %w", customerID, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows for customer %d: %w", customerID, err)
	}
	return loans, nil
}

// TotalPaid sums recorded payment amounts across the loan's installments.
func (r *PgxLoanRepository) TotalPaid(ctx context.Context, loanID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN installments i ON p.installment_id = i.installment_id
		WHERE i.loan_id = $1;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, loanID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for loan %s: %w", loanID, err)
	}
	return total, nil
}

// VoidLoan sets the loan VOIDED and inserts the reversing entry in one
// transaction. The status guard makes a concurrent void or payment lose
// with apperrors.ErrConflict.
func (r *PgxLoanRepository) VoidLoan(ctx context.Context, loanID string, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`UPDATE loans SET status = $2 WHERE loan_id = $1 AND status = $3;`,
		loanID, domain.LoanVoided, domain.LoanPending,
	)
	if err != nil {
		return fmt.Errorf("failed to void loan %s: %w", loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is not in a voidable state", apperrors.ErrConflict, loanID)
	}

	if err := r.ledgerRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SavePaymentAllocation inserts the payment row and the ledger entry and
// applies the payment to the installment's cumulative total, all in one
// transaction. The installment row is locked with FOR UPDATE and re-read
// inside the transaction, so two concurrent payments on the same installment
// serialize and both increments land. A failure anywhere rolls back
// everything.
func (r *PgxLoanRepository) SavePaymentAllocation(ctx context.Context, payment domain.Payment, entry domain.JournalEntry) (*domain.Installment, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT installment_id, loan_id, sequence, due_date, scheduled_amount, capital_share, interest_share, paid_amount, status
		FROM installments
		WHERE installment_id = $1
		FOR UPDATE;
	`
	var inst domain.Installment
	err = tx.QueryRow(ctx, lockQuery, payment.InstallmentID).Scan(
		&inst.InstallmentID, &inst.LoanID, &inst.Sequence, &inst.DueDate,
		&inst.ScheduledAmount, &inst.CapitalShare, &inst.InterestShare, &inst.PaidAmount, &inst.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, payment.InstallmentID)
		}
		return nil, false, fmt.Errorf("failed to lock installment %s: %w", payment.InstallmentID, err)
	}

	inst.PaidAmount = inst.PaidAmount.Add(payment.Amount)
	if inst.PaidAmount.GreaterThanOrEqual(inst.ScheduledAmount) {
		inst.Status = domain.InstallmentPaid
	}

	_, err = tx.Exec(ctx,
		`UPDATE installments SET paid_amount = $2, status = $3 WHERE installment_id = $1;`,
		inst.InstallmentID, inst.PaidAmount, inst.Status,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update installment %s: %w", inst.InstallmentID, err)
	}

	paymentQuery := `
		INSERT INTO payments (payment_id, installment_id, payment_method_id, amount, paid_at, receipt_ref)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		payment.PaymentID, payment.InstallmentID, payment.PaymentMethodID,
		payment.Amount, payment.PaidAt, payment.ReceiptRef,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert payment %s: %w", payment.PaymentID, err)
	}

	if err := r.ledgerRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, false, err
	}

	loanPaid := false
	if inst.Status == domain.InstallmentPaid {
		tag, err := tx.Exec(ctx,
			`UPDATE loans SET status = $2
			 WHERE loan_id = $1 AND status = $3
			   AND NOT EXISTS (SELECT 1 FROM installments WHERE loan_id = $1 AND status <> $4);`,
			inst.LoanID, domain.LoanPaid, domain.LoanPending, domain.InstallmentPaid,
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to mark loan %s paid: %w", inst.LoanID, err)
		}
		loanPaid = tag.RowsAffected() > 0
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	return &inst, loanPaid, nil
}
