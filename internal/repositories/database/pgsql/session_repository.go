package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	"github.com/prestaflow/lending_backend/internal/utils/pagination"
)

type PgxSessionRepository struct {
	BaseRepository
	ledgerRepo *PgxLedgerRepository
}

// newPgxSessionRepository creates the repository for register sessions and
// their movements.
func newPgxSessionRepository(pool *pgxpool.Pool, ledgerRepo *PgxLedgerRepository) *PgxSessionRepository {
	return &PgxSessionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
	}
}

var _ portsrepo.SessionRepositoryFacade = (*PgxSessionRepository)(nil)

const sessionColumns = `
	session_id, till_id, branch_id, opened_by, opened_at, opening_amount, status,
	closed_at, declared_amount, expected_cash, total_sales, difference, closing_note,
	confirmed_by, confirmed_at
`

func scanSession(row pgx.Row) (*domain.RegisterSession, error) {
	var s domain.RegisterSession
	err := row.Scan(
		&s.SessionID, &s.TillID, &s.BranchID, &s.OpenedBy, &s.OpenedAt, &s.OpeningAmount, &s.Status,
		&s.ClosedAt, &s.DeclaredAmount, &s.ExpectedCash, &s.TotalSales, &s.Difference, &s.ClosingNote,
		&s.ConfirmedBy, &s.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession inserts the session and, when the till was funded, its
// opening movement and opening journal entry, all in one transaction. The
// partial unique indexes on open sessions are the concurrency guard; their
// violation surfaces as apperrors.ErrConflict.
func (r *PgxSessionRepository) CreateSession(ctx context.Context, session domain.RegisterSession, opening *domain.RegisterMovement, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	sessionQuery := `
		INSERT INTO register_sessions (session_id, till_id, branch_id, opened_by, opened_at, opening_amount, status, closing_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '');
	`
	_, err = tx.Exec(ctx, sessionQuery,
		session.SessionID, session.TillID, session.BranchID,
		session.OpenedBy, session.OpenedAt, session.OpeningAmount, session.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: an open session already exists for this cashier or till", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert session %s: %w", session.SessionID, err)
	}

	if opening != nil {
		if err := insertMovement(ctx, tx, *opening); err != nil {
			return err
		}
	}
	if entry != nil {
		if err := r.ledgerRepo.SaveEntryInTx(ctx, tx, *entry); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

func insertMovement(ctx context.Context, tx pgx.Tx, movement domain.RegisterMovement) error {
	query := `
		INSERT INTO register_movements (movement_id, session_id, movement_type_id, payment_method_id, amount, description, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		movement.MovementID, movement.SessionID, movement.MovementTypeID,
		movement.PaymentMethodID, movement.Amount, movement.Description, movement.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement %s: %w", movement.MovementID, err)
	}
	return nil
}

// FindSessionByID retrieves a session by its ID.
func (r *PgxSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE session_id = $1;`
	session, err := scanSession(r.Pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to query session %s: %w", sessionID, err)
	}
	return session, nil
}

// FindOpenSessionByCashier retrieves the cashier's open session, if any.
func (r *PgxSessionRepository) FindOpenSessionByCashier(ctx context.Context, cashierID int64) (*domain.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE opened_by = $1 AND status = $2;`
	session, err := scanSession(r.Pool.QueryRow(ctx, query, cashierID, domain.SessionOpen))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no open session for cashier %d", apperrors.ErrNotFound, cashierID)
		}
		return nil, fmt.Errorf("failed to query open session for cashier %d: %w", cashierID, err)
	}
	return session, nil
}

// FindOpenSessionByTill retrieves the open session holding a till, if any.
func (r *PgxSessionRepository) FindOpenSessionByTill(ctx context.Context, tillID int64) (*domain.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE till_id = $1 AND status = $2;`
	session, err := scanSession(r.Pool.QueryRow(ctx, query, tillID, domain.SessionOpen))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no open session for till %d", apperrors.ErrNotFound, tillID)
		}
		return nil, fmt.Errorf("failed to query open session for till %d: %w", tillID, err)
	}
	return session, nil
}

// SaveMovement appends a movement row.
func (r *PgxSessionRepository) SaveMovement(ctx context.Context, movement domain.RegisterMovement) error {
	query := `
		INSERT INTO register_movements (movement_id, session_id, movement_type_id, payment_method_id, amount, description, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		movement.MovementID, movement.SessionID, movement.MovementTypeID,
		movement.PaymentMethodID, movement.Amount, movement.Description, movement.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement %s: %w", movement.MovementID, err)
	}
	return nil
}

// ListMovementsBySession retrieves a session's movements in recording order.
func (r *PgxSessionRepository) ListMovementsBySession(ctx context.Context, sessionID string) ([]domain.RegisterMovement, error) {
	query := `
		SELECT movement_id, session_id, movement_type_id, payment_method_id, amount, description, recorded_at
		FROM register_movements
		WHERE session_id = $1
		ORDER BY recorded_at, movement_id;
	`
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	movements := []domain.RegisterMovement{}
	for rows.Next() {
		var m domain.RegisterMovement
		if err := rows.Scan(&m.MovementID, &m.SessionID, &m.MovementTypeID, &m.PaymentMethodID, &m.Amount, &m.Description, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movement row for session %s: %w", sessionID, err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows for session %s: %w", sessionID, err)
	}
	return movements, nil
}

// MarkDeclaredClosed persists the closing totals, guarded by status = OPEN
// so a concurrent close loses with apperrors.ErrConflict.
func (r *PgxSessionRepository) MarkDeclaredClosed(ctx context.Context, session domain.RegisterSession) error {
	query := `
		UPDATE register_sessions
		SET status = $2, closed_at = $3, declared_amount = $4, expected_cash = $5,
		    total_sales = $6, difference = $7, closing_note = $8
		WHERE session_id = $1 AND status = $9;
	`
	tag, err := r.Pool.Exec(ctx, query,
		session.SessionID, session.Status, session.ClosedAt, session.DeclaredAmount,
		session.ExpectedCash, session.TotalSales, session.Difference, session.ClosingNote,
		domain.SessionOpen,
	)
	if err != nil {
		return fmt.Errorf("failed to close session %s: %w", session.SessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s is not open", apperrors.ErrConflict, session.SessionID)
	}
	return nil
}

// MarkConfirmed stamps the confirmation, guarded by an absent confirmation
// timestamp so a concurrent confirm loses with apperrors.ErrConflict.
func (r *PgxSessionRepository) MarkConfirmed(ctx context.Context, session domain.RegisterSession) error {
	query := `
		UPDATE register_sessions
		SET status = $2, closing_note = $3, confirmed_by = $4, confirmed_at = $5
		WHERE session_id = $1 AND confirmed_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query,
		session.SessionID, session.Status, session.ClosingNote, session.ConfirmedBy, session.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to confirm session %s: %w", session.SessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s is already confirmed", apperrors.ErrConflict, session.SessionID)
	}
	return nil
}

// ListSessions retrieves a filtered page of sessions, newest first, using
// token-based keyset pagination on (opened_at, session_id).
func (r *PgxSessionRepository) ListSessions(ctx context.Context, filter portsrepo.SessionFilter, limit int, nextToken *string) ([]domain.RegisterSession, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE 1=1`
	args := []interface{}{}

	if filter.CashierID != nil {
		args = append(args, *filter.CashierID)
		query += " AND opened_by = $" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += " AND opened_at >= $" + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += " AND opened_at <= $" + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastAt, lastID)
		query += " AND (opened_at, session_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}

	args = append(args, fetchLimit)
	query += " ORDER BY opened_at DESC, session_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.RegisterSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	var token *string
	if len(sessions) > limit {
		sessions = sessions[:limit]
		last := sessions[len(sessions)-1]
		t := pagination.EncodeToken(last.OpenedAt, last.SessionID)
		token = &t
	}
	return sessions, token, nil
}
