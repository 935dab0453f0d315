package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	"github.com/prestaflow/lending_backend/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates the repository for journal entries and lines.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveEntry inserts the entry and its lines in a dedicated transaction.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SaveEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveEntryInTx inserts the entry and its lines inside an already-open
// transaction, so composite operations commit their ledger counterpart
// atomically with their own rows.
func (r *PgxLedgerRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (entry_id, entry_at, memo, author_id)
		VALUES ($1, $2, $3, $4);
	`
	_, err := tx.Exec(ctx, entryQuery, entry.EntryID, entry.EntryAt, entry.Memo, entry.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account, debit, credit)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range entry.Lines {
		batch.Queue(lineQuery, line.LineID, line.EntryID, line.Account, line.Debit, line.Credit)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert journal lines for entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, entry_at, memo, author_id
		FROM journal_entries
		WHERE entry_id = $1;
	`
	var entry domain.JournalEntry
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(&entry.EntryID, &entry.EntryAt, &entry.Memo, &entry.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to query journal entry %s: %w", entryID, err)
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves an entry's lines in insertion order.
func (r *PgxLedgerRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account, debit, credit
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.Account, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return lines, nil
}

// ListEntries retrieves a filtered page of entries, newest first, using
// token-based keyset pagination on (entry_at, entry_id).
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	query := `
		SELECT entry_id, entry_at, memo, author_id
		FROM journal_entries
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += " AND entry_at >= $" + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += " AND entry_at <= $" + strconv.Itoa(len(args))
	}
	if filter.Memo != "" {
		args = append(args, "%"+filter.Memo+"%")
		query += " AND memo ILIKE $" + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastAt, lastID)
		query += " AND (entry_at, entry_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}

	args = append(args, fetchLimit)
	query += " ORDER BY entry_at DESC, entry_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.EntryID, &e.EntryAt, &e.Memo, &e.AuthorID); err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryAt, last.EntryID)
		token = &t
	}
	return entries, token, nil
}

// AccountBalance recomputes sum(debit) - sum(credit) for an account from the
// full line history.
func (r *PgxLedgerRepository) AccountBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit - credit), 0)
		FROM journal_lines
		WHERE account = $1;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, account).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", account, err)
	}
	return balance, nil
}

// CashFlowSince aggregates daily cash-account inflow and outflow from a
// starting date (inclusive).
func (r *PgxLedgerRepository) CashFlowSince(ctx context.Context, from time.Time) ([]domain.CashFlowPoint, error) {
	query := `
		SELECT date_trunc('day', e.entry_at) AS day,
		       COALESCE(SUM(l.debit), 0) AS inflow,
		       COALESCE(SUM(l.credit), 0) AS outflow
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account = $1 AND e.entry_at >= $2
		GROUP BY day
		ORDER BY day;
	`
	rows, err := r.Pool.Query(ctx, query, domain.AccountCash, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flow: %w", err)
	}
	defer rows.Close()

	points := []domain.CashFlowPoint{}
	for rows.Next() {
		var p domain.CashFlowPoint
		if err := rows.Scan(&p.Date, &p.Inflow, &p.Outflow); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}
	return points, nil
}
