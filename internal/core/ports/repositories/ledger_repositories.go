package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// EntryFilter narrows the journal listing.
type EntryFilter struct {
	From *time.Time
	To   *time.Time
	Memo string // substring match on the memo, case-insensitive
}

// LedgerRepositoryFacade persists journal entries and answers balance
// queries. Entries are append-only; there is no update or delete.
type LedgerRepositoryFacade interface {
	// SaveEntry inserts the entry and its lines as a single atomic unit.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// SaveEntryInTx inserts the entry and its lines inside an already-open
	// transaction, so composite operations (payment allocation, session
	// open, origination) commit their ledger counterpart atomically with
	// their own rows.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)
	ListEntries(ctx context.Context, filter EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// AccountBalance recomputes sum(debit) - sum(credit) for an account
	// from the full line history. Nothing is cached.
	AccountBalance(ctx context.Context, account string) (decimal.Decimal, error)

	// CashFlowSince aggregates daily cash-account inflow/outflow from a
	// starting date (inclusive).
	CashFlowSince(ctx context.Context, from time.Time) ([]domain.CashFlowPoint, error)
}
