package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger account names. Accounts are free-form string keys on journal
// lines; these are the ones the core operations post against.
const (
	AccountCash               = "Cash"
	AccountReceivables        = "Receivables"
	AccountInterestReceivable = "Interest Receivable"
	AccountInterestIncome     = "Interest Income"
	AccountOpeningEquity      = "Cash Opening Equity"
)

// JournalEntry is one balanced double-entry bookkeeping record. Entries and
// their lines are append-only; corrections are posted as reversing entries.
type JournalEntry struct {
	EntryID  string        `json:"entryID"`
	EntryAt  time.Time     `json:"entryAt"`
	Memo     string        `json:"memo"`
	AuthorID int64         `json:"authorID"`
	Lines    []JournalLine `json:"lines,omitempty"`
}

// JournalLine is one debit-or-credit component of an entry. Exactly one of
// Debit/Credit is non-zero in normal use.
type JournalLine struct {
	LineID  string          `json:"lineID"`
	EntryID string          `json:"entryID"`
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// DraftLine is the caller-facing shape handed to the posting primitive
// before IDs are assigned.
type DraftLine struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// CashFlowPoint is one day of cash-account inflow/outflow, for the
// accounting dashboard.
type CashFlowPoint struct {
	Date    time.Time       `json:"date"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
}

// LedgerSummary holds the recomputed headline balances. Nothing is cached;
// every value is derived from the journal lines on read.
type LedgerSummary struct {
	CashBalance        decimal.Decimal `json:"cashBalance"`
	Receivables        decimal.Decimal `json:"receivables"`
	RealizedInterest   decimal.Decimal `json:"realizedInterest"`
	CashFlowLastSevenD []CashFlowPoint `json:"cashFlow"`
}
