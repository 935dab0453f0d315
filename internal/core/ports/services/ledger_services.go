package services

import (
	"context"

	"github.com/prestaflow/lending_backend/internal/core/domain"
	"github.com/prestaflow/lending_backend/internal/dto"
)

// LedgerSvcFacade is the double-entry posting primitive plus the read
// contracts layered on the journal. Every money-moving operation in the
// system goes through PrepareEntry/Post; nothing else writes ledger rows.
type LedgerSvcFacade interface {
	// PrepareEntry validates and stamps a balanced entry without persisting
	// it. Composite operations hand the result to their repository so it
	// commits atomically with their own rows.
	PrepareEntry(memo string, authorID int64, lines []domain.DraftLine) (*domain.JournalEntry, error)

	// Post validates and persists a standalone entry.
	Post(ctx context.Context, memo string, authorID int64, lines []domain.DraftLine) (*domain.JournalEntry, error)

	// ManualEntry posts a manual cash ingress/egress against a contra
	// account, permission-gated.
	ManualEntry(ctx context.Context, caller domain.CallerIdentity, req dto.ManualEntryRequest) (*domain.JournalEntry, error)

	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	Dashboard(ctx context.Context) (*domain.LedgerSummary, error)
}
