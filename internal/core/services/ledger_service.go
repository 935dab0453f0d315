package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

var (
	// ErrUnbalancedEntry is returned when debit and credit sums differ,
	// compared in integer minor-currency units.
	ErrUnbalancedEntry = fmt.Errorf("%w: entry debits and credits do not balance", apperrors.ErrValidation)
	// ErrEmptyEntry is returned for entries with fewer than two lines.
	ErrEmptyEntry = fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	// ErrMemoMissing is returned when the entry memo is empty.
	ErrMemoMissing = fmt.Errorf("%w: entry memo is required", apperrors.ErrValidation)
)

// ledgerService is the single posting primitive. Every operation that
// moves money builds draft lines and passes through PrepareEntry; no other
// component writes ledger rows.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	authSvc    portssvc.AuthSvcFacade
}

// NewLedgerService creates the ledger posting engine.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, authSvc portssvc.AuthSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo, authSvc: authSvc}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// minorUnits converts a monetary value to integer minor currency units
// after rounding to the ledger's 2-decimal precision.
func minorUnits(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// PrepareEntry validates the draft lines and stamps a balanced entry
// without persisting it.
func (s *ledgerService) PrepareEntry(memo string, authorID int64, lines []domain.DraftLine) (*domain.JournalEntry, error) {
	if memo == "" {
		return nil, ErrMemoMissing
	}
	if len(lines) < 2 {
		return nil, ErrEmptyEntry
	}

	var debitSum, creditSum int64
	entryID := uuid.NewString()
	now := time.Now().UTC()

	entry := domain.JournalEntry{
		EntryID:  entryID,
		EntryAt:  now,
		Memo:     memo,
		AuthorID: authorID,
		Lines:    make([]domain.JournalLine, len(lines)),
	}

	for i, draft := range lines {
		if draft.Account == "" {
			return nil, fmt.Errorf("%w: line %d has no account", apperrors.ErrValidation, i+1)
		}
		if draft.Debit.IsNegative() || draft.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if !draft.Debit.IsZero() && !draft.Credit.IsZero() {
			return nil, fmt.Errorf("%w: line %d has both debit and credit", apperrors.ErrValidation, i+1)
		}
		debit := draft.Debit.Round(2)
		credit := draft.Credit.Round(2)
		debitSum += minorUnits(debit)
		creditSum += minorUnits(credit)

		entry.Lines[i] = domain.JournalLine{
			LineID:  uuid.NewString(),
			EntryID: entryID,
			Account: draft.Account,
			Debit:   debit,
			Credit:  credit,
		}
	}

	if debitSum != creditSum {
		return nil, fmt.Errorf("%w: debits %d, credits %d (minor units)", ErrUnbalancedEntry, debitSum, creditSum)
	}

	return &entry, nil
}

// Post validates and persists a standalone entry atomically.
func (s *ledgerService) Post(ctx context.Context, memo string, authorID int64, lines []domain.DraftLine) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.PrepareEntry(memo, authorID, lines)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.SaveEntry(ctx, *entry); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("memo", memo))
	return entry, nil
}

// ManualEntry posts a manual cash ingress or egress against a named contra
// account. Requires the ledger.manage permission.
func (s *ledgerService) ManualEntry(ctx context.Context, caller domain.CallerIdentity, req dto.ManualEntryRequest) (*domain.JournalEntry, error) {
	if err := s.authSvc.Authorize(caller, domain.PermLedgerManage); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}

	amount := req.Amount.Round(2)
	var lines []domain.DraftLine
	switch req.Kind {
	case "INGRESS":
		lines = []domain.DraftLine{
			{Account: domain.AccountCash, Debit: amount},
			{Account: req.ContraAccount, Credit: amount},
		}
	case "EGRESS":
		lines = []domain.DraftLine{
			{Account: req.ContraAccount, Debit: amount},
			{Account: domain.AccountCash, Credit: amount},
		}
	default:
		return nil, fmt.Errorf("%w: kind must be INGRESS or EGRESS", apperrors.ErrValidation)
	}

	return s.Post(ctx, req.Memo, caller.UserID, lines)
}

// GetEntry retrieves an entry with its lines.
func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.ledgerRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a filtered, cursor-paginated page of entries.
func (s *ledgerService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	filter := portsrepo.EntryFilter{From: params.From, To: params.To, Memo: params.Memo}
	entries, nextToken, err := s.ledgerRepo.ListEntries(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{NextToken: nextToken}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToEntryResponse(&entries[i]))
	}
	return resp, nil
}

// Dashboard recomputes the headline balances from the line history. Income
// accounts are credit-normal, so realized interest flips the sign.
func (s *ledgerService) Dashboard(ctx context.Context) (*domain.LedgerSummary, error) {
	cash, err := s.ledgerRepo.AccountBalance(ctx, domain.AccountCash)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cash balance: %w", err)
	}
	receivables, err := s.ledgerRepo.AccountBalance(ctx, domain.AccountReceivables)
	if err != nil {
		return nil, fmt.Errorf("failed to compute receivables balance: %w", err)
	}
	interestIncome, err := s.ledgerRepo.AccountBalance(ctx, domain.AccountInterestIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to compute interest income balance: %w", err)
	}

	from := time.Now().UTC().AddDate(0, 0, -6).Truncate(24 * time.Hour)
	flow, err := s.ledgerRepo.CashFlowSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cash flow series: %w", err)
	}

	return &domain.LedgerSummary{
		CashBalance:        cash,
		Receivables:        receivables,
		RealizedInterest:   interestIncome.Neg(),
		CashFlowLastSevenD: flow,
	}, nil
}
