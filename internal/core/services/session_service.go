package services

import (
	"context"
	"errors"
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
	// ErrCashierSessionOpen means the caller already has an open session.
	ErrCashierSessionOpen = fmt.Errorf("%w: cashier already has an open session", apperrors.ErrConflict)
	// ErrTillInUse means another open session holds the requested till.
	ErrTillInUse = fmt.Errorf("%w: till is held by another open session", apperrors.ErrConflict)
	// ErrSessionNotOpen means the session has left the OPEN state.
	ErrSessionNotOpen = fmt.Errorf("%w: session is not open", apperrors.ErrConflict)
	// ErrNotYetDeclared means confirmation was attempted before the closing
	// declaration.
	ErrNotYetDeclared = fmt.Errorf("%w: session has no closing declaration yet", apperrors.ErrConflict)
	// ErrAlreadyConfirmed means the session already carries a confirmation
	// stamp.
	ErrAlreadyConfirmed = fmt.Errorf("%w: session is already confirmed", apperrors.ErrConflict)
	// ErrJustificationRequired means the cash difference exceeds the audit
	// threshold and no note was supplied.
	ErrJustificationRequired = fmt.Errorf("%w: cash difference exceeds the audit threshold, a justification note is required", apperrors.ErrValidation)
	// ErrMissingOpeningCatalog means the movement-type or payment-method
	// catalog rows needed to record the till funding are not seeded.
	ErrMissingOpeningCatalog = fmt.Errorf("%w: opening movement type or cash payment method is not configured", apperrors.ErrConfiguration)
)

type sessionService struct {
	sessionRepo   portsrepo.SessionRepositoryFacade
	referenceRepo portsrepo.ReferenceRepositoryFacade
	ledgerSvc     portssvc.LedgerSvcFacade
	authSvc       portssvc.AuthSvcFacade

	// auditThreshold is the absolute cash difference above which a
	// confirmation note becomes mandatory.
	auditThreshold decimal.Decimal
}

// NewSessionService creates the register-session lifecycle service.
func NewSessionService(
	sessionRepo portsrepo.SessionRepositoryFacade,
	referenceRepo portsrepo.ReferenceRepositoryFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	authSvc portssvc.AuthSvcFacade,
	auditThreshold decimal.Decimal,
) portssvc.SessionSvcFacade {
	return &sessionService{
		sessionRepo:    sessionRepo,
		referenceRepo:  referenceRepo,
		ledgerSvc:      ledgerSvc,
		authSvc:        authSvc,
		auditThreshold: auditThreshold,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// Open starts a new session for the caller, enforcing one open session per
// cashier and one per till. When the till is funded, the opening movement
// and its journal entry are written in the same transaction as the session.
func (s *sessionService) Open(ctx context.Context, caller domain.CallerIdentity, req dto.OpenSessionRequest) (*domain.RegisterSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authSvc.Authorize(caller, domain.PermSessionManage); err != nil {
		return nil, err
	}
	if req.OpeningAmount.IsNegative() {
		return nil, fmt.Errorf("%w: opening amount cannot be negative", apperrors.ErrValidation)
	}
	if _, err := s.referenceRepo.FindTillByID(ctx, req.TillID); err != nil {
		return nil, fmt.Errorf("failed to resolve till %d: %w", req.TillID, err)
	}
	if _, err := s.referenceRepo.FindBranchByID(ctx, req.BranchID); err != nil {
		return nil, fmt.Errorf("failed to resolve branch %d: %w", req.BranchID, err)
	}

	// Advisory pre-checks for a precise error. The partial unique indexes
	// on open sessions remain the actual guard under concurrency.
	if _, err := s.sessionRepo.FindOpenSessionByCashier(ctx, caller.UserID); err == nil {
		return nil, ErrCashierSessionOpen
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check cashier sessions: %w", err)
	}
	if _, err := s.sessionRepo.FindOpenSessionByTill(ctx, req.TillID); err == nil {
		return nil, ErrTillInUse
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check till sessions: %w", err)
	}

	now := time.Now().UTC()
	session := domain.RegisterSession{
		SessionID:     uuid.NewString(),
		TillID:        req.TillID,
		BranchID:      req.BranchID,
		OpenedBy:      caller.UserID,
		OpenedAt:      now,
		OpeningAmount: req.OpeningAmount.Round(2),
		Status:        domain.SessionOpen,
	}

	var opening *domain.RegisterMovement
	var entry *domain.JournalEntry
	if session.OpeningAmount.IsPositive() {
		movementType, paymentMethod, err := s.openingCatalog(ctx)
		if err != nil {
			return nil, err
		}
		opening = &domain.RegisterMovement{
			MovementID:      uuid.NewString(),
			SessionID:       session.SessionID,
			MovementTypeID:  movementType.MovementTypeID,
			PaymentMethodID: paymentMethod.PaymentMethodID,
			Amount:          session.OpeningAmount,
			Description:     "Till opening float",
			RecordedAt:      now,
		}
		entry, err = s.ledgerSvc.PrepareEntry(
			fmt.Sprintf("Register session %s opening float", session.SessionID),
			caller.UserID,
			[]domain.DraftLine{
				{Account: domain.AccountCash, Debit: session.OpeningAmount},
				{Account: domain.AccountOpeningEquity, Credit: session.OpeningAmount},
			},
		)
		if err != nil {
			return nil, err
		}
	}

	if err := s.sessionRepo.CreateSession(ctx, session, opening, entry); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race to another open attempt.
			return nil, ErrCashierSessionOpen
		}
		logger.Error("Failed to create register session", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create register session: %w", err)
	}

	logger.Info("Register session opened",
		slog.String("session_id", session.SessionID),
		slog.Int64("till_id", session.TillID),
		slog.Int64("opened_by", caller.UserID))
	return &session, nil
}

// openingCatalog resolves the seeded rows the opening movement is recorded
// against: the first movement type classified as an opening and the first
// payment method classified as cash.
func (s *sessionService) openingCatalog(ctx context.Context) (*domain.MovementType, *domain.PaymentMethod, error) {
	movementTypes, err := s.referenceRepo.ListMovementTypes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list movement types: %w", err)
	}
	var movementType *domain.MovementType
	for i := range movementTypes {
		if domain.ClassifyMovementType(movementTypes[i].Name) == domain.MoveOpening {
			movementType = &movementTypes[i]
			break
		}
	}

	paymentMethods, err := s.referenceRepo.ListPaymentMethods(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	var paymentMethod *domain.PaymentMethod
	for i := range paymentMethods {
		if domain.ClassifyPaymentMethod(paymentMethods[i].Name) == domain.PayCash {
			paymentMethod = &paymentMethods[i]
			break
		}
	}

	if movementType == nil || paymentMethod == nil {
		return nil, nil, ErrMissingOpeningCatalog
	}
	return movementType, paymentMethod, nil
}

// RecordMovement appends a movement to an open session.
func (s *sessionService) RecordMovement(ctx context.Context, caller domain.CallerIdentity, req dto.RecordMovementRequest) (*domain.RegisterMovement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authSvc.Authorize(caller, domain.PermSessionManage); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: movement amount must be greater than zero", apperrors.ErrValidation)
	}

	session, err := s.sessionRepo.FindSessionByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionOpen {
		return nil, ErrSessionNotOpen
	}
	if session.OpenedBy != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: session belongs to another cashier", apperrors.ErrForbidden)
	}

	movementType, err := s.referenceRepo.FindMovementTypeByName(ctx, req.MovementType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve movement type %q: %w", req.MovementType, err)
	}
	if _, err := s.referenceRepo.FindPaymentMethodByID(ctx, req.PaymentMethodID); err != nil {
		return nil, fmt.Errorf("failed to resolve payment method %d: %w", req.PaymentMethodID, err)
	}

	movement := domain.RegisterMovement{
		MovementID:      uuid.NewString(),
		SessionID:       session.SessionID,
		MovementTypeID:  movementType.MovementTypeID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount.Round(2),
		Description:     req.Description,
		RecordedAt:      time.Now().UTC(),
	}
	if err := s.sessionRepo.SaveMovement(ctx, movement); err != nil {
		logger.Error("Failed to save register movement", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save register movement: %w", err)
	}

	logger.Info("Register movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("session_id", session.SessionID),
		slog.String("movement_type", movementType.Name))
	return &movement, nil
}

// DeclareClose aggregates the session's movements, computes the expected
// drawer cash and the difference against the declared count, and moves the
// session to PENDING_REVIEW. The aggregation is recomputed from rows, never
// from running counters.
func (s *sessionService) DeclareClose(ctx context.Context, caller domain.CallerIdentity, req dto.DeclareCloseRequest) (*domain.CloseSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authSvc.Authorize(caller, domain.PermSessionManage); err != nil {
		return nil, err
	}
	if req.ClosingAmount.IsNegative() {
		return nil, fmt.Errorf("%w: declared amount cannot be negative", apperrors.ErrValidation)
	}

	session, err := s.sessionRepo.FindSessionByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionOpen {
		return nil, ErrSessionNotOpen
	}
	if session.OpenedBy != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: session belongs to another cashier", apperrors.ErrForbidden)
	}

	summary, err := s.aggregate(ctx, session, req.ClosingAmount.Round(2))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session.Status = domain.SessionPendingReview
	session.ClosedAt = &now
	session.DeclaredAmount = &summary.DeclaredCash
	session.ExpectedCash = &summary.ExpectedCash
	session.TotalSales = &summary.Sales.Total
	session.Difference = &summary.Difference
	session.ClosingNote = req.Note

	if err := s.sessionRepo.MarkDeclaredClosed(ctx, *session); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrSessionNotOpen
		}
		logger.Error("Failed to persist closing declaration", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist closing declaration: %w", err)
	}

	logger.Info("Register session declared closed",
		slog.String("session_id", session.SessionID),
		slog.String("declared", summary.DeclaredCash.String()),
		slog.String("difference", summary.Difference.String()))
	return summary, nil
}

// aggregate folds the session's movements into the close summary. Opening
// movements are excluded; the opening float enters through the session row.
// Only cash movements count toward the expected drawer amount.
func (s *sessionService) aggregate(ctx context.Context, session *domain.RegisterSession, declared decimal.Decimal) (*domain.CloseSummary, error) {
	movements, err := s.sessionRepo.ListMovementsBySession(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session movements: %w", err)
	}

	movementTypes, err := s.referenceRepo.ListMovementTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movement types: %w", err)
	}
	typeKinds := make(map[int64]domain.MovementKind, len(movementTypes))
	for _, mt := range movementTypes {
		typeKinds[mt.MovementTypeID] = domain.ClassifyMovementType(mt.Name)
	}

	paymentMethods, err := s.referenceRepo.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	methodKinds := make(map[int64]domain.PaymentKind, len(paymentMethods))
	for _, pm := range paymentMethods {
		methodKinds[pm.PaymentMethodID] = domain.ClassifyPaymentMethod(pm.Name)
	}

	summary := domain.CloseSummary{
		SessionID:     session.SessionID,
		OpeningAmount: session.OpeningAmount,
		DeclaredCash:  declared,
	}

	for _, m := range movements {
		switch typeKinds[m.MovementTypeID] {
		case domain.MoveSale:
			summary.Sales.Total = summary.Sales.Total.Add(m.Amount)
			switch methodKinds[m.PaymentMethodID] {
			case domain.PayCash:
				summary.Sales.Cash = summary.Sales.Cash.Add(m.Amount)
			case domain.PayCard:
				summary.Sales.Card = summary.Sales.Card.Add(m.Amount)
			case domain.PayQR:
				summary.Sales.QR = summary.Sales.QR.Add(m.Amount)
			case domain.PayTransfer:
				summary.Sales.Transfer = summary.Sales.Transfer.Add(m.Amount)
			case domain.PayCredit:
				summary.Sales.Credit = summary.Sales.Credit.Add(m.Amount)
			default:
				summary.Sales.Other = summary.Sales.Other.Add(m.Amount)
			}
		case domain.MoveIngress:
			if methodKinds[m.PaymentMethodID] == domain.PayCash {
				summary.OtherCashIngress = summary.OtherCashIngress.Add(m.Amount)
			}
		case domain.MoveEgress:
			if methodKinds[m.PaymentMethodID] == domain.PayCash {
				summary.OtherCashEgress = summary.OtherCashEgress.Add(m.Amount)
			}
		}
	}

	summary.ExpectedCash = session.OpeningAmount.
		Add(summary.Sales.Cash).
		Add(summary.OtherCashIngress).
		Sub(summary.OtherCashEgress)
	summary.Difference = declared.Sub(summary.ExpectedCash)
	return &summary, nil
}

// Confirm stamps the audit confirmation on a declared session. Differences
// beyond the audit threshold require a justification note.
func (s *sessionService) Confirm(ctx context.Context, caller domain.CallerIdentity, sessionID string, note string) (*domain.RegisterSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authSvc.Authorize(caller, domain.PermSessionConfirm); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionConfirmed {
		return nil, ErrAlreadyConfirmed
	}
	if !session.Declared() {
		return nil, ErrNotYetDeclared
	}

	if session.Difference != nil && session.Difference.Abs().GreaterThanOrEqual(s.auditThreshold) && note == "" {
		return nil, ErrJustificationRequired
	}

	now := time.Now().UTC()
	session.Status = domain.SessionConfirmed
	session.ConfirmedBy = &caller.UserID
	session.ConfirmedAt = &now
	if note != "" {
		if session.ClosingNote != "" {
			session.ClosingNote = session.ClosingNote + " | " + note
		} else {
			session.ClosingNote = note
		}
	}

	if err := s.sessionRepo.MarkConfirmed(ctx, *session); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyConfirmed
		}
		logger.Error("Failed to persist session confirmation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist session confirmation: %w", err)
	}

	logger.Info("Register session confirmed",
		slog.String("session_id", session.SessionID),
		slog.Int64("confirmed_by", caller.UserID))
	return session, nil
}

// ActiveSession returns the cashier's currently open session, if any.
func (s *sessionService) ActiveSession(ctx context.Context, cashierID int64) (*domain.RegisterSession, error) {
	return s.sessionRepo.FindOpenSessionByCashier(ctx, cashierID)
}

// GetSession retrieves a session by ID.
func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	return s.sessionRepo.FindSessionByID(ctx, sessionID)
}

// History retrieves a filtered, cursor-paginated page of past sessions.
func (s *sessionService) History(ctx context.Context, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	filter := portsrepo.SessionFilter{CashierID: params.CashierID, From: params.From, To: params.To}
	if params.Status != nil {
		status := domain.SessionStatus(*params.Status)
		switch status {
		case domain.SessionOpen, domain.SessionPendingReview, domain.SessionConfirmed:
			filter.Status = &status
		default:
			return nil, fmt.Errorf("%w: unknown session status %q", apperrors.ErrValidation, *params.Status)
		}
	}

	sessions, nextToken, err := s.sessionRepo.ListSessions(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := &dto.ListSessionsResponse{NextToken: nextToken}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, dto.ToSessionResponse(&sessions[i]))
	}
	return resp, nil
}
