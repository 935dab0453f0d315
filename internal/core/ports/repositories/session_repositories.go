package repositories

import (
	"context"
	"time"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// SessionFilter narrows the session history listing.
type SessionFilter struct {
	CashierID *int64
	Status    *domain.SessionStatus
	From      *time.Time
	To        *time.Time
}

// SessionRepositoryFacade persists register sessions and their movements.
type SessionRepositoryFacade interface {
	// CreateSession inserts the session and, when the till was funded, its
	// opening movement and opening journal entry, all in one transaction.
	// Unique-violation on the open-session partial indexes surfaces as
	// apperrors.ErrConflict.
	CreateSession(ctx context.Context, session domain.RegisterSession, opening *domain.RegisterMovement, entry *domain.JournalEntry) error

	FindSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error)
	FindOpenSessionByCashier(ctx context.Context, cashierID int64) (*domain.RegisterSession, error)
	FindOpenSessionByTill(ctx context.Context, tillID int64) (*domain.RegisterSession, error)

	SaveMovement(ctx context.Context, movement domain.RegisterMovement) error
	ListMovementsBySession(ctx context.Context, sessionID string) ([]domain.RegisterMovement, error)

	// MarkDeclaredClosed persists the closing totals and moves the session
	// to PENDING_REVIEW, guarded by status = OPEN so a concurrent close
	// loses with apperrors.ErrConflict.
	MarkDeclaredClosed(ctx context.Context, session domain.RegisterSession) error

	// MarkConfirmed stamps the confirmation, guarded by an absent
	// confirmation timestamp for the same reason.
	MarkConfirmed(ctx context.Context, session domain.RegisterSession) error

	ListSessions(ctx context.Context, filter SessionFilter, limit int, nextToken *string) ([]domain.RegisterSession, *string, error)
}
