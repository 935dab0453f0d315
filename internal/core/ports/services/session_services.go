package services

import (
	"context"

	"github.com/prestaflow/lending_backend/internal/core/domain"
	"github.com/prestaflow/lending_backend/internal/dto"
)

// SessionSvcFacade owns the register-session state machine and its
// audit-confirmation workflow.
type SessionSvcFacade interface {
	Open(ctx context.Context, caller domain.CallerIdentity, req dto.OpenSessionRequest) (*domain.RegisterSession, error)
	RecordMovement(ctx context.Context, caller domain.CallerIdentity, req dto.RecordMovementRequest) (*domain.RegisterMovement, error)
	DeclareClose(ctx context.Context, caller domain.CallerIdentity, req dto.DeclareCloseRequest) (*domain.CloseSummary, error)
	Confirm(ctx context.Context, caller domain.CallerIdentity, sessionID string, note string) (*domain.RegisterSession, error)

	ActiveSession(ctx context.Context, cashierID int64) (*domain.RegisterSession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.RegisterSession, error)
	History(ctx context.Context, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error)
}
