package services

import (
	"context"

	"github.com/prestaflow/lending_backend/internal/core/domain"
	"github.com/prestaflow/lending_backend/internal/dto"
)

// AuthSvcFacade is the identity collaborator: it resolves a credential to
// a caller identity with a precomputed permission set, and answers the
// single authorization question the core operations ask.
type AuthSvcFacade interface {
	// Login validates the username/password credential and issues a signed
	// token whose claims carry the permission set.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// ResolveToken validates a bearer token and returns the identity it
	// encodes.
	ResolveToken(ctx context.Context, token string) (*domain.CallerIdentity, error)

	// Authorize returns apperrors.ErrForbidden unless the caller holds the
	// permission (or the administrative override).
	Authorize(caller domain.CallerIdentity, permission string) error
}

// ReferenceSvcFacade lists catalog data for lookups. No business invariant.
type ReferenceSvcFacade interface {
	ListTills(ctx context.Context) ([]domain.Till, error)
	ListRates(ctx context.Context) ([]domain.InterestRate, error)
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
}
