package services

import (
	"context"

	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
)

// referenceService exposes catalog reads for client lookups.
type referenceService struct {
	referenceRepo portsrepo.ReferenceRepositoryFacade
}

// NewReferenceService creates the catalog lookup service.
func NewReferenceService(referenceRepo portsrepo.ReferenceRepositoryFacade) portssvc.ReferenceSvcFacade {
	return &referenceService{referenceRepo: referenceRepo}
}

var _ portssvc.ReferenceSvcFacade = (*referenceService)(nil)

func (s *referenceService) ListTills(ctx context.Context) ([]domain.Till, error) {
	return s.referenceRepo.ListTills(ctx)
}

func (s *referenceService) ListRates(ctx context.Context) ([]domain.InterestRate, error) {
	return s.referenceRepo.ListRates(ctx)
}

func (s *referenceService) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return s.referenceRepo.ListPaymentMethods(ctx)
}
