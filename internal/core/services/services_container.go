package services

import (
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Auth first since every other service authorizes through it.
	container.Auth = NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiryDuration)

	// The ledger service is the single posting primitive; the composite
	// services build entries through it.
	container.Ledger = NewLedgerService(repos.LedgerRepo, container.Auth)

	container.Session = NewSessionService(
		repos.SessionRepo,
		repos.ReferenceRepo,
		container.Ledger,
		container.Auth,
		cfg.AuditDifferenceThreshold,
	)
	container.Loan = NewLoanService(repos.LoanRepo, repos.ReferenceRepo, container.Ledger, container.Auth)
	container.Payment = NewPaymentService(repos.LoanRepo, repos.ReferenceRepo, container.Ledger, container.Auth)
	container.Reference = NewReferenceService(repos.ReferenceRepo)

	return container
}
