package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	sessionRepo := newPgxSessionRepository(dbPool, ledgerRepo)
	loanRepo := newPgxLoanRepository(dbPool, ledgerRepo)
	referenceRepo := newPgxReferenceRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerRepo:    ledgerRepo,
		SessionRepo:   sessionRepo,
		LoanRepo:      loanRepo,
		ReferenceRepo: referenceRepo,
		UserRepo:      userRepo,
	}
}
