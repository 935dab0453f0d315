package repositories

// RepositoryProvider bundles the repository facades handed to the service
// layer at startup.
type RepositoryProvider struct {
	LedgerRepo    LedgerRepositoryFacade
	SessionRepo   SessionRepositoryFacade
	LoanRepo      LoanRepositoryFacade
	ReferenceRepo ReferenceRepositoryFacade
	UserRepo      UserRepositoryFacade
}
