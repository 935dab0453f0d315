package services

// ServiceContainer bundles the service facades handed to the HTTP layer at
// startup.
type ServiceContainer struct {
	Auth      AuthSvcFacade
	Session   SessionSvcFacade
	Loan      LoanSvcFacade
	Payment   PaymentSvcFacade
	Ledger    LedgerSvcFacade
	Reference ReferenceSvcFacade
}
