package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer at startup.
type RepositoryProvider struct {
	TransactionRepo TransactionRepositoryFacade
	EntityRepo      EntityRepositoryFacade
}
