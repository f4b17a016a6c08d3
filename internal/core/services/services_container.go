package services

import (
	portsrepo "github.com/heraerp/txn-ledger/internal/core/ports/repositories"
	portssvc "github.com/heraerp/txn-ledger/internal/core/ports/services"
	"github.com/heraerp/txn-ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Entity = NewEntityService(repos.EntityRepo)
	container.Ledger = NewLedgerService(
		repos.TransactionRepo,
		repos.EntityRepo,
		WithBalanceTolerance(cfg.BalanceTolerance),
		WithMultipleReversals(cfg.AllowMultipleReversals),
	)

	return container
}
