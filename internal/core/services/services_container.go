package services

import (
	"fmt"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier, clock domain.Clock) (*portssvc.ServiceContainer, error) {
	if clock == nil {
		clock = domain.SystemClock{}
	}

	container := &portssvc.ServiceContainer{Notifier: notifier}

	// The store owns the aggregator for creation totals, the update saga
	// and RepairTotal.
	container.Aggregator = NewDebtAggregator(repos.DebtRepo, repos.ItemRepo, cfg.CreationTotalRule, clock)
	container.Ledger = NewLedgerStore(repos.DebtRepo, repos.ItemRepo, container.Aggregator, WithLedgerClock(clock))
	container.Lifecycle = NewLifecycleController(repos.DebtRepo, container.Ledger, notifier, clock)

	session, err := NewLocalSession(repos.UserRepo, cfg, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create session provider: %w", err)
	}
	container.Session = session
	container.Revoker = session
	container.Google = NewGoogleIdentityService(cfg)

	return container, nil
}
