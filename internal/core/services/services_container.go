package services

import (
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Credit: NewCreditService(
			repos.CreditRepo,
			repos.ClientRepo,
			WithCreditPolicy(cfg.Policy),
			WithMaxConflictRetries(cfg.MaxConflictRetries),
		),
	}
}
