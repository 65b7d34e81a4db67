package pgsql

import (
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	creditRepo := newPgxCreditRepository(dbPool)
	clientRepo := newPgxClientRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CreditRepo: creditRepo,
		ClientRepo: clientRepo,
		Health:     &creditRepo.BaseRepository,
	}
}
