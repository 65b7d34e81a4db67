package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger_app/internal/models"
	"github.com/SscSPs/credit_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxClientRepository reads the client_profiles directory table, which is
// populated by the surrounding platform.
type PgxClientRepository struct {
	pool *pgxpool.Pool
}

func newPgxClientRepository(pool *pgxpool.Pool) *PgxClientRepository {
	return &PgxClientRepository{pool: pool}
}

var _ portsrepo.ClientDirectory = (*PgxClientRepository)(nil)

// FindClientByID retrieves a client record by its ID.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	var m models.ClientProfile
	err := r.pool.QueryRow(ctx, `
		SELECT client_id, full_name, company_name, email
		FROM client_profiles
		WHERE client_id = $1;`, clientID,
	).Scan(&m.ClientID, &m.FullName, &m.CompanyName, &m.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
		}
		return nil, storeError("failed to find client profile", err)
	}
	client := mapping.ToDomainClient(m)
	return &client, nil
}
