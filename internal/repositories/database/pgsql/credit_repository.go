package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger_app/internal/models"
	"github.com/SscSPs/credit_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const profileColumns = `account_id, client_id, credit_limit, current_balance, available_credit, status,
	payment_terms, payment_term_days, interest_rate, approved_at, version,
	created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `transaction_id, sequence, account_id, client_id, type, amount, balance_after,
	description, metadata, created_at, created_by`

// PgxCreditRepository stores credit profiles and their ledgers in PostgreSQL.
type PgxCreditRepository struct {
	BaseRepository
}

// newPgxCreditRepository creates a new repository for credit ledger data.
func newPgxCreditRepository(pool *pgxpool.Pool) *PgxCreditRepository {
	return &PgxCreditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CreditRepositoryFacade = (*PgxCreditRepository)(nil)

// CreateProfile inserts the profile and its opening entry in one transaction.
func (r *PgxCreditRepository) CreateProfile(ctx context.Context, profile domain.CreditProfile, grant domain.LedgerEntry) (err error) {
	m := mapping.ToModelCreditProfile(profile)
	row, err := mapping.ToModelCreditTransaction(grant)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO credit_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
		m.AccountID, m.ClientID, m.CreditLimit, m.CurrentBalance, m.AvailableCredit, m.Status,
		m.PaymentTerms, m.PaymentTermDays, m.InterestRate, m.ApprovedAt, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: credit profile for client %s already exists", apperrors.ErrDuplicate, m.ClientID)
		}
		return storeError("failed to insert credit profile", err)
	}

	if err = insertEntry(ctx, tx, row); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// AppendEntry updates the cached balances under the version guard and appends
// the entry. Both writes share one transaction.
func (r *PgxCreditRepository) AppendEntry(ctx context.Context, expectedVersion int64, profile domain.CreditProfile, entry domain.LedgerEntry) (err error) {
	row, err := mapping.ToModelCreditTransaction(entry)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE credit_profiles
		SET current_balance = $3, available_credit = $4, version = version + 1,
			last_updated_at = $5, last_updated_by = $6
		WHERE client_id = $1 AND version = $2;`,
		profile.ClientID, expectedVersion, profile.CurrentBalance, profile.AvailableCredit,
		profile.LastUpdatedAt, profile.LastUpdatedBy,
	)
	if err != nil {
		return storeError("failed to update credit profile balances", err)
	}
	if tag.RowsAffected() == 0 {
		err = r.versionMiss(ctx, tx, profile.ClientID, expectedVersion)
		return err
	}

	if err = insertEntry(ctx, tx, row); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateStatus changes the profile status under the version guard.
func (r *PgxCreditRepository) UpdateStatus(ctx context.Context, clientID string, expectedVersion int64, status domain.CreditStatus, actorID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE credit_profiles
		SET status = $3, version = version + 1, last_updated_at = $4, last_updated_by = $5
		WHERE client_id = $1 AND version = $2;`,
		clientID, expectedVersion, string(status), at, actorID,
	)
	if err != nil {
		return storeError("failed to update credit profile status", err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionMiss(ctx, r.Pool, clientID, expectedVersion)
	}
	return nil
}

// versionMiss tells a vanished profile apart from a concurrent update.
func (r *PgxCreditRepository) versionMiss(ctx context.Context, q querier, clientID string, expectedVersion int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM credit_profiles WHERE client_id = $1);`, clientID).Scan(&exists); err != nil {
		return storeError("failed to check credit profile existence", err)
	}
	if !exists {
		return fmt.Errorf("%w: credit profile for client %s", apperrors.ErrNotFound, clientID)
	}
	return fmt.Errorf("%w: credit profile for client %s moved past version %d", apperrors.ErrConflict, clientID, expectedVersion)
}

// FindProfileByClientID retrieves the profile owned by clientID.
func (r *PgxCreditRepository) FindProfileByClientID(ctx context.Context, clientID string) (*domain.CreditProfile, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM credit_profiles WHERE client_id = $1;`, clientID)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: credit profile for client %s", apperrors.ErrNotFound, clientID)
		}
		return nil, storeError("failed to find credit profile", err)
	}
	return profile, nil
}

// ListProfiles returns profiles in creation order.
func (r *PgxCreditRepository) ListProfiles(ctx context.Context, status *domain.CreditStatus, limit int, offset int) ([]domain.CreditProfile, error) {
	var statusParam *string
	if status != nil {
		s := string(*status)
		statusParam = &s
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM credit_profiles
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at ASC, client_id ASC
		LIMIT $2 OFFSET $3;`,
		statusParam, limit, offset,
	)
	if err != nil {
		return nil, storeError("failed to list credit profiles", err)
	}
	defer rows.Close()

	profiles := make([]domain.CreditProfile, 0, limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storeError("failed to scan credit profile", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating credit profiles", err)
	}
	return profiles, nil
}

// ListEntries returns one page of the ledger, newest first.
func (r *PgxCreditRepository) ListEntries(ctx context.Context, accountID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM credit_transactions
		WHERE account_id = $1 AND ($2::text IS NULL OR type = $2)
		ORDER BY created_at DESC, sequence ASC
		LIMIT $3 OFFSET $4;`,
		accountID, entryTypeParam(filter.Type), filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, storeError("failed to list ledger entries", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, filter.Limit)
	for rows.Next() {
		var m models.CreditTransaction
		if err := rows.Scan(
			&m.TransactionID, &m.Sequence, &m.AccountID, &m.ClientID, &m.Type, &m.Amount, &m.BalanceAfter,
			&m.Description, &m.Metadata, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, storeError("failed to scan ledger entry", err)
		}
		entry, err := mapping.ToDomainLedgerEntry(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating ledger entries", err)
	}
	return entries, nil
}

// CountEntries counts ledger entries, optionally of a single type.
func (r *PgxCreditRepository) CountEntries(ctx context.Context, accountID string, entryType *domain.EntryType) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM credit_transactions
		WHERE account_id = $1 AND ($2::text IS NULL OR type = $2);`,
		accountID, entryTypeParam(entryType),
	).Scan(&count)
	if err != nil {
		return 0, storeError("failed to count ledger entries", err)
	}
	return count, nil
}

// SumEntries replays the ledger in the database.
func (r *PgxCreditRepository) SumEntries(ctx context.Context, accountID string) (decimal.Decimal, int, error) {
	var sum decimal.Decimal
	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM credit_transactions WHERE account_id = $1;`,
		accountID,
	).Scan(&sum, &count)
	if err != nil {
		return decimal.Zero, 0, storeError("failed to sum ledger entries", err)
	}
	return sum, count, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertEntry(ctx context.Context, tx pgx.Tx, m models.CreditTransaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (transaction_id, account_id, client_id, type, amount, balance_after,
			description, metadata, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		m.TransactionID, m.AccountID, m.ClientID, m.Type, m.Amount, m.BalanceAfter,
		m.Description, m.Metadata, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ledger entry %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return storeError("failed to insert ledger entry", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.CreditProfile, error) {
	var m models.CreditProfile
	err := row.Scan(
		&m.AccountID, &m.ClientID, &m.CreditLimit, &m.CurrentBalance, &m.AvailableCredit, &m.Status,
		&m.PaymentTerms, &m.PaymentTermDays, &m.InterestRate, &m.ApprovedAt, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	p := mapping.ToDomainCreditProfile(m)
	return &p, nil
}

func entryTypeParam(t *domain.EntryType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}
