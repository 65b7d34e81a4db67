package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreditProfileReader defines read operations for credit profiles
type CreditProfileReader interface {
	// FindProfileByClientID returns the profile owned by clientID, or apperrors.ErrNotFound.
	FindProfileByClientID(ctx context.Context, clientID string) (*domain.CreditProfile, error)

	// ListProfiles returns profiles ordered by creation time, optionally filtered by status.
	ListProfiles(ctx context.Context, status *domain.CreditStatus, limit int, offset int) ([]domain.CreditProfile, error)
}

// CreditProfileWriter defines write operations for credit profiles.
// Every mutation is guarded by the profile version read by the caller.
type CreditProfileWriter interface {
	// CreateProfile stores a new profile together with its opening ledger entry.
	// Returns apperrors.ErrDuplicate if the client already has a profile.
	CreateProfile(ctx context.Context, profile domain.CreditProfile, grant domain.LedgerEntry) error

	// AppendEntry atomically replaces the cached balances of profile and appends entry.
	// Fails with apperrors.ErrConflict when the stored version no longer equals
	// expectedVersion, and apperrors.ErrNotFound when the profile is gone.
	// On success the stored version is expectedVersion+1.
	AppendEntry(ctx context.Context, expectedVersion int64, profile domain.CreditProfile, entry domain.LedgerEntry) error

	// UpdateStatus changes the lifecycle status under the same version guard.
	UpdateStatus(ctx context.Context, clientID string, expectedVersion int64, status domain.CreditStatus, actorID string, at time.Time) error
}

// LedgerReader defines read operations over the append-only ledger
type LedgerReader interface {
	// ListEntries returns entries newest first, ties broken by insertion order.
	ListEntries(ctx context.Context, accountID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error)

	// CountEntries counts entries, optionally only those of one type.
	CountEntries(ctx context.Context, accountID string, entryType *domain.EntryType) (int, error)

	// SumEntries returns the sum of all entry amounts and the entry count.
	SumEntries(ctx context.Context, accountID string) (decimal.Decimal, int, error)
}

// ClientDirectory resolves client references against the external profile store.
type ClientDirectory interface {
	// FindClientByID returns the client or apperrors.ErrNotFound.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
}

// CreditRepositoryFacade combines all credit ledger repository interfaces
type CreditRepositoryFacade interface {
	CreditProfileReader
	CreditProfileWriter
	LedgerReader
}
