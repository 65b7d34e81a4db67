package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// CreditRepository is an in-memory credit ledger store for tests and local runs.
// It honours the same version semantics as the PostgreSQL store.
type CreditRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.CreditProfile // keyed by client ID
	entries  map[string][]domain.LedgerEntry // keyed by account ID, insertion order
	seq      int64
}

// NewCreditRepository constructs an empty repository.
func NewCreditRepository() *CreditRepository {
	return &CreditRepository{
		profiles: make(map[string]domain.CreditProfile),
		entries:  make(map[string][]domain.LedgerEntry),
	}
}

var (
	_ portsrepo.CreditRepositoryFacade = (*CreditRepository)(nil)
	_ portsrepo.HealthChecker          = (*CreditRepository)(nil)
)

// CreateProfile stores the profile and its opening entry.
func (r *CreditRepository) CreateProfile(ctx context.Context, profile domain.CreditProfile, grant domain.LedgerEntry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.ClientID]; exists {
		return fmt.Errorf("%w: credit profile for client %s already exists", apperrors.ErrDuplicate, profile.ClientID)
	}
	r.profiles[profile.ClientID] = profile
	r.appendLocked(profile.AccountID, grant)
	return nil
}

// AppendEntry replaces the cached balances and appends entry if the stored
// version still equals expectedVersion.
func (r *CreditRepository) AppendEntry(ctx context.Context, expectedVersion int64, profile domain.CreditProfile, entry domain.LedgerEntry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.guardLocked(profile.ClientID, expectedVersion)
	if err != nil {
		return err
	}
	current.CurrentBalance = profile.CurrentBalance
	current.AvailableCredit = profile.AvailableCredit
	current.LastUpdatedAt = profile.LastUpdatedAt
	current.LastUpdatedBy = profile.LastUpdatedBy
	current.Version = expectedVersion + 1
	r.profiles[profile.ClientID] = current
	r.appendLocked(current.AccountID, entry)
	return nil
}

// UpdateStatus changes the status if the stored version still equals expectedVersion.
func (r *CreditRepository) UpdateStatus(ctx context.Context, clientID string, expectedVersion int64, status domain.CreditStatus, actorID string, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.guardLocked(clientID, expectedVersion)
	if err != nil {
		return err
	}
	current.Status = status
	current.Touch(actorID, at)
	current.Version = expectedVersion + 1
	r.profiles[clientID] = current
	return nil
}

// FindProfileByClientID returns a copy of the stored profile.
func (r *CreditRepository) FindProfileByClientID(ctx context.Context, clientID string) (*domain.CreditProfile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: credit profile for client %s", apperrors.ErrNotFound, clientID)
	}
	return &p, nil
}

// ListProfiles returns profiles ordered by creation time then client ID.
func (r *CreditRepository) ListProfiles(ctx context.Context, status *domain.CreditStatus, limit int, offset int) ([]domain.CreditProfile, error) {
	_ = ctx
	r.mu.RLock()
	all := make([]domain.CreditProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		if status != nil && p.Status != *status {
			continue
		}
		all = append(all, p)
	}
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b domain.CreditProfile) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ClientID, b.ClientID)
	})
	return page(all, offset, limit), nil
}

// ListEntries returns entries newest first; entries sharing a timestamp keep
// insertion order.
func (r *CreditRepository) ListEntries(ctx context.Context, accountID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	matched := r.matching(accountID, filter.Type)
	slices.SortStableFunc(matched, func(a, b domain.LedgerEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return page(matched, filter.Offset, filter.Limit), nil
}

// CountEntries counts entries, optionally of one type.
func (r *CreditRepository) CountEntries(ctx context.Context, accountID string, entryType *domain.EntryType) (int, error) {
	return len(r.matching(accountID, entryType)), nil
}

// SumEntries sums every entry amount of the account.
func (r *CreditRepository) SumEntries(ctx context.Context, accountID string) (decimal.Decimal, int, error) {
	entries := r.matching(accountID, nil)
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum, len(entries), nil
}

// Ping always succeeds.
func (r *CreditRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *CreditRepository) guardLocked(clientID string, expectedVersion int64) (domain.CreditProfile, error) {
	current, ok := r.profiles[clientID]
	if !ok {
		return domain.CreditProfile{}, fmt.Errorf("%w: credit profile for client %s", apperrors.ErrNotFound, clientID)
	}
	if current.Version != expectedVersion {
		return domain.CreditProfile{}, fmt.Errorf("%w: credit profile for client %s is at version %d, expected %d",
			apperrors.ErrConflict, clientID, current.Version, expectedVersion)
	}
	return current, nil
}

func (r *CreditRepository) appendLocked(accountID string, entry domain.LedgerEntry) {
	r.seq++
	entry.Sequence = r.seq
	entry.Metadata = maps.Clone(entry.Metadata)
	r.entries[accountID] = append(r.entries[accountID], entry)
}

func (r *CreditRepository) matching(accountID string, entryType *domain.EntryType) []domain.LedgerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.entries[accountID]
	out := make([]domain.LedgerEntry, 0, len(src))
	for _, e := range src {
		if entryType != nil && e.Type != *entryType {
			continue
		}
		out = append(out, e)
	}
	return out
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
