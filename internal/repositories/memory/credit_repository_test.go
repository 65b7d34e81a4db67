package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/SscSPs/credit_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CreditRepositoryTestSuite struct {
	suite.Suite
	repo    *memory.CreditRepository
	ctx     context.Context
	base    time.Time
	profile domain.CreditProfile
}

func (s *CreditRepositoryTestSuite) SetupTest() {
	s.repo = memory.NewCreditRepository()
	s.ctx = context.Background()
	s.base = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s.profile = domain.CreditProfile{
		AccountID:       "acc-1",
		ClientID:        "client-1",
		CreditLimit:     decimal.NewFromInt(1000),
		AvailableCredit: decimal.NewFromInt(1000),
		Status:          domain.CreditStatusActive,
		Version:         1,
		AuditFields:     domain.NewAuditFields("admin", s.base),
	}
	grant := domain.LedgerEntry{EntryID: "grant", AccountID: "acc-1", Type: domain.EntryTypeCreditGranted, CreatedAt: s.base}
	s.Require().NoError(s.repo.CreateProfile(s.ctx, s.profile, grant))
}

func (s *CreditRepositoryTestSuite) entry(id string, at time.Time, amount int64, balanceAfter int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      id,
		AccountID:    "acc-1",
		ClientID:     "client-1",
		Type:         domain.EntryTypePurchase,
		Amount:       decimal.NewFromInt(amount),
		BalanceAfter: decimal.NewFromInt(balanceAfter),
		CreatedAt:    at,
	}
}

func (s *CreditRepositoryTestSuite) TestCreateProfile_Duplicate() {
	dup := s.profile
	dup.AccountID = "acc-2"
	dup.CreditLimit = decimal.NewFromInt(99)

	err := s.repo.CreateProfile(s.ctx, dup, domain.LedgerEntry{EntryID: "g2", AccountID: "acc-2"})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	stored, err := s.repo.FindProfileByClientID(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Equal("acc-1", stored.AccountID)
	s.True(decimal.NewFromInt(1000).Equal(stored.CreditLimit))
}

func (s *CreditRepositoryTestSuite) TestAppendEntry_BumpsVersion() {
	updated := s.profile
	updated.CurrentBalance = decimal.NewFromInt(100)
	updated.AvailableCredit = decimal.NewFromInt(900)

	s.Require().NoError(s.repo.AppendEntry(s.ctx, 1, updated, s.entry("e1", s.base.Add(time.Minute), 100, 100)))

	stored, err := s.repo.FindProfileByClientID(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Equal(int64(2), stored.Version)
	s.True(decimal.NewFromInt(100).Equal(stored.CurrentBalance))

	sum, count, err := s.repo.SumEntries(s.ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal(2, count)
	s.True(sum.Equal(stored.CurrentBalance))
}

func (s *CreditRepositoryTestSuite) TestAppendEntry_StaleVersionConflicts() {
	s.Require().NoError(s.repo.AppendEntry(s.ctx, 1, s.profile, s.entry("e1", s.base, 0, 0)))

	err := s.repo.AppendEntry(s.ctx, 1, s.profile, s.entry("e2", s.base, 0, 0))
	s.ErrorIs(err, apperrors.ErrConflict)

	count, err := s.repo.CountEntries(s.ctx, "acc-1", nil)
	s.Require().NoError(err)
	s.Equal(2, count, "conflicting append must not add an entry")
}

func (s *CreditRepositoryTestSuite) TestAppendEntry_UnknownProfile() {
	ghost := s.profile
	ghost.ClientID = "nobody"
	err := s.repo.AppendEntry(s.ctx, 1, ghost, s.entry("e1", s.base, 0, 0))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CreditRepositoryTestSuite) TestUpdateStatus() {
	s.Require().NoError(s.repo.UpdateStatus(s.ctx, "client-1", 1, domain.CreditStatusSuspended, "admin", s.base.Add(time.Hour)))
	s.ErrorIs(s.repo.UpdateStatus(s.ctx, "client-1", 1, domain.CreditStatusActive, "admin", s.base), apperrors.ErrConflict)

	stored, err := s.repo.FindProfileByClientID(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Equal(domain.CreditStatusSuspended, stored.Status)
	s.Equal(int64(2), stored.Version)
}

func (s *CreditRepositoryTestSuite) TestListEntries_PaginationIsStable() {
	version := int64(1)
	// Two pairs share a timestamp so ordering falls back to insertion order.
	stamps := []time.Time{s.base.Add(1 * time.Minute), s.base.Add(2 * time.Minute), s.base.Add(2 * time.Minute), s.base.Add(3 * time.Minute), s.base.Add(3 * time.Minute)}
	for i, at := range stamps {
		s.Require().NoError(s.repo.AppendEntry(s.ctx, version, s.profile, s.entry(fmt.Sprintf("e%d", i+1), at, 1, int64(i+1))))
		version++
	}

	var seen []string
	for offset := 0; offset < 8; offset += 2 {
		page, err := s.repo.ListEntries(s.ctx, "acc-1", domain.EntryFilter{Offset: offset, Limit: 2})
		s.Require().NoError(err)
		for _, e := range page {
			seen = append(seen, e.EntryID)
		}
	}

	s.Equal([]string{"e4", "e5", "e2", "e3", "e1", "grant"}, seen)
}

func (s *CreditRepositoryTestSuite) TestListEntries_TypeFilter() {
	s.Require().NoError(s.repo.AppendEntry(s.ctx, 1, s.profile, s.entry("e1", s.base.Add(time.Minute), 5, 5)))

	purchase := domain.EntryTypePurchase
	entries, err := s.repo.ListEntries(s.ctx, "acc-1", domain.EntryFilter{Type: &purchase, Limit: 10})
	s.Require().NoError(err)
	s.Len(entries, 1)
	s.Equal("e1", entries[0].EntryID)

	count, err := s.repo.CountEntries(s.ctx, "acc-1", &purchase)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestCreditRepository(t *testing.T) {
	suite.Run(t, new(CreditRepositoryTestSuite))
}

func TestListProfiles(t *testing.T) {
	repo := memory.NewCreditRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []domain.CreditStatus{domain.CreditStatusActive, domain.CreditStatusSuspended, domain.CreditStatusActive} {
		p := domain.CreditProfile{
			AccountID:   fmt.Sprintf("acc-%d", i),
			ClientID:    fmt.Sprintf("client-%d", i),
			Status:      status,
			Version:     1,
			AuditFields: domain.NewAuditFields("admin", base.Add(time.Duration(i)*time.Hour)),
		}
		require.NoError(t, repo.CreateProfile(ctx, p, domain.LedgerEntry{AccountID: p.AccountID}))
	}

	all, err := repo.ListProfiles(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "client-0", all[0].ClientID)

	active := domain.CreditStatusActive
	onlyActive, err := repo.ListProfiles(ctx, &active, 1, 1)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "client-2", onlyActive[0].ClientID)
}
