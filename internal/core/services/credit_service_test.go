package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger_app/internal/core/services"
	"github.com/SscSPs/credit_ledger_app/internal/dto"
	"github.com/SscSPs/credit_ledger_app/internal/platform/config"
	"github.com/SscSPs/credit_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock CreditRepository ---
type MockCreditRepository struct {
	mock.Mock
}

var _ portsrepo.CreditRepositoryFacade = (*MockCreditRepository)(nil)

func (m *MockCreditRepository) FindProfileByClientID(ctx context.Context, clientID string) (*domain.CreditProfile, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditProfile), args.Error(1)
}

func (m *MockCreditRepository) ListProfiles(ctx context.Context, status *domain.CreditStatus, limit int, offset int) ([]domain.CreditProfile, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditProfile), args.Error(1)
}

func (m *MockCreditRepository) CreateProfile(ctx context.Context, profile domain.CreditProfile, grant domain.LedgerEntry) error {
	args := m.Called(ctx, profile, grant)
	return args.Error(0)
}

func (m *MockCreditRepository) AppendEntry(ctx context.Context, expectedVersion int64, profile domain.CreditProfile, entry domain.LedgerEntry) error {
	args := m.Called(ctx, expectedVersion, profile, entry)
	return args.Error(0)
}

func (m *MockCreditRepository) UpdateStatus(ctx context.Context, clientID string, expectedVersion int64, status domain.CreditStatus, actorID string, at time.Time) error {
	args := m.Called(ctx, clientID, expectedVersion, status, actorID, at)
	return args.Error(0)
}

func (m *MockCreditRepository) ListEntries(ctx context.Context, accountID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockCreditRepository) CountEntries(ctx context.Context, accountID string, entryType *domain.EntryType) (int, error) {
	args := m.Called(ctx, accountID, entryType)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditRepository) SumEntries(ctx context.Context, accountID string) (decimal.Decimal, int, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

// stepClock advances one second per reading so entries get distinct timestamps.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

var (
	admin  = domain.Capability{ActorID: "admin-1", Roles: []domain.Role{domain.RoleAdmin}}
	client = domain.Capability{ActorID: "client-1", Roles: []domain.Role{domain.RoleClient}}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// --- Suite over the in-memory store ---

type CreditServiceTestSuite struct {
	suite.Suite
	repo    *memory.CreditRepository
	clients *memory.ClientDirectory
	service portssvc.CreditSvcFacade
	ctx     context.Context
}

func (s *CreditServiceTestSuite) SetupTest() {
	s.repo = memory.NewCreditRepository()
	s.clients = memory.NewClientDirectory(
		domain.Client{ClientID: "client-1", FullName: "Ada Lovelace", Email: "ada@example.com"},
		domain.Client{ClientID: "client-2", FullName: "Alan Turing", Email: "alan@example.com"},
	)
	clock := &stepClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s.service = services.NewCreditService(s.repo, s.clients,
		services.WithClock(clock.Now),
		services.WithMaxConflictRetries(10),
	)
	s.ctx = context.Background()
}

func (s *CreditServiceTestSuite) open(clientID, limit string) *domain.CreditProfile {
	p, err := s.service.CreateCreditProfile(s.ctx, admin, dto.CreateCreditProfileRequest{ClientID: clientID, CreditLimit: decPtr(limit)})
	s.Require().NoError(err)
	return p
}

func (s *CreditServiceTestSuite) purchase(clientID, amount string) *domain.BalanceChange {
	change, err := s.service.RecordPurchase(s.ctx, admin, clientID, dto.RecordPurchaseRequest{Amount: dec(amount)})
	s.Require().NoError(err)
	return change
}

func (s *CreditServiceTestSuite) assertConsistent(clientID string) {
	result, err := s.service.VerifyLedger(s.ctx, admin, clientID)
	s.Require().NoError(err)
	s.True(result.Consistent, "cached %s replayed %s", result.CachedBalance, result.ReplayedBalance)
}

func (s *CreditServiceTestSuite) TestCreateCreditProfile_Defaults() {
	p, err := s.service.CreateCreditProfile(s.ctx, admin, dto.CreateCreditProfileRequest{ClientID: "client-1"})
	s.Require().NoError(err)

	s.True(dec("5000").Equal(p.CreditLimit))
	s.True(p.CurrentBalance.IsZero())
	s.True(dec("5000").Equal(p.AvailableCredit))
	s.Equal(domain.PaymentTermsNet30, p.PaymentTerms)
	s.Equal(30, p.PaymentTermDays)
	s.True(p.InterestRate.IsZero())
	s.Equal(domain.CreditStatusActive, p.Status)
	s.Equal("admin-1", p.CreatedBy)

	page, err := s.service.ListTransactions(s.ctx, admin, "client-1", dto.ListCreditTransactionsParams{})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal(domain.EntryTypeCreditGranted, page.Entries[0].Type)
	s.assertConsistent("client-1")
}

func (s *CreditServiceTestSuite) TestCreateCreditProfile_Duplicate() {
	s.open("client-1", "1000")

	_, err := s.service.CreateCreditProfile(s.ctx, admin, dto.CreateCreditProfileRequest{ClientID: "client-1", CreditLimit: decPtr("2000")})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	details, err := s.service.GetCreditProfile(s.ctx, admin, "client-1")
	s.Require().NoError(err)
	s.True(dec("1000").Equal(details.Profile.CreditLimit), "existing profile must be unchanged")
}

func (s *CreditServiceTestSuite) TestCreateCreditProfile_Rejections() {
	tests := []struct {
		name       string
		capability domain.Capability
		req        dto.CreateCreditProfileRequest
		wantErr    error
	}{
		{"unknown client", admin, dto.CreateCreditProfileRequest{ClientID: "ghost"}, apperrors.ErrClientNotFound},
		{"client cannot open", client, dto.CreateCreditProfileRequest{ClientID: "client-1"}, apperrors.ErrForbidden},
		{"above policy maximum", admin, dto.CreateCreditProfileRequest{ClientID: "client-1", CreditLimit: decPtr("2000000")}, apperrors.ErrInvalidAmount},
		{"three decimals", admin, dto.CreateCreditProfileRequest{ClientID: "client-1", CreditLimit: decPtr("1000.001")}, apperrors.ErrValidation},
		{"rate above one", admin, dto.CreateCreditProfileRequest{ClientID: "client-1", InterestRate: decPtr("1.5")}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateCreditProfile(s.ctx, tt.capability, tt.req)
			s.ErrorIs(err, tt.wantErr)
		})
	}

	_, err := s.repo.FindProfileByClientID(s.ctx, "client-1")
	s.ErrorIs(err, apperrors.ErrNotFound, "rejected creations must not persist")
}

func (s *CreditServiceTestSuite) TestCreateCreditProfile_ZeroLimit() {
	p := s.open("client-1", "0")
	s.True(p.CreditLimit.IsZero())
	s.True(p.AvailableCredit.IsZero())

	summary, err := s.service.GetSummary(s.ctx, admin, "client-1")
	s.Require().NoError(err)
	s.True(summary.UtilizationPercent.IsZero())
	s.Equal(int64(0), summary.UtilizationBadge)

	_, err = s.service.RecordPurchase(s.ctx, admin, "client-1", dto.RecordPurchaseRequest{Amount: dec("1")})
	s.ErrorIs(err, apperrors.ErrInsufficientCredit)
	s.assertConsistent("client-1")
}

func (s *CreditServiceTestSuite) TestCreateCreditProfile_PolicyMinimum() {
	policy := config.DefaultCreditPolicy()
	policy.MinCreditLimit = dec("100")
	svc := services.NewCreditService(s.repo, s.clients, services.WithCreditPolicy(policy))

	_, err := svc.CreateCreditProfile(s.ctx, admin, dto.CreateCreditProfileRequest{ClientID: "client-1", CreditLimit: decPtr("50")})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = svc.CreateCreditProfile(s.ctx, admin, dto.CreateCreditProfileRequest{ClientID: "client-1", CreditLimit: decPtr("100")})
	s.NoError(err)
}

func (s *CreditServiceTestSuite) TestPurchaseAndPayment() {
	s.open("client-1", "1000")

	change := s.purchase("client-1", "400")
	s.True(dec("400").Equal(change.NewBalance))
	s.True(dec("600").Equal(change.NewAvailable))

	// A client may pay its own account.
	change, err := s.service.RecordPayment(s.ctx, client, "client-1", dto.RecordPaymentRequest{Amount: dec("100"), Reference: "INV-7"})
	s.Require().NoError(err)
	s.True(dec("300").Equal(change.NewBalance))
	s.True(dec("700").Equal(change.NewAvailable))
	s.Equal("BANK_TRANSFER", change.Entry.Metadata["method"])
	s.Equal("client-1", change.Entry.CreatedBy)

	details, err := s.service.GetCreditProfile(s.ctx, client, "client-1")
	s.Require().NoError(err)
	s.Equal(int64(3), details.Profile.Version)
	s.Require().NotNil(details.Client)
	s.Equal("Ada Lovelace", details.Client.FullName)
	s.assertConsistent("client-1")
}

func (s *CreditServiceTestSuite) TestPurchase_Rejections() {
	s.open("client-1", "1000")

	_, err := s.service.RecordPurchase(s.ctx, admin, "client-1", dto.RecordPurchaseRequest{Amount: dec("1000.01")})
	s.ErrorIs(err, apperrors.ErrInsufficientCredit)

	_, err = s.service.RecordPurchase(s.ctx, admin, "client-1", dto.RecordPurchaseRequest{Amount: dec("0")})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.service.RecordPurchase(s.ctx, client, "client-1", dto.RecordPurchaseRequest{Amount: dec("10")})
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.service.RecordPurchase(s.ctx, admin, "client-2", dto.RecordPurchaseRequest{Amount: dec("10")})
	s.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (s *CreditServiceTestSuite) TestPayment_OtherClientForbidden() {
	s.open("client-2", "1000")
	_, err := s.service.RecordPayment(s.ctx, client, "client-2", dto.RecordPaymentRequest{Amount: dec("10")})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *CreditServiceTestSuite) TestAdjustment_MissingReasonChangesNothing() {
	s.open("client-1", "1000")
	s.purchase("client-1", "200")

	_, err := s.service.ApplyAdjustment(s.ctx, admin, "client-1", dto.ApplyAdjustmentRequest{Type: domain.AdjustmentCredit, Amount: dec("-50"), Reason: "  "})
	s.ErrorIs(err, apperrors.ErrMissingReason)

	_, err = s.service.ApplyAdjustment(s.ctx, admin, "client-1", dto.ApplyAdjustmentRequest{Type: "BONUS", Amount: dec("10"), Reason: "x"})
	s.ErrorIs(err, apperrors.ErrInvalidType)

	_, err = s.service.ApplyAdjustment(s.ctx, admin, "client-1", dto.ApplyAdjustmentRequest{Type: domain.AdjustmentCredit, Amount: dec("-500"), Reason: "goodwill"})
	s.ErrorIs(err, apperrors.ErrWouldGoNegative)

	summary, err := s.service.GetSummary(s.ctx, admin, "client-1")
	s.Require().NoError(err)
	s.Equal(2, summary.TotalTransactionCount)
	s.True(dec("200").Equal(summary.CurrentBalance))
}

func (s *CreditServiceTestSuite) TestAdjustment_Applied() {
	s.open("client-1", "1000")
	s.purchase("client-1", "200")

	change, err := s.service.ApplyAdjustment(s.ctx, admin, "client-1", dto.ApplyAdjustmentRequest{Type: domain.AdjustmentFee, Amount: dec("-25"), Reason: "late fee"})
	s.Require().NoError(err)
	s.True(dec("225").Equal(change.NewBalance))
	s.Equal(domain.EntryTypeAdjustmentFee, change.Entry.Type)
	s.Equal("Manual adjustment: late fee", change.Entry.Description)

	_, err = s.service.ApplyAdjustment(s.ctx, client, "client-1", dto.ApplyAdjustmentRequest{Type: domain.AdjustmentFee, Amount: dec("5"), Reason: "x"})
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.assertConsistent("client-1")
}

func (s *CreditServiceTestSuite) TestAccrueInterest() {
	_, err := s.service.CreateCreditProfile(s.ctx, admin, dto.CreateCreditProfileRequest{
		ClientID: "client-1", CreditLimit: decPtr("1000"), InterestRate: decPtr("0.12"),
	})
	s.Require().NoError(err)

	_, err = s.service.AccrueInterest(s.ctx, admin, "client-1", dto.AccrueInterestRequest{Days: 30})
	s.ErrorIs(err, apperrors.ErrInvalidAmount, "nothing accrues on a zero balance")

	s.purchase("client-1", "1000")
	change, err := s.service.AccrueInterest(s.ctx, admin, "client-1", dto.AccrueInterestRequest{Days: 30})
	s.Require().NoError(err)
	s.True(dec("9.86").Equal(change.Entry.Amount))
	s.True(dec("1009.86").Equal(change.NewBalance))

	_, err = s.service.AccrueInterest(s.ctx, admin, "client-1", dto.AccrueInterestRequest{Days: 0})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.assertConsistent("client-1")
}

func (s *CreditServiceTestSuite) TestUpdateStatus() {
	s.open("client-1", "1000")

	p, err := s.service.UpdateStatus(s.ctx, admin, "client-1", dto.UpdateCreditStatusRequest{Status: domain.CreditStatusSuspended, Reason: "overdue"})
	s.Require().NoError(err)
	s.Equal(domain.CreditStatusSuspended, p.Status)

	_, err = s.service.RecordPurchase(s.ctx, admin, "client-1", dto.RecordPurchaseRequest{Amount: dec("10")})
	s.ErrorIs(err, apperrors.ErrAccountNotActive)

	// Payments are still accepted while suspended.
	_, err = s.service.RecordPayment(s.ctx, admin, "client-1", dto.RecordPaymentRequest{Amount: dec("10")})
	s.NoError(err)

	_, err = s.service.UpdateStatus(s.ctx, admin, "client-1", dto.UpdateCreditStatusRequest{Status: domain.CreditStatusExpired})
	s.Require().NoError(err)
	_, err = s.service.UpdateStatus(s.ctx, admin, "client-1", dto.UpdateCreditStatusRequest{Status: domain.CreditStatusActive})
	s.ErrorIs(err, apperrors.ErrInvalidStatusTransition)

	_, err = s.service.UpdateStatus(s.ctx, admin, "client-1", dto.UpdateCreditStatusRequest{Status: "CLOSED"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *CreditServiceTestSuite) TestGetSummary() {
	s.open("client-1", "1000")
	s.purchase("client-1", "250")

	summary, err := s.service.GetSummary(s.ctx, client, "client-1")
	s.Require().NoError(err)
	s.True(dec("25").Equal(summary.UtilizationPercent))
	s.Equal(int64(25), summary.UtilizationBadge)
	s.Equal(2, summary.TotalTransactionCount)
	s.Equal(1, summary.PurchaseCount)

	_, err = s.service.GetSummary(s.ctx, client, "client-2")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *CreditServiceTestSuite) TestListTransactions_NextToken() {
	s.open("client-1", "1000")
	for i := 1; i <= 3; i++ {
		s.purchase("client-1", fmt.Sprintf("%d", i*10))
	}

	first, err := s.service.ListTransactions(s.ctx, admin, "client-1", dto.ListCreditTransactionsParams{Limit: 2})
	s.Require().NoError(err)
	s.Equal(4, first.TotalCount)
	s.Require().Len(first.Entries, 2)
	s.True(dec("30").Equal(first.Entries[0].Amount), "newest first")
	s.True(dec("20").Equal(first.Entries[1].Amount))
	s.Require().NotNil(first.NextToken)

	second, err := s.service.ListTransactions(s.ctx, admin, "client-1", dto.ListCreditTransactionsParams{Limit: 2, NextToken: first.NextToken})
	s.Require().NoError(err)
	s.Require().Len(second.Entries, 2)
	s.Equal(domain.EntryTypeCreditGranted, second.Entries[1].Type)
	s.Nil(second.NextToken)

	purchases, err := s.service.ListTransactions(s.ctx, admin, "client-1", dto.ListCreditTransactionsParams{Limit: 2, Type: "PURCHASE"})
	s.Require().NoError(err)
	s.Equal(3, purchases.TotalCount)
	s.Require().NotNil(purchases.NextToken)

	rest, err := s.service.ListTransactions(s.ctx, admin, "client-1", dto.ListCreditTransactionsParams{Limit: 2, NextToken: purchases.NextToken})
	s.Require().NoError(err)
	s.Require().Len(rest.Entries, 1, "the token carries the type filter")
	s.Equal(domain.EntryTypePurchase, rest.Entries[0].Type)

	_, err = s.service.ListTransactions(s.ctx, admin, "client-1", dto.ListCreditTransactionsParams{Type: "BOGUS"})
	s.ErrorIs(err, apperrors.ErrValidation)

	bad := "%%%"
	_, err = s.service.ListTransactions(s.ctx, admin, "client-1", dto.ListCreditTransactionsParams{NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *CreditServiceTestSuite) TestListCreditProfiles() {
	s.open("client-1", "1000")
	s.open("client-2", "1000")
	_, err := s.service.UpdateStatus(s.ctx, admin, "client-2", dto.UpdateCreditStatusRequest{Status: domain.CreditStatusSuspended})
	s.Require().NoError(err)

	all, err := s.service.ListCreditProfiles(s.ctx, admin, dto.ListCreditProfilesParams{Limit: 10})
	s.Require().NoError(err)
	s.Len(all, 2)

	suspended, err := s.service.ListCreditProfiles(s.ctx, admin, dto.ListCreditProfilesParams{Status: "SUSPENDED", Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(suspended, 1)
	s.Equal("client-2", suspended[0].ClientID)

	_, err = s.service.ListCreditProfiles(s.ctx, client, dto.ListCreditProfilesParams{})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *CreditServiceTestSuite) TestGetStatement() {
	s.open("client-1", "1000")
	s.purchase("client-1", "100")

	stmt, err := s.service.GetStatement(s.ctx, client, "client-1")
	s.Require().NoError(err)
	s.Equal(2, stmt.TotalCount)
	s.Len(stmt.Entries, 2)
	s.Require().NotNil(stmt.Client)
	s.True(dec("100").Equal(stmt.Summary.CurrentBalance))
	s.False(stmt.GeneratedAt.IsZero())
}

// Concurrent payments on one account must all land exactly once.
func (s *CreditServiceTestSuite) TestConcurrentPayments() {
	s.open("client-1", "1000")
	s.purchase("client-1", "1000")

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.RecordPayment(s.ctx, admin, "client-1", dto.RecordPaymentRequest{Amount: dec("100")})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	summary, err := s.service.GetSummary(s.ctx, admin, "client-1")
	s.Require().NoError(err)
	s.True(summary.CurrentBalance.IsZero(), "balance %s", summary.CurrentBalance)
	s.True(dec("1000").Equal(summary.AvailableCredit))
	s.Equal(2+workers, summary.TotalTransactionCount)
	s.assertConsistent("client-1")
}

func (s *CreditServiceTestSuite) TestTwoConcurrentHalfPayments() {
	s.open("client-1", "1000")
	s.purchase("client-1", "1000")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.RecordPayment(s.ctx, admin, "client-1", dto.RecordPaymentRequest{Amount: dec("500")})
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	details, err := s.service.GetCreditProfile(s.ctx, admin, "client-1")
	s.Require().NoError(err)
	s.True(details.Profile.CurrentBalance.IsZero())
	s.assertConsistent("client-1")
}

func TestCreditService(t *testing.T) {
	suite.Run(t, new(CreditServiceTestSuite))
}

// --- Mock-backed tests for store failure paths ---

func activeProfile() *domain.CreditProfile {
	return &domain.CreditProfile{
		AccountID:       "acc-1",
		ClientID:        "client-1",
		CreditLimit:     dec("1000"),
		AvailableCredit: dec("1000"),
		Status:          domain.CreditStatusActive,
		Version:         7,
	}
}

func TestRecordPayment_GivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := new(MockCreditRepository)
	svc := services.NewCreditService(repo, memory.NewClientDirectory(), services.WithMaxConflictRetries(2))
	ctx := context.Background()

	repo.On("FindProfileByClientID", ctx, "client-1").Return(activeProfile(), nil)
	repo.On("AppendEntry", ctx, int64(7), mock.AnythingOfType("domain.CreditProfile"), mock.AnythingOfType("domain.LedgerEntry")).
		Return(fmt.Errorf("%w: version moved", apperrors.ErrConflict))

	_, err := svc.RecordPayment(ctx, admin, "client-1", dto.RecordPaymentRequest{Amount: dec("10")})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNumberOfCalls(t, "AppendEntry", 3)
	repo.AssertNumberOfCalls(t, "FindProfileByClientID", 3)
}

func TestRecordPayment_RetriesThenSucceeds(t *testing.T) {
	repo := new(MockCreditRepository)
	svc := services.NewCreditService(repo, memory.NewClientDirectory())
	ctx := context.Background()

	repo.On("FindProfileByClientID", ctx, "client-1").Return(activeProfile(), nil)
	repo.On("AppendEntry", ctx, int64(7), mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict).Once()
	repo.On("AppendEntry", ctx, int64(7), mock.Anything, mock.Anything).
		Return(nil).Once()

	change, err := svc.RecordPayment(ctx, admin, "client-1", dto.RecordPaymentRequest{Amount: dec("10")})

	require.NoError(t, err)
	assert.True(t, change.NewBalance.IsZero())
	repo.AssertNumberOfCalls(t, "AppendEntry", 2)
}

func TestStoreUnavailablePropagates(t *testing.T) {
	repo := new(MockCreditRepository)
	svc := services.NewCreditService(repo, memory.NewClientDirectory())
	ctx := context.Background()

	down := apperrors.NewAppError(503, "database unavailable", fmt.Errorf("dial tcp: connection refused"))
	repo.On("FindProfileByClientID", ctx, "client-1").Return(nil, down)

	_, err := svc.RecordPayment(ctx, admin, "client-1", dto.RecordPaymentRequest{Amount: dec("10")})
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.GetSummary(ctx, admin, "client-1")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	repo.AssertNotCalled(t, "AppendEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidationHappensBeforeStoreAccess(t *testing.T) {
	repo := new(MockCreditRepository)
	svc := services.NewCreditService(repo, memory.NewClientDirectory())

	_, err := svc.RecordPayment(context.Background(), admin, "client-1", dto.RecordPaymentRequest{Amount: dec("-5")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "FindProfileByClientID", mock.Anything, mock.Anything)
}
