package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger_app/internal/dto"
	"github.com/SscSPs/credit_ledger_app/internal/observability/metrics"
	"github.com/SscSPs/credit_ledger_app/internal/platform/config"
	"github.com/SscSPs/credit_ledger_app/internal/utils/accounting"
	"github.com/SscSPs/credit_ledger_app/internal/utils/pagination"
)

const (
	opCreateProfile = "create_profile"
	opPurchase      = "purchase"
	opPayment       = "payment"
	opAdjustment    = "adjustment"
	opInterest      = "interest"
	opStatusChange  = "status_change"
	opVerify        = "verify"

	defaultMaxConflictRetries = 3
)

// creditService implements portssvc.CreditSvcFacade.
type creditService struct {
	BaseService
	repo       portsrepo.CreditRepositoryFacade
	clients    portsrepo.ClientDirectory
	engine     *accounting.BalanceEngine
	policy     config.CreditPolicy
	now        func() time.Time
	maxRetries int
}

// CreditServiceOption is a function that configures a creditService
type CreditServiceOption func(*creditService)

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) CreditServiceOption {
	return func(s *creditService) {
		s.now = now
	}
}

// WithMaxConflictRetries sets how many extra attempts follow a version conflict.
func WithMaxConflictRetries(n int) CreditServiceOption {
	return func(s *creditService) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithCreditPolicy sets the defaults and bounds for new credit lines.
func WithCreditPolicy(policy config.CreditPolicy) CreditServiceOption {
	return func(s *creditService) {
		s.policy = policy
	}
}

// NewCreditService creates a new credit ledger service with the given options.
func NewCreditService(repo portsrepo.CreditRepositoryFacade, clients portsrepo.ClientDirectory, options ...CreditServiceOption) portssvc.CreditSvcFacade {
	svc := &creditService{
		repo:       repo,
		clients:    clients,
		engine:     accounting.NewBalanceEngine(),
		policy:     config.DefaultCreditPolicy(),
		now:        func() time.Time { return time.Now().UTC() },
		maxRetries: defaultMaxConflictRetries,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// CreateCreditProfile opens a credit line for an existing client.
func (s *creditService) CreateCreditProfile(ctx context.Context, capability domain.Capability, req dto.CreateCreditProfileRequest) (_ *domain.CreditProfile, err error) {
	defer observe(opCreateProfile, time.Now(), &err)

	if err = s.RequireManager(ctx, capability, "create credit profile"); err != nil {
		return nil, err
	}

	openReq := domain.CreateProfileRequest{
		ClientID:        req.ClientID,
		CreditLimit:     s.policy.DefaultCreditLimit,
		PaymentTerms:    s.policy.DefaultPaymentTerms,
		PaymentTermDays: req.PaymentTermDays,
		InterestRate:    s.policy.DefaultInterestRate,
		ActorID:         capability.ActorID,
	}
	if req.CreditLimit != nil {
		openReq.CreditLimit = *req.CreditLimit
	}
	if req.PaymentTerms != nil {
		openReq.PaymentTerms = *req.PaymentTerms
	}
	if req.InterestRate != nil {
		openReq.InterestRate = *req.InterestRate
	}

	if err = s.engine.Validate(openReq); err != nil {
		return nil, err
	}
	if openReq.CreditLimit.LessThan(s.policy.MinCreditLimit) || openReq.CreditLimit.GreaterThan(s.policy.MaxCreditLimit) {
		return nil, fmt.Errorf("%w: credit limit must be between %s and %s", apperrors.ErrInvalidAmount,
			s.policy.MinCreditLimit.StringFixed(accounting.MoneyPlaces), s.policy.MaxCreditLimit.StringFixed(accounting.MoneyPlaces))
	}

	if _, err = s.clients.FindClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrClientNotFound, req.ClientID)
		}
		s.LogError(ctx, err, "Failed to look up client", slog.String("client_id", req.ClientID))
		return nil, err
	}

	profile, grant, err := s.engine.OpenProfile(openReq, s.now())
	if err != nil {
		return nil, err
	}

	if err = s.repo.CreateProfile(ctx, *profile, *grant); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to create credit profile", slog.String("client_id", req.ClientID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Credit profile created",
		slog.String("client_id", profile.ClientID),
		slog.String("account_id", profile.AccountID),
		slog.String("credit_limit", profile.CreditLimit.String()))
	return profile, nil
}

// RecordPurchase draws on the credit line of clientID.
func (s *creditService) RecordPurchase(ctx context.Context, capability domain.Capability, clientID string, req dto.RecordPurchaseRequest) (_ *domain.BalanceChange, err error) {
	defer observe(opPurchase, time.Now(), &err)

	if err = s.RequireManager(ctx, capability, "record purchase"); err != nil {
		return nil, err
	}
	purchase := domain.PurchaseRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
		ActorID:     capability.ActorID,
	}
	if err = s.engine.Validate(purchase); err != nil {
		return nil, err
	}

	return s.applyChange(ctx, opPurchase, clientID, func(p domain.CreditProfile, now time.Time) (*domain.BalanceChange, error) {
		return s.engine.ApplyPurchase(p, purchase, now)
	})
}

// RecordPayment pays down the balance of clientID.
func (s *creditService) RecordPayment(ctx context.Context, capability domain.Capability, clientID string, req dto.RecordPaymentRequest) (_ *domain.BalanceChange, err error) {
	defer observe(opPayment, time.Now(), &err)

	if err = s.RequireClientAccess(ctx, capability, clientID, "record payment"); err != nil {
		return nil, err
	}
	payment := domain.PaymentRequest{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
		ActorID:   capability.ActorID,
	}
	if err = s.engine.Validate(payment); err != nil {
		return nil, err
	}

	return s.applyChange(ctx, opPayment, clientID, func(p domain.CreditProfile, now time.Time) (*domain.BalanceChange, error) {
		return s.engine.ApplyPayment(p, payment, now)
	})
}

// ApplyAdjustment records an administrative balance change.
func (s *creditService) ApplyAdjustment(ctx context.Context, capability domain.Capability, clientID string, req dto.ApplyAdjustmentRequest) (_ *domain.BalanceChange, err error) {
	defer observe(opAdjustment, time.Now(), &err)

	if err = s.RequireManager(ctx, capability, "apply adjustment"); err != nil {
		return nil, err
	}
	adjustment := domain.AdjustmentRequest{
		Type:    req.Type,
		Amount:  req.Amount,
		Reason:  req.Reason,
		ActorID: capability.ActorID,
	}
	if err = s.engine.Validate(adjustment); err != nil {
		return nil, err
	}

	change, err := s.applyChange(ctx, opAdjustment, clientID, func(p domain.CreditProfile, now time.Time) (*domain.BalanceChange, error) {
		return s.engine.ApplyAdjustment(p, adjustment, now)
	})
	if err == nil {
		s.LogInfo(ctx, "Manual adjustment applied",
			slog.String("client_id", clientID),
			slog.String("type", string(req.Type)),
			slog.String("amount", req.Amount.String()),
			slog.String("new_balance", change.NewBalance.String()))
	}
	return change, err
}

// AccrueInterest charges interest on the current balance for the given number of days.
func (s *creditService) AccrueInterest(ctx context.Context, capability domain.Capability, clientID string, req dto.AccrueInterestRequest) (_ *domain.BalanceChange, err error) {
	defer observe(opInterest, time.Now(), &err)

	if err = s.RequireManager(ctx, capability, "accrue interest"); err != nil {
		return nil, err
	}
	if req.Days < 1 || req.Days > 366 {
		return nil, fmt.Errorf("%w: days must be between 1 and 366", apperrors.ErrValidation)
	}

	return s.applyChange(ctx, opInterest, clientID, func(p domain.CreditProfile, now time.Time) (*domain.BalanceChange, error) {
		amount := accounting.AccruedInterest(p.CurrentBalance, p.InterestRate, req.Days)
		if !amount.IsPositive() {
			return nil, fmt.Errorf("%w: no interest accrues on balance %s at rate %s",
				apperrors.ErrInvalidAmount, p.CurrentBalance.StringFixed(accounting.MoneyPlaces), p.InterestRate)
		}
		return s.engine.ApplyInterest(p, domain.InterestRequest{Amount: amount, Days: req.Days, ActorID: capability.ActorID}, now)
	})
}

// UpdateStatus moves the profile through its lifecycle.
func (s *creditService) UpdateStatus(ctx context.Context, capability domain.Capability, clientID string, req dto.UpdateCreditStatusRequest) (_ *domain.CreditProfile, err error) {
	defer observe(opStatusChange, time.Now(), &err)

	if err = s.RequireManager(ctx, capability, "update credit status"); err != nil {
		return nil, err
	}
	change := domain.StatusChangeRequest{Status: req.Status, Reason: req.Reason, ActorID: capability.ActorID}
	if err = s.engine.Validate(change); err != nil {
		return nil, err
	}

	var previous domain.CreditStatus
	err = s.retryOnConflict(ctx, opStatusChange, clientID, func() error {
		p, err := s.loadProfile(ctx, clientID)
		if err != nil {
			return err
		}
		if !p.Status.CanTransitionTo(req.Status) {
			return fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidStatusTransition, p.Status, req.Status)
		}
		previous = p.Status
		return s.repo.UpdateStatus(ctx, clientID, p.Version, req.Status, capability.ActorID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Credit status changed",
		slog.String("client_id", clientID),
		slog.String("from", string(previous)),
		slog.String("to", string(req.Status)),
		slog.String("reason", req.Reason))
	return s.loadProfile(ctx, clientID)
}

// GetCreditProfile returns the profile and, when the directory knows it, the client record.
func (s *creditService) GetCreditProfile(ctx context.Context, capability domain.Capability, clientID string) (*domain.CreditProfileDetails, error) {
	if err := s.RequireClientAccess(ctx, capability, clientID, "view credit profile"); err != nil {
		return nil, err
	}
	p, err := s.loadProfile(ctx, clientID)
	if err != nil {
		return nil, err
	}
	client, err := s.lookupClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &domain.CreditProfileDetails{Profile: *p, Client: client}, nil
}

// GetSummary returns the derived utilization view of a profile.
func (s *creditService) GetSummary(ctx context.Context, capability domain.Capability, clientID string) (*domain.CreditSummary, error) {
	if err := s.RequireClientAccess(ctx, capability, clientID, "view credit summary"); err != nil {
		return nil, err
	}
	p, err := s.loadProfile(ctx, clientID)
	if err != nil {
		return nil, err
	}
	summary, _, err := s.summarize(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListTransactions returns a page of ledger history, newest first.
func (s *creditService) ListTransactions(ctx context.Context, capability domain.Capability, clientID string, params dto.ListCreditTransactionsParams) (*domain.TransactionPage, error) {
	if err := s.RequireClientAccess(ctx, capability, clientID, "view credit transactions"); err != nil {
		return nil, err
	}

	offset, typeFilter := params.Offset, params.Type
	if params.NextToken != nil && *params.NextToken != "" {
		var err error
		offset, typeFilter, err = pagination.DecodeOffsetToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if params.Type != "" && params.Type != typeFilter {
			return nil, fmt.Errorf("%w: type filter does not match the continuation token", apperrors.ErrValidation)
		}
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", apperrors.ErrValidation)
	}

	filter := domain.EntryFilter{Offset: offset, Limit: s.policy.ClampPageSize(params.Limit)}
	if typeFilter != "" {
		entryType := domain.EntryType(typeFilter)
		if !entryType.IsValid() {
			return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, typeFilter)
		}
		filter.Type = &entryType
	}

	p, err := s.loadProfile(ctx, clientID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, p.AccountID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list credit transactions", slog.String("client_id", clientID))
		return nil, err
	}
	total, err := s.repo.CountEntries(ctx, p.AccountID, filter.Type)
	if err != nil {
		s.LogError(ctx, err, "Failed to count credit transactions", slog.String("client_id", clientID))
		return nil, err
	}

	page := &domain.TransactionPage{
		Entries:    entries,
		TotalCount: total,
		Offset:     filter.Offset,
		Limit:      filter.Limit,
	}
	if next := filter.Offset + len(entries); len(entries) > 0 && next < total {
		token := pagination.EncodeOffsetToken(next, typeFilter)
		page.NextToken = &token
	}
	return page, nil
}

// ListCreditProfiles returns profiles, optionally filtered by status.
func (s *creditService) ListCreditProfiles(ctx context.Context, capability domain.Capability, params dto.ListCreditProfilesParams) ([]domain.CreditProfile, error) {
	if err := s.RequireManager(ctx, capability, "list credit profiles"); err != nil {
		return nil, err
	}
	var status *domain.CreditStatus
	if params.Status != "" {
		st := domain.CreditStatus(params.Status)
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		status = &st
	}
	if params.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", apperrors.ErrValidation)
	}

	profiles, err := s.repo.ListProfiles(ctx, status, s.policy.ClampPageSize(params.Limit), params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list credit profiles")
		return nil, err
	}
	return profiles, nil
}

// GetStatement gathers the summary and the most recent entries for export.
func (s *creditService) GetStatement(ctx context.Context, capability domain.Capability, clientID string) (*domain.Statement, error) {
	if err := s.RequireClientAccess(ctx, capability, clientID, "export statement"); err != nil {
		return nil, err
	}
	p, err := s.loadProfile(ctx, clientID)
	if err != nil {
		return nil, err
	}
	client, err := s.lookupClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	summary, total, err := s.summarize(ctx, *p)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, p.AccountID, domain.EntryFilter{Limit: s.policy.StatementMaxEntries})
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries for statement", slog.String("client_id", clientID))
		return nil, err
	}

	return &domain.Statement{
		Summary:     summary,
		Client:      client,
		Entries:     entries,
		TotalCount:  total,
		GeneratedAt: s.now(),
	}, nil
}

// VerifyLedger replays the ledger and compares it with the cached balance.
func (s *creditService) VerifyLedger(ctx context.Context, capability domain.Capability, clientID string) (_ *domain.LedgerVerification, err error) {
	defer observe(opVerify, time.Now(), &err)

	if err = s.RequireManager(ctx, capability, "verify ledger"); err != nil {
		return nil, err
	}
	p, err := s.loadProfile(ctx, clientID)
	if err != nil {
		return nil, err
	}
	replayed, count, err := s.repo.SumEntries(ctx, p.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to replay ledger", slog.String("client_id", clientID))
		return nil, err
	}

	result := accounting.VerifyReplay(*p, replayed, count)
	if !result.Consistent {
		metrics.IncLedgerMismatch()
		s.LogWarn(ctx, "Ledger does not match cached balance",
			slog.String("client_id", clientID),
			slog.String("cached", result.CachedBalance.String()),
			slog.String("replayed", result.ReplayedBalance.String()))
	}
	return &result, nil
}

// applyChange runs one balance-changing operation under the version guard.
// compute sees a fresh profile on every attempt.
func (s *creditService) applyChange(ctx context.Context, op, clientID string, compute func(domain.CreditProfile, time.Time) (*domain.BalanceChange, error)) (*domain.BalanceChange, error) {
	var change *domain.BalanceChange
	err := s.retryOnConflict(ctx, op, clientID, func() error {
		p, err := s.loadProfile(ctx, clientID)
		if err != nil {
			return err
		}
		c, err := compute(*p, s.now())
		if err != nil {
			return err
		}
		if err := s.repo.AppendEntry(ctx, p.Version, c.ApplyTo(*p), c.Entry); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, clientID)
			}
			return err
		}
		change = c
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			s.LogError(ctx, err, "Ledger append failed", slog.String("operation", op), slog.String("client_id", clientID))
		}
		return nil, err
	}
	return change, nil
}

// retryOnConflict runs attempt once plus up to maxRetries more times while it
// fails with apperrors.ErrConflict.
func (s *creditService) retryOnConflict(ctx context.Context, op, clientID string, attempt func() error) error {
	var err error
	for i := 0; i <= s.maxRetries; i++ {
		if err = attempt(); !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", err, ctxErr)
		}
		metrics.IncConflictRetry(op)
		s.LogDebug(ctx, "Version conflict, retrying",
			slog.String("operation", op),
			slog.String("client_id", clientID),
			slog.Int("attempt", i+1))
	}
	s.LogWarn(ctx, "Giving up after repeated version conflicts",
		slog.String("operation", op),
		slog.String("client_id", clientID))
	return fmt.Errorf("giving up after %d attempts: %w", s.maxRetries+1, err)
}

func (s *creditService) loadProfile(ctx context.Context, clientID string) (*domain.CreditProfile, error) {
	p, err := s.repo.FindProfileByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, clientID)
		}
		s.LogError(ctx, err, "Failed to load credit profile", slog.String("client_id", clientID))
		return nil, err
	}
	return p, nil
}

// lookupClient returns nil without error when the directory has no record.
func (s *creditService) lookupClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clients.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to look up client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

func (s *creditService) summarize(ctx context.Context, p domain.CreditProfile) (domain.CreditSummary, int, error) {
	total, err := s.repo.CountEntries(ctx, p.AccountID, nil)
	if err != nil {
		return domain.CreditSummary{}, 0, err
	}
	purchaseType := domain.EntryTypePurchase
	purchases, err := s.repo.CountEntries(ctx, p.AccountID, &purchaseType)
	if err != nil {
		return domain.CreditSummary{}, 0, err
	}
	return accounting.BuildSummary(p, total, purchases), total, nil
}

func observe(op string, start time.Time, errp *error) {
	metrics.ObserveLedgerOperation(op, metrics.ResultFor(*errp), time.Since(start))
}
