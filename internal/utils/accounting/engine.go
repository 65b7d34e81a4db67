package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceEngine turns a validated request into the new cached balances and the
// ledger entry to append. It never persists anything.
type BalanceEngine struct {
	validate *validator.Validate
}

// NewBalanceEngine builds an engine with the money validation rules installed.
func NewBalanceEngine() *BalanceEngine {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterMoneyValidations(v); err != nil {
		// Registration only fails for malformed tag names.
		panic(err)
	}
	return &BalanceEngine{validate: v}
}

// Validate checks req against its schema and maps failures onto the error taxonomy.
func (e *BalanceEngine) Validate(req any) error {
	if err := e.validate.Struct(req); err != nil {
		return toAppError(err)
	}
	return nil
}

// OpenProfile builds a new ACTIVE profile with zero balance and the
// CREDIT_GRANTED entry that starts its ledger. The grant records a zero
// amount so the ledger still sums to the balance; the limit goes in metadata.
func (e *BalanceEngine) OpenProfile(req domain.CreateProfileRequest, now time.Time) (*domain.CreditProfile, *domain.LedgerEntry, error) {
	if err := e.Validate(req); err != nil {
		return nil, nil, err
	}

	profile := &domain.CreditProfile{
		AccountID:       uuid.NewString(),
		ClientID:        req.ClientID,
		CreditLimit:     req.CreditLimit,
		CurrentBalance:  decimal.Zero,
		AvailableCredit: req.CreditLimit,
		Status:          domain.CreditStatusActive,
		PaymentTerms:    req.PaymentTerms,
		PaymentTermDays: req.PaymentTerms.Days(req.PaymentTermDays),
		InterestRate:    req.InterestRate,
		ApprovedAt:      now,
		Version:         1,
		AuditFields:     domain.NewAuditFields(req.ActorID, now),
	}

	entry := newEntry(*profile, domain.EntryTypeCreditGranted, decimal.Zero, decimal.Zero, req.ActorID, now)
	entry.Description = fmt.Sprintf("Credit line of %s granted", req.CreditLimit.StringFixed(MoneyPlaces))
	entry.Metadata = map[string]any{
		"creditLimit":     req.CreditLimit.StringFixed(MoneyPlaces),
		"paymentTerms":    string(req.PaymentTerms),
		"paymentTermDays": profile.PaymentTermDays,
		"interestRate":    req.InterestRate.String(),
	}
	return profile, &entry, nil
}

// ApplyPurchase draws amount from the credit line. The profile must be ACTIVE
// and have enough available credit.
func (e *BalanceEngine) ApplyPurchase(p domain.CreditProfile, req domain.PurchaseRequest, now time.Time) (*domain.BalanceChange, error) {
	if err := e.Validate(req); err != nil {
		return nil, err
	}
	if p.Status != domain.CreditStatusActive {
		return nil, fmt.Errorf("%w: status is %s", apperrors.ErrAccountNotActive, p.Status)
	}
	if req.Amount.GreaterThan(p.AvailableCredit) {
		return nil, fmt.Errorf("%w: requested %s, available %s",
			apperrors.ErrInsufficientCredit, req.Amount.StringFixed(MoneyPlaces), p.AvailableCredit.StringFixed(MoneyPlaces))
	}

	description := req.Description
	if description == "" {
		description = "Purchase"
	}
	meta := map[string]any{}
	if req.Reference != "" {
		meta["reference"] = req.Reference
	}
	return buildChange(p, domain.EntryTypePurchase, req.Amount, floorZero(p.AvailableCredit.Sub(req.Amount)),
		description, meta, req.ActorID, now)
}

// ApplyPayment pays down the balance. The balance is floored at zero while
// available credit grows by the full amount paid.
func (e *BalanceEngine) ApplyPayment(p domain.CreditProfile, req domain.PaymentRequest, now time.Time) (*domain.BalanceChange, error) {
	if err := e.Validate(req); err != nil {
		return nil, err
	}
	method := req.Method
	if method == "" {
		method = domain.DefaultPaymentMethod
	}

	applied := decimal.Min(req.Amount, p.CurrentBalance)
	meta := map[string]any{
		"method":          string(method),
		"requestedAmount": req.Amount.StringFixed(MoneyPlaces),
	}
	if req.Reference != "" {
		meta["reference"] = req.Reference
	}
	if req.Notes != "" {
		meta["notes"] = req.Notes
	}
	return buildChange(p, domain.EntryTypePayment, applied.Neg(), p.AvailableCredit.Add(req.Amount),
		fmt.Sprintf("Payment received via %s", method), meta, req.ActorID, now)
}

// ApplyAdjustment applies an administrative change.
//
// CREDIT and REFUND add the signed amount to the balance as supplied.
// DEBIT, WRITE_OFF and FEE add the magnitude. In both cases available
// credit moves the opposite way and is floored at zero.
func (e *BalanceEngine) ApplyAdjustment(p domain.CreditProfile, req domain.AdjustmentRequest, now time.Time) (*domain.BalanceChange, error) {
	if err := e.Validate(req); err != nil {
		return nil, err
	}
	entryType, ok := req.Type.EntryType()
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidType, req.Type)
	}

	delta := req.Amount
	switch req.Type {
	case domain.AdjustmentDebit, domain.AdjustmentWriteOff, domain.AdjustmentFee:
		delta = req.Amount.Abs()
	}

	meta := map[string]any{
		"adjustmentType": string(req.Type),
		"reason":         req.Reason,
		"adminId":        req.ActorID,
		"originalAmount": req.Amount.StringFixed(MoneyPlaces),
	}
	return buildChange(p, entryType, delta, floorZero(p.AvailableCredit.Sub(delta)),
		"Manual adjustment: "+req.Reason, meta, req.ActorID, now)
}

// ApplyInterest charges accrued interest onto the balance.
func (e *BalanceEngine) ApplyInterest(p domain.CreditProfile, req domain.InterestRequest, now time.Time) (*domain.BalanceChange, error) {
	if err := e.Validate(req); err != nil {
		return nil, err
	}
	meta := map[string]any{
		"days":         req.Days,
		"interestRate": p.InterestRate.String(),
	}
	return buildChange(p, domain.EntryTypeInterest, req.Amount, floorZero(p.AvailableCredit.Sub(req.Amount)),
		fmt.Sprintf("Interest for %d days", req.Days), meta, req.ActorID, now)
}

// AccruedInterest is balance * rate * days / 365, rounded to cents.
func AccruedInterest(balance, rate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !balance.IsPositive() || !rate.IsPositive() {
		return decimal.Zero
	}
	return balance.Mul(rate).Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(365)).Round(MoneyPlaces)
}

// buildChange is the single place the non-negative balance rule is enforced.
func buildChange(p domain.CreditProfile, entryType domain.EntryType, delta, newAvailable decimal.Decimal,
	description string, meta map[string]any, actorID string, now time.Time) (*domain.BalanceChange, error) {
	newBalance := p.CurrentBalance.Add(delta)
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: balance %s with delta %s",
			apperrors.ErrWouldGoNegative, p.CurrentBalance.StringFixed(MoneyPlaces), delta.StringFixed(MoneyPlaces))
	}

	entry := newEntry(p, entryType, delta, newBalance, actorID, now)
	entry.Description = description
	entry.Metadata = meta
	return &domain.BalanceChange{
		NewBalance:   newBalance,
		NewAvailable: newAvailable,
		Entry:        entry,
	}, nil
}

func newEntry(p domain.CreditProfile, entryType domain.EntryType, amount, balanceAfter decimal.Decimal, actorID string, now time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      newEntryID(),
		AccountID:    p.AccountID,
		ClientID:     p.ClientID,
		Type:         entryType,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		CreatedAt:    now,
		CreatedBy:    actorID,
	}
}

// newEntryID returns a time-ordered UUIDv7.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
