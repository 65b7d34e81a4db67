package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus is the lifecycle state of a credit profile.
type CreditStatus string

const (
	CreditStatusActive    CreditStatus = "ACTIVE"
	CreditStatusSuspended CreditStatus = "SUSPENDED"
	CreditStatusPending   CreditStatus = "PENDING"
	CreditStatusExpired   CreditStatus = "EXPIRED"
)

// IsValid reports whether s is a known status.
func (s CreditStatus) IsValid() bool {
	switch s {
	case CreditStatusActive, CreditStatusSuspended, CreditStatusPending, CreditStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether a profile in status s may move to next.
// EXPIRED is terminal.
func (s CreditStatus) CanTransitionTo(next CreditStatus) bool {
	if !next.IsValid() || s == next {
		return false
	}
	switch s {
	case CreditStatusPending:
		return next == CreditStatusActive || next == CreditStatusExpired
	case CreditStatusActive:
		return next == CreditStatusSuspended || next == CreditStatusExpired
	case CreditStatusSuspended:
		return next == CreditStatusActive || next == CreditStatusExpired
	default:
		return false
	}
}

// PaymentTerms describes when an invoice falls due.
type PaymentTerms string

const (
	PaymentTermsNet15   PaymentTerms = "NET15"
	PaymentTermsNet30   PaymentTerms = "NET30"
	PaymentTermsNet45   PaymentTerms = "NET45"
	PaymentTermsNet60   PaymentTerms = "NET60"
	PaymentTermsNet90   PaymentTerms = "NET90"
	PaymentTermsCOD     PaymentTerms = "COD"
	PaymentTermsPrepaid PaymentTerms = "PREPAID"
	PaymentTermsCustom  PaymentTerms = "CUSTOM"
)

// IsValid reports whether t is a known payment term.
func (t PaymentTerms) IsValid() bool {
	switch t {
	case PaymentTermsNet15, PaymentTermsNet30, PaymentTermsNet45, PaymentTermsNet60,
		PaymentTermsNet90, PaymentTermsCOD, PaymentTermsPrepaid, PaymentTermsCustom:
		return true
	}
	return false
}

// Days returns the day count for the term. customDays is only consulted for CUSTOM.
func (t PaymentTerms) Days(customDays int) int {
	switch t {
	case PaymentTermsNet15:
		return 15
	case PaymentTermsNet30:
		return 30
	case PaymentTermsNet45:
		return 45
	case PaymentTermsNet60:
		return 60
	case PaymentTermsNet90:
		return 90
	case PaymentTermsCustom:
		return customDays
	default:
		return 0
	}
}

// CreditProfile is a client's revolving credit account.
// CurrentBalance and AvailableCredit are a cached view of the ledger;
// Version changes on every successful mutation.
type CreditProfile struct {
	AccountID       string          `json:"accountID"`
	ClientID        string          `json:"clientID"`
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	Status          CreditStatus    `json:"status"`
	PaymentTerms    PaymentTerms    `json:"paymentTerms"`
	PaymentTermDays int             `json:"paymentTermDays"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	ApprovedAt      time.Time       `json:"approvedAt"`
	Version         int64           `json:"version"`
	AuditFields
}

// BalanceChange is the outcome of applying one operation to a profile.
type BalanceChange struct {
	NewBalance   decimal.Decimal
	NewAvailable decimal.Decimal
	Entry        LedgerEntry
}

// ApplyTo returns a copy of p carrying the new cached balances.
// The version is left untouched; the store bumps it on append.
func (c BalanceChange) ApplyTo(p CreditProfile) CreditProfile {
	p.CurrentBalance = c.NewBalance
	p.AvailableCredit = c.NewAvailable
	p.Touch(c.Entry.CreatedBy, c.Entry.CreatedAt)
	return p
}
