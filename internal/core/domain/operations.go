package domain

import (
	"github.com/shopspring/decimal"
)

// AdjustmentType is the administrative adjustment kind supplied by callers.
type AdjustmentType string

const (
	AdjustmentCredit   AdjustmentType = "CREDIT"
	AdjustmentDebit    AdjustmentType = "DEBIT"
	AdjustmentWriteOff AdjustmentType = "WRITE_OFF"
	AdjustmentFee      AdjustmentType = "FEE"
	AdjustmentRefund   AdjustmentType = "REFUND"
)

// EntryType maps the adjustment onto its ledger entry type.
func (a AdjustmentType) EntryType() (EntryType, bool) {
	switch a {
	case AdjustmentCredit:
		return EntryTypeAdjustmentCredit, true
	case AdjustmentDebit:
		return EntryTypeAdjustmentDebit, true
	case AdjustmentWriteOff:
		return EntryTypeAdjustmentWriteOff, true
	case AdjustmentFee:
		return EntryTypeAdjustmentFee, true
	case AdjustmentRefund:
		return EntryTypeAdjustmentRefund, true
	}
	return "", false
}

// PaymentMethod records how a payment was made.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodWire         PaymentMethod = "WIRE"
)

// DefaultPaymentMethod is used when the caller does not name one.
const DefaultPaymentMethod = PaymentMethodBankTransfer

// The request types below are validated once, at the balance engine boundary.

// CreateProfileRequest opens a credit line for a client.
type CreateProfileRequest struct {
	ClientID        string          `validate:"required,max=255"`
	CreditLimit     decimal.Decimal `validate:"money_nonnegative"`
	PaymentTerms    PaymentTerms    `validate:"required,oneof=NET15 NET30 NET45 NET60 NET90 COD PREPAID CUSTOM"`
	PaymentTermDays int             `validate:"required_if=PaymentTerms CUSTOM,omitempty,min=1,max=365"`
	InterestRate    decimal.Decimal `validate:"rate"`
	ActorID         string          `validate:"required"`
}

// PurchaseRequest draws on the credit line.
type PurchaseRequest struct {
	Amount      decimal.Decimal `validate:"money_positive"`
	Description string          `validate:"max=500"`
	Reference   string          `validate:"max=255"`
	ActorID     string          `validate:"required"`
}

// PaymentRequest pays down the balance.
type PaymentRequest struct {
	Amount    decimal.Decimal `validate:"money_positive"`
	Method    PaymentMethod   `validate:"omitempty,oneof=BANK_TRANSFER CREDIT_CARD DEBIT_CARD CHECK CASH WIRE"`
	Reference string          `validate:"max=255"`
	Notes     string          `validate:"max=1000"`
	ActorID   string          `validate:"required"`
}

// AdjustmentRequest is an administrative balance change. Amount is signed
// for CREDIT and REFUND; the magnitude is used for the other kinds.
type AdjustmentRequest struct {
	Type    AdjustmentType  `validate:"required,oneof=CREDIT DEBIT WRITE_OFF FEE REFUND"`
	Amount  decimal.Decimal `validate:"money_nonzero"`
	Reason  string          `validate:"notblank,max=500"`
	ActorID string          `validate:"required"`
}

// InterestRequest charges accrued interest.
type InterestRequest struct {
	Amount  decimal.Decimal `validate:"money_positive"`
	Days    int             `validate:"min=1,max=366"`
	ActorID string          `validate:"required"`
}

// StatusChangeRequest moves a profile through its lifecycle.
type StatusChangeRequest struct {
	Status  CreditStatus `validate:"required,oneof=ACTIVE SUSPENDED PENDING EXPIRED"`
	Reason  string       `validate:"max=500"`
	ActorID string       `validate:"required"`
}
