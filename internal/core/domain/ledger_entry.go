package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryTypePurchase           EntryType = "PURCHASE"
	EntryTypePayment            EntryType = "PAYMENT"
	EntryTypeCreditGranted      EntryType = "CREDIT_GRANTED"
	EntryTypeAdjustmentCredit   EntryType = "ADJUSTMENT_CREDIT"
	EntryTypeAdjustmentDebit    EntryType = "ADJUSTMENT_DEBIT"
	EntryTypeAdjustmentWriteOff EntryType = "ADJUSTMENT_WRITE_OFF"
	EntryTypeAdjustmentFee      EntryType = "ADJUSTMENT_FEE"
	EntryTypeAdjustmentRefund   EntryType = "ADJUSTMENT_REFUND"
	EntryTypeInterest           EntryType = "INTEREST"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypePurchase, EntryTypePayment, EntryTypeCreditGranted,
		EntryTypeAdjustmentCredit, EntryTypeAdjustmentDebit, EntryTypeAdjustmentWriteOff,
		EntryTypeAdjustmentFee, EntryTypeAdjustmentRefund, EntryTypeInterest:
		return true
	}
	return false
}

// LedgerEntry is one immutable balance-affecting event.
// Amount is the signed delta applied to the balance and BalanceAfter the
// running balance right after it. Sequence is assigned by the store and
// orders entries that share a CreatedAt.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	ClientID     string          `json:"clientID"`
	Sequence     int64           `json:"sequence"`
	Type         EntryType       `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Description  string          `json:"description"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// EntryFilter narrows a ledger listing.
type EntryFilter struct {
	Type   *EntryType
	Offset int
	Limit  int
}

// LedgerVerification compares the cached balance with a replay of the ledger.
type LedgerVerification struct {
	ClientID        string          `json:"clientID"`
	AccountID       string          `json:"accountID"`
	CachedBalance   decimal.Decimal `json:"cachedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	EntryCount      int             `json:"entryCount"`
	Consistent      bool            `json:"consistent"`
}
