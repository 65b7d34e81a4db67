package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditSummary is the derived, read-only view of a profile.
type CreditSummary struct {
	ClientID              string          `json:"clientID"`
	CreditLimit           decimal.Decimal `json:"creditLimit"`
	CurrentBalance        decimal.Decimal `json:"currentBalance"`
	AvailableCredit       decimal.Decimal `json:"availableCredit"`
	UtilizationPercent    decimal.Decimal `json:"utilizationPercent"`
	UtilizationBadge      int64           `json:"utilizationBadge"`
	Status                CreditStatus    `json:"status"`
	PaymentTerms          PaymentTerms    `json:"paymentTerms"`
	PaymentTermDays       int             `json:"paymentTermDays"`
	InterestRate          decimal.Decimal `json:"interestRate"`
	TotalTransactionCount int             `json:"totalTransactionCount"`
	PurchaseCount         int             `json:"purchaseCount"`
	ApprovedAt            time.Time       `json:"approvedAt"`
}

// CreditProfileDetails pairs a profile with its client record.
type CreditProfileDetails struct {
	Profile CreditProfile `json:"profile"`
	Client  *Client       `json:"client,omitempty"`
}

// TransactionPage is one page of ledger history.
type TransactionPage struct {
	Entries    []LedgerEntry `json:"entries"`
	TotalCount int           `json:"totalCount"`
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
	NextToken  *string       `json:"nextToken,omitempty"`
}

// Statement is everything an exported account statement renders.
// Entries are newest first and may be truncated; TotalCount is the full ledger size.
type Statement struct {
	Summary     CreditSummary `json:"summary"`
	Client      *Client       `json:"client,omitempty"`
	Entries     []LedgerEntry `json:"entries"`
	TotalCount  int           `json:"totalCount"`
	GeneratedAt time.Time     `json:"generatedAt"`
}
