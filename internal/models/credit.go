package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditProfile is a row of the credit_profiles table.
type CreditProfile struct {
	AccountID       string          `db:"account_id"`
	ClientID        string          `db:"client_id"` // Unique
	CreditLimit     decimal.Decimal `db:"credit_limit"`
	CurrentBalance  decimal.Decimal `db:"current_balance"`
	AvailableCredit decimal.Decimal `db:"available_credit"`
	Status          string          `db:"status"`
	PaymentTerms    string          `db:"payment_terms"`
	PaymentTermDays int             `db:"payment_term_days"`
	InterestRate    decimal.Decimal `db:"interest_rate"`
	ApprovedAt      time.Time       `db:"approved_at"`
	Version         int64           `db:"version"`
	AuditFields
}

// CreditTransaction is a row of the append-only credit_transactions table.
type CreditTransaction struct {
	TransactionID string          `db:"transaction_id"`
	Sequence      int64           `db:"sequence"` // BIGSERIAL, insertion order
	AccountID     string          `db:"account_id"`
	ClientID      string          `db:"client_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Description   string          `db:"description"`
	Metadata      []byte          `db:"metadata"` // JSONB
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}

// ClientProfile is a row of the client_profiles directory table.
type ClientProfile struct {
	ClientID    string  `db:"client_id"`
	FullName    string  `db:"full_name"`
	CompanyName *string `db:"company_name"` // Nullable
	Email       string  `db:"email"`
}
