package dto

import (
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCreditProfileRequest opens a credit line. Omitted fields take the
// configured policy defaults.
type CreateCreditProfileRequest struct {
	ClientID        string               `json:"clientId" binding:"required,max=255"`
	CreditLimit     *decimal.Decimal     `json:"creditLimit" binding:"omitempty,money_nonnegative"`
	PaymentTerms    *domain.PaymentTerms `json:"paymentTerms" binding:"omitempty,oneof=NET15 NET30 NET45 NET60 NET90 COD PREPAID CUSTOM"`
	PaymentTermDays int                  `json:"paymentTermDays"`
	InterestRate    *decimal.Decimal     `json:"interestRate" binding:"omitempty,rate"`
}

// RecordPurchaseRequest draws on the credit line.
// Amount rules are enforced by the balance engine so failures carry the
// ledger error codes.
type RecordPurchaseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

// RecordPaymentRequest pays down the balance.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal      `json:"amount"`
	Method    domain.PaymentMethod `json:"paymentMethod"`
	Reference string               `json:"reference"`
	Notes     string               `json:"notes"`
}

// ApplyAdjustmentRequest is an administrative balance change.
type ApplyAdjustmentRequest struct {
	Type   domain.AdjustmentType `json:"type"`
	Amount decimal.Decimal       `json:"amount"`
	Reason string                `json:"reason"`
}

// AccrueInterestRequest charges interest for a number of days on the current balance.
type AccrueInterestRequest struct {
	Days int `json:"days" binding:"required,min=1,max=366"`
}

// UpdateCreditStatusRequest moves a profile through its lifecycle.
type UpdateCreditStatusRequest struct {
	Status domain.CreditStatus `json:"status" binding:"required"`
	Reason string              `json:"reason"`
}

// ListCreditTransactionsParams defines query parameters for ledger history.
type ListCreditTransactionsParams struct {
	Limit     int     `form:"limit,default=0" binding:"omitempty,min=0"`
	Offset    int     `form:"offset,default=0" binding:"omitempty,min=0"`
	Type      string  `form:"type"`
	NextToken *string `form:"nextToken"`
}

// ListCreditProfilesParams defines query parameters for listing profiles.
type ListCreditProfilesParams struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE SUSPENDED PENDING EXPIRED"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// CreditProfileResponse defines the data returned for a credit profile.
type CreditProfileResponse struct {
	AccountID       string              `json:"accountId"`
	ClientID        string              `json:"clientId"`
	CreditLimit     decimal.Decimal     `json:"creditLimit"`
	CurrentBalance  decimal.Decimal     `json:"currentBalance"`
	AvailableCredit decimal.Decimal     `json:"availableCredit"`
	Status          domain.CreditStatus `json:"status"`
	PaymentTerms    domain.PaymentTerms `json:"paymentTerms"`
	PaymentTermDays int                 `json:"paymentTermDays"`
	InterestRate    decimal.Decimal     `json:"interestRate"`
	ApprovedAt      time.Time           `json:"approvedAt"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy"`
	LastUpdatedAt   time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy   string              `json:"lastUpdatedBy"`
	Client          *ClientResponse     `json:"client,omitempty"`
}

// ClientResponse is the client summary embedded in profile responses.
type ClientResponse struct {
	ClientID    string `json:"clientId"`
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName,omitempty"`
	Email       string `json:"email"`
}

// LedgerEntryResponse defines one ledger entry as returned to callers.
type LedgerEntryResponse struct {
	EntryID      string           `json:"id"`
	Type         domain.EntryType `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	BalanceAfter decimal.Decimal  `json:"balanceAfter"`
	Description  string           `json:"description"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	CreatedBy    string           `json:"createdBy"`
}

// BalanceChangeResponse is returned by every balance-changing operation.
type BalanceChangeResponse struct {
	ClientID        string              `json:"clientId"`
	NewBalance      decimal.Decimal     `json:"newBalance"`
	AvailableCredit decimal.Decimal     `json:"availableCredit"`
	Transaction     LedgerEntryResponse `json:"transaction"`
}

// ListCreditTransactionsResponse is one page of ledger history.
type ListCreditTransactionsResponse struct {
	Transactions []LedgerEntryResponse `json:"transactions"`
	TotalCount   int                   `json:"totalCount"`
	Offset       int                   `json:"offset"`
	Limit        int                   `json:"limit"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToCreditProfileResponse converts a domain.CreditProfile to its DTO.
func ToCreditProfileResponse(p *domain.CreditProfile) CreditProfileResponse {
	return CreditProfileResponse{
		AccountID:       p.AccountID,
		ClientID:        p.ClientID,
		CreditLimit:     p.CreditLimit,
		CurrentBalance:  p.CurrentBalance,
		AvailableCredit: p.AvailableCredit,
		Status:          p.Status,
		PaymentTerms:    p.PaymentTerms,
		PaymentTermDays: p.PaymentTermDays,
		InterestRate:    p.InterestRate,
		ApprovedAt:      p.ApprovedAt,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
		LastUpdatedAt:   p.LastUpdatedAt,
		LastUpdatedBy:   p.LastUpdatedBy,
	}
}

// ToCreditProfileDetailsResponse converts a profile with its client record.
func ToCreditProfileDetailsResponse(d *domain.CreditProfileDetails) CreditProfileResponse {
	res := ToCreditProfileResponse(&d.Profile)
	if d.Client != nil {
		res.Client = &ClientResponse{
			ClientID:    d.Client.ClientID,
			FullName:    d.Client.FullName,
			CompanyName: d.Client.CompanyName,
			Email:       d.Client.Email,
		}
	}
	return res
}

// ToListCreditProfileResponse converts a slice of profiles.
func ToListCreditProfileResponse(profiles []domain.CreditProfile) []CreditProfileResponse {
	res := make([]CreditProfileResponse, len(profiles))
	for i := range profiles {
		res[i] = ToCreditProfileResponse(&profiles[i])
	}
	return res
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:      e.EntryID,
		Type:         e.Type,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Description:  e.Description,
		Metadata:     e.Metadata,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}

// ToBalanceChangeResponse converts the outcome of a balance-changing operation.
func ToBalanceChangeResponse(clientID string, c *domain.BalanceChange) BalanceChangeResponse {
	return BalanceChangeResponse{
		ClientID:        clientID,
		NewBalance:      c.NewBalance,
		AvailableCredit: c.NewAvailable,
		Transaction:     ToLedgerEntryResponse(c.Entry),
	}
}

// ToListCreditTransactionsResponse converts a page of ledger history.
func ToListCreditTransactionsResponse(page *domain.TransactionPage) ListCreditTransactionsResponse {
	entries := make([]LedgerEntryResponse, len(page.Entries))
	for i, e := range page.Entries {
		entries[i] = ToLedgerEntryResponse(e)
	}
	return ListCreditTransactionsResponse{
		Transactions: entries,
		TotalCount:   page.TotalCount,
		Offset:       page.Offset,
		Limit:        page.Limit,
		NextToken:    page.NextToken,
	}
}
