package services

import (
	"context"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/SscSPs/credit_ledger_app/internal/dto"
)

// CreditReaderSvc defines read operations over credit profiles and their ledgers.
type CreditReaderSvc interface {
	// GetCreditProfile returns the profile of clientID together with its client record.
	GetCreditProfile(ctx context.Context, capability domain.Capability, clientID string) (*domain.CreditProfileDetails, error)

	// GetSummary returns the derived utilization view of a profile.
	GetSummary(ctx context.Context, capability domain.Capability, clientID string) (*domain.CreditSummary, error)

	// ListTransactions returns a page of ledger history, newest first.
	ListTransactions(ctx context.Context, capability domain.Capability, clientID string, params dto.ListCreditTransactionsParams) (*domain.TransactionPage, error)

	// ListCreditProfiles returns profiles, optionally filtered by status.
	ListCreditProfiles(ctx context.Context, capability domain.Capability, params dto.ListCreditProfilesParams) ([]domain.CreditProfile, error)

	// GetStatement gathers what a statement export needs.
	GetStatement(ctx context.Context, capability domain.Capability, clientID string) (*domain.Statement, error)
}

// CreditWriterSvc defines the balance-changing operations.
// Each one appends exactly one ledger entry or changes nothing.
type CreditWriterSvc interface {
	CreateCreditProfile(ctx context.Context, capability domain.Capability, req dto.CreateCreditProfileRequest) (*domain.CreditProfile, error)
	RecordPurchase(ctx context.Context, capability domain.Capability, clientID string, req dto.RecordPurchaseRequest) (*domain.BalanceChange, error)
	RecordPayment(ctx context.Context, capability domain.Capability, clientID string, req dto.RecordPaymentRequest) (*domain.BalanceChange, error)
	ApplyAdjustment(ctx context.Context, capability domain.Capability, clientID string, req dto.ApplyAdjustmentRequest) (*domain.BalanceChange, error)
	AccrueInterest(ctx context.Context, capability domain.Capability, clientID string, req dto.AccrueInterestRequest) (*domain.BalanceChange, error)

	// UpdateStatus moves the profile through its lifecycle. It appends no ledger entry.
	UpdateStatus(ctx context.Context, capability domain.Capability, clientID string, req dto.UpdateCreditStatusRequest) (*domain.CreditProfile, error)
}

// CreditAuditorSvc defines integrity checks over the ledger.
type CreditAuditorSvc interface {
	// VerifyLedger replays the ledger and compares it with the cached balance.
	VerifyLedger(ctx context.Context, capability domain.Capability, clientID string) (*domain.LedgerVerification, error)
}

// CreditSvcFacade combines all credit ledger service interfaces
type CreditSvcFacade interface {
	CreditReaderSvc
	CreditWriterSvc
	CreditAuditorSvc
}
