package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/SscSPs/credit_ledger_app/internal/models"
)

// ToModelCreditProfile converts a domain CreditProfile to a model CreditProfile
func ToModelCreditProfile(d domain.CreditProfile) models.CreditProfile {
	return models.CreditProfile{
		AccountID:       d.AccountID,
		ClientID:        d.ClientID,
		CreditLimit:     d.CreditLimit,
		CurrentBalance:  d.CurrentBalance,
		AvailableCredit: d.AvailableCredit,
		Status:          string(d.Status),
		PaymentTerms:    string(d.PaymentTerms),
		PaymentTermDays: d.PaymentTermDays,
		InterestRate:    d.InterestRate,
		ApprovedAt:      d.ApprovedAt,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditProfile converts a model CreditProfile to a domain CreditProfile
func ToDomainCreditProfile(m models.CreditProfile) domain.CreditProfile {
	return domain.CreditProfile{
		AccountID:       m.AccountID,
		ClientID:        m.ClientID,
		CreditLimit:     m.CreditLimit,
		CurrentBalance:  m.CurrentBalance,
		AvailableCredit: m.AvailableCredit,
		Status:          domain.CreditStatus(m.Status),
		PaymentTerms:    domain.PaymentTerms(m.PaymentTerms),
		PaymentTermDays: m.PaymentTermDays,
		InterestRate:    m.InterestRate,
		ApprovedAt:      m.ApprovedAt,
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCreditTransaction converts a ledger entry into its row form.
// Metadata is serialized to JSON; a nil map is stored as an empty object.
func ToModelCreditTransaction(d domain.LedgerEntry) (models.CreditTransaction, error) {
	meta := d.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return models.CreditTransaction{}, fmt.Errorf("failed to encode metadata for entry %s: %w", d.EntryID, err)
	}
	return models.CreditTransaction{
		TransactionID: d.EntryID,
		Sequence:      d.Sequence,
		AccountID:     d.AccountID,
		ClientID:      d.ClientID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		BalanceAfter:  d.BalanceAfter,
		Description:   d.Description,
		Metadata:      raw,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}, nil
}

// ToDomainLedgerEntry converts a credit_transactions row into a ledger entry.
func ToDomainLedgerEntry(m models.CreditTransaction) (domain.LedgerEntry, error) {
	var meta map[string]any
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.LedgerEntry{}, fmt.Errorf("failed to decode metadata for entry %s: %w", m.TransactionID, err)
		}
	}
	return domain.LedgerEntry{
		EntryID:      m.TransactionID,
		AccountID:    m.AccountID,
		ClientID:     m.ClientID,
		Sequence:     m.Sequence,
		Type:         domain.EntryType(m.Type),
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Description:  m.Description,
		Metadata:     meta,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}, nil
}

// ToDomainClient converts a client_profiles row into a domain Client
func ToDomainClient(m models.ClientProfile) domain.Client {
	c := domain.Client{
		ClientID: m.ClientID,
		FullName: m.FullName,
		Email:    m.Email,
	}
	if m.CompanyName != nil {
		c.CompanyName = *m.CompanyName
	}
	return c
}
