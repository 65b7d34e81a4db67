package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreditStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.CreditStatus
		to   domain.CreditStatus
		want bool
	}{
		{name: "pending to active", from: domain.CreditStatusPending, to: domain.CreditStatusActive, want: true},
		{name: "active to suspended", from: domain.CreditStatusActive, to: domain.CreditStatusSuspended, want: true},
		{name: "suspended back to active", from: domain.CreditStatusSuspended, to: domain.CreditStatusActive, want: true},
		{name: "active to expired", from: domain.CreditStatusActive, to: domain.CreditStatusExpired, want: true},
		{name: "expired is terminal", from: domain.CreditStatusExpired, to: domain.CreditStatusActive, want: false},
		{name: "same status", from: domain.CreditStatusActive, to: domain.CreditStatusActive, want: false},
		{name: "active back to pending", from: domain.CreditStatusActive, to: domain.CreditStatusPending, want: false},
		{name: "unknown target", from: domain.CreditStatusActive, to: domain.CreditStatus("CLOSED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentTerms_Days(t *testing.T) {
	assert.Equal(t, 15, domain.PaymentTermsNet15.Days(0))
	assert.Equal(t, 30, domain.PaymentTermsNet30.Days(99))
	assert.Equal(t, 90, domain.PaymentTermsNet90.Days(0))
	assert.Equal(t, 0, domain.PaymentTermsCOD.Days(0))
	assert.Equal(t, 0, domain.PaymentTermsPrepaid.Days(10))
	assert.Equal(t, 21, domain.PaymentTermsCustom.Days(21))
	assert.False(t, domain.PaymentTerms("NET7").IsValid())
}

func TestBalanceChange_ApplyTo(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	changedAt := createdAt.Add(time.Hour)
	profile := domain.CreditProfile{
		ClientID:        "client-1",
		CreditLimit:     decimal.NewFromInt(1000),
		CurrentBalance:  decimal.NewFromInt(100),
		AvailableCredit: decimal.NewFromInt(900),
		Version:         4,
		AuditFields:     domain.NewAuditFields("admin", createdAt),
	}
	change := domain.BalanceChange{
		NewBalance:   decimal.NewFromInt(150),
		NewAvailable: decimal.NewFromInt(850),
		Entry:        domain.LedgerEntry{CreatedAt: changedAt, CreatedBy: "clerk"},
	}

	updated := change.ApplyTo(profile)

	assert.True(t, decimal.NewFromInt(150).Equal(updated.CurrentBalance))
	assert.True(t, decimal.NewFromInt(850).Equal(updated.AvailableCredit))
	assert.Equal(t, int64(4), updated.Version, "version is bumped by the store, not here")
	assert.Equal(t, "clerk", updated.LastUpdatedBy)
	assert.Equal(t, changedAt, updated.LastUpdatedAt)
	assert.Equal(t, createdAt, updated.CreatedAt)
	assert.True(t, decimal.NewFromInt(100).Equal(profile.CurrentBalance), "original must not change")
}

func TestCapability(t *testing.T) {
	admin := domain.Capability{ActorID: "a1", Roles: []domain.Role{domain.RoleAdmin}}
	owner := domain.Capability{ActorID: "o1", Roles: []domain.Role{domain.RoleOwner}}
	client := domain.Capability{ActorID: "client-7", Roles: []domain.Role{domain.RoleClient}}
	anonymous := domain.Capability{}

	assert.True(t, admin.CanManageCredit())
	assert.True(t, owner.CanManageCredit())
	assert.False(t, client.CanManageCredit())

	assert.True(t, admin.CanAccessClient("client-7"))
	assert.True(t, client.CanAccessClient("client-7"))
	assert.False(t, client.CanAccessClient("client-8"))
	assert.False(t, anonymous.CanAccessClient(""))
}
