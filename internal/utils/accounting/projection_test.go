package accounting_test

import (
	"testing"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/SscSPs/credit_ledger_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUtilizationPercent(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		limit   string
		want    string
		badge   int64
	}{
		{name: "quarter used", balance: "2500", limit: "10000", want: "25", badge: 25},
		{name: "nothing used", balance: "0", limit: "10000", want: "0", badge: 0},
		{name: "fully used", balance: "10000", limit: "10000", want: "100", badge: 100},
		{name: "two decimal display", balance: "1", limit: "3", want: "33.33", badge: 33},
		{name: "badge rounds half up", balance: "125", limit: "1000", want: "12.5", badge: 13},
		{name: "over limit after adjustment", balance: "1500", limit: "1000", want: "150", badge: 150},
		{name: "zero limit", balance: "100", limit: "0", want: "0", badge: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.UtilizationPercent(dec(tt.balance), dec(tt.limit))
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
			assert.Equal(t, tt.badge, accounting.UtilizationBadgePercent(dec(tt.balance), dec(tt.limit)))
		})
	}
}

func TestBuildSummary(t *testing.T) {
	p := activeProfile("10000", "2500")

	summary := accounting.BuildSummary(p, 7, 3)

	assert.Equal(t, "client-1", summary.ClientID)
	assert.True(t, dec("25").Equal(summary.UtilizationPercent))
	assert.Equal(t, int64(25), summary.UtilizationBadge)
	assert.Equal(t, 7, summary.TotalTransactionCount)
	assert.Equal(t, 3, summary.PurchaseCount)
	assert.Equal(t, domain.PaymentTermsNet30, summary.PaymentTerms)
	assert.True(t, dec("7500").Equal(summary.AvailableCredit))
}

func TestVerifyReplay(t *testing.T) {
	p := activeProfile("1000", "250")

	ok := accounting.VerifyReplay(p, dec("250.00"), 4)
	assert.True(t, ok.Consistent)
	assert.Equal(t, 4, ok.EntryCount)

	drift := accounting.VerifyReplay(p, decimal.NewFromInt(200), 4)
	assert.False(t, drift.Consistent)
}
