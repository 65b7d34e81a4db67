package accounting

import (
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UtilizationPercent is balance/limit*100 rounded to two places, for display.
// A non-positive limit yields zero.
func UtilizationPercent(balance, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return balance.Div(limit).Mul(hundred).Round(2)
}

// UtilizationBadgePercent is the same ratio rounded half-up to a whole percent,
// used for status badges.
func UtilizationBadgePercent(balance, limit decimal.Decimal) int64 {
	if !limit.IsPositive() {
		return 0
	}
	return balance.Div(limit).Mul(hundred).Round(0).IntPart()
}

// BuildSummary derives the read-only summary of a profile.
func BuildSummary(p domain.CreditProfile, totalCount, purchaseCount int) domain.CreditSummary {
	return domain.CreditSummary{
		ClientID:              p.ClientID,
		CreditLimit:           p.CreditLimit,
		CurrentBalance:        p.CurrentBalance,
		AvailableCredit:       p.AvailableCredit,
		UtilizationPercent:    UtilizationPercent(p.CurrentBalance, p.CreditLimit),
		UtilizationBadge:      UtilizationBadgePercent(p.CurrentBalance, p.CreditLimit),
		Status:                p.Status,
		PaymentTerms:          p.PaymentTerms,
		PaymentTermDays:       p.PaymentTermDays,
		InterestRate:          p.InterestRate,
		TotalTransactionCount: totalCount,
		PurchaseCount:         purchaseCount,
		ApprovedAt:            p.ApprovedAt,
	}
}

// VerifyReplay compares the cached balance with the sum of all entry amounts.
func VerifyReplay(p domain.CreditProfile, replayed decimal.Decimal, entryCount int) domain.LedgerVerification {
	return domain.LedgerVerification{
		ClientID:        p.ClientID,
		AccountID:       p.AccountID,
		CachedBalance:   p.CurrentBalance,
		ReplayedBalance: replayed,
		EntryCount:      entryCount,
		Consistent:      p.CurrentBalance.Equal(replayed),
	}
}
