package config

import (
	"fmt"
	"os"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CreditPolicy holds the business defaults and bounds for credit lines.
type CreditPolicy struct {
	DefaultCreditLimit  decimal.Decimal
	MinCreditLimit      decimal.Decimal
	MaxCreditLimit      decimal.Decimal
	DefaultPaymentTerms domain.PaymentTerms
	DefaultInterestRate decimal.Decimal
	DefaultPageSize     int
	MaxPageSize         int
	StatementMaxEntries int
}

// policyFile is the on-disk YAML shape. Money values are strings so they
// parse exactly.
type policyFile struct {
	DefaultCreditLimit  string `yaml:"default_credit_limit"`
	MinCreditLimit      string `yaml:"min_credit_limit"`
	MaxCreditLimit      string `yaml:"max_credit_limit"`
	DefaultPaymentTerms string `yaml:"default_payment_terms"`
	DefaultInterestRate string `yaml:"default_interest_rate"`
	DefaultPageSize     int    `yaml:"default_page_size"`
	MaxPageSize         int    `yaml:"max_page_size"`
	StatementMaxEntries int    `yaml:"statement_max_entries"`
}

// DefaultCreditPolicy returns the built-in policy.
func DefaultCreditPolicy() CreditPolicy {
	return CreditPolicy{
		DefaultCreditLimit:  decimal.NewFromInt(5000),
		MinCreditLimit:      decimal.Zero,
		MaxCreditLimit:      decimal.NewFromInt(1_000_000),
		DefaultPaymentTerms: domain.PaymentTermsNet30,
		DefaultInterestRate: decimal.Zero,
		DefaultPageSize:     50,
		MaxPageSize:         100,
		StatementMaxEntries: 1000,
	}
}

// LoadCreditPolicy overlays the YAML file at path onto the defaults.
// An empty path returns the defaults.
func LoadCreditPolicy(path string) (CreditPolicy, error) {
	policy := DefaultCreditPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read credit policy file %s: %w", path, err)
	}
	return ParseCreditPolicy(raw)
}

// ParseCreditPolicy overlays YAML content onto the defaults and validates the result.
func ParseCreditPolicy(raw []byte) (CreditPolicy, error) {
	policy := DefaultCreditPolicy()

	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return policy, fmt.Errorf("failed to parse credit policy: %w", err)
	}

	money := []struct {
		name   string
		value  string
		target *decimal.Decimal
	}{
		{"default_credit_limit", file.DefaultCreditLimit, &policy.DefaultCreditLimit},
		{"min_credit_limit", file.MinCreditLimit, &policy.MinCreditLimit},
		{"max_credit_limit", file.MaxCreditLimit, &policy.MaxCreditLimit},
		{"default_interest_rate", file.DefaultInterestRate, &policy.DefaultInterestRate},
	}
	for _, m := range money {
		if m.value == "" {
			continue
		}
		d, err := decimal.NewFromString(m.value)
		if err != nil {
			return policy, fmt.Errorf("invalid %s %q: %w", m.name, m.value, err)
		}
		*m.target = d
	}
	if file.DefaultPaymentTerms != "" {
		policy.DefaultPaymentTerms = domain.PaymentTerms(file.DefaultPaymentTerms)
	}
	if file.DefaultPageSize > 0 {
		policy.DefaultPageSize = file.DefaultPageSize
	}
	if file.MaxPageSize > 0 {
		policy.MaxPageSize = file.MaxPageSize
	}
	if file.StatementMaxEntries > 0 {
		policy.StatementMaxEntries = file.StatementMaxEntries
	}

	return policy, policy.Validate()
}

// Validate checks the policy is internally consistent.
func (p CreditPolicy) Validate() error {
	if p.MinCreditLimit.IsNegative() || p.MaxCreditLimit.LessThan(p.MinCreditLimit) {
		return fmt.Errorf("credit limit bounds [%s, %s] are invalid", p.MinCreditLimit, p.MaxCreditLimit)
	}
	if p.DefaultCreditLimit.LessThan(p.MinCreditLimit) || p.DefaultCreditLimit.GreaterThan(p.MaxCreditLimit) {
		return fmt.Errorf("default credit limit %s is outside [%s, %s]", p.DefaultCreditLimit, p.MinCreditLimit, p.MaxCreditLimit)
	}
	if !p.DefaultPaymentTerms.IsValid() || p.DefaultPaymentTerms == domain.PaymentTermsCustom {
		return fmt.Errorf("default payment terms %q are not usable", p.DefaultPaymentTerms)
	}
	if p.DefaultInterestRate.IsNegative() || p.DefaultInterestRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("default interest rate %s must be within [0, 1]", p.DefaultInterestRate)
	}
	if p.DefaultPageSize > p.MaxPageSize {
		return fmt.Errorf("default page size %d exceeds max page size %d", p.DefaultPageSize, p.MaxPageSize)
	}
	return nil
}

// ClampPageSize applies the default and the upper bound to a requested page size.
func (p CreditPolicy) ClampPageSize(limit int) int {
	if limit <= 0 {
		return p.DefaultPageSize
	}
	if limit > p.MaxPageSize {
		return p.MaxPageSize
	}
	return limit
}
