package accounting

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places a monetary amount may carry.
const MoneyPlaces int32 = 2

// RatePlaces is the number of decimal places an interest rate may carry.
const RatePlaces int32 = 6

// IsMoney reports whether d has no more than MoneyPlaces decimal places.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// RegisterMoneyValidations installs the decimal type mapping and the money tags
// on v. It is shared by the engine and the HTTP binding layer.
func RegisterMoneyValidations(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalFieldValue, decimal.Decimal{})

	rules := map[string]validator.Func{
		"money_positive":    moneyRule(func(d decimal.Decimal) bool { return d.IsPositive() }),
		"money_nonzero":     moneyRule(func(d decimal.Decimal) bool { return !d.IsZero() }),
		"money_nonnegative": moneyRule(func(d decimal.Decimal) bool { return !d.IsNegative() }),
		"rate":              validateRate,
		"notblank":          validators.NotBlank,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// decimalFieldValue lets validator see decimal.Decimal as its string form.
func decimalFieldValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func parseDecimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func moneyRule(check func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, ok := parseDecimalField(fl)
		return ok && IsMoney(d) && check(d)
	}
}

// validateRate accepts fractions in [0, 1] with at most RatePlaces decimals.
func validateRate(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	if !ok {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1)) && d.Equal(d.Round(RatePlaces))
}

// toAppError maps the first failed field onto the error taxonomy.
func toAppError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	fe := verrs[0]

	sentinel := apperrors.ErrValidation
	switch {
	case fe.StructField() == "Type":
		sentinel = apperrors.ErrInvalidType
	case fe.StructField() == "Reason" && fe.Tag() == "notblank":
		sentinel = apperrors.ErrMissingReason
	case fe.StructField() == "Amount":
		sentinel = apperrors.ErrInvalidAmount
	}
	return fmt.Errorf("%w: field %s failed on the '%s' rule", sentinel, fe.Field(), fe.Tag())
}
