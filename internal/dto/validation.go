package dto

import (
	"fmt"

	"github.com/SscSPs/credit_ledger_app/internal/utils/accounting"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindingValidations installs the money rules on gin's request validator
// so binding tags such as money_nonnegative and rate resolve.
func RegisterBindingValidations() error {
	engine := binding.Validator.Engine()
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", engine)
	}
	return accounting.RegisterMoneyValidations(v)
}
