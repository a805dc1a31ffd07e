package handlers

import (
	"sync"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the domain tags used in dto binding rules to gin's validator.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ledger_category", func(fl validator.FieldLevel) bool {
			return domain.Category(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("expense_category", func(fl validator.FieldLevel) bool {
			return domain.Category(fl.Field().String()).IsExpenseKind()
		})
	})
}
