package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/heraerp/txn-ledger/internal/utils/smartcode"
)

// Registers the "smartcode" binding tag so requests with malformed smart
// codes are rejected at bind time, before they reach the service layer.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("smartcode", func(fl validator.FieldLevel) bool {
			return smartcode.IsValid(fl.Field().String())
		})
	}
}
