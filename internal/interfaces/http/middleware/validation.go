package middleware

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator registers custom binding validators on gin's validator
// engine. Call once at startup, before the first request is bound.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("docdate", validDocDate)
	}
}

// validDocDate accepts YYYY-MM-DD date strings. Empty values pass so the
// tag composes with omitempty; required-ness is a separate tag.
func validDocDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
