package period

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eden/core"
)

var (
	weekdayTag  = "weekday"
	weekdayText = "invalid weekday"

	clockTag  = "clock"
	clockText = "time must be in HH:MM format"
)

// InitValidators registers period validators on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(validate, translator, weekdayTag, weekdayText)

	_ = validate.RegisterValidation(clockTag, clockValidation)
	core.RegisterCustomTranslation(validate, translator, clockTag, clockText)
}

// weekdayValidation checks the field is one of the seven English day names (case-sensitive).
func weekdayValidation(fl validator.FieldLevel) bool {
	_, err := ParseWeekday(fl.Field().String())
	return err == nil
}

// clockValidation checks the field is an "H:MM" or "HH:MM" time.
func clockValidation(fl validator.FieldLevel) bool {
	_, err := ParseTimeOfDay(fl.Field().String())
	return err == nil
}
