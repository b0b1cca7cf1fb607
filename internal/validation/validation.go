package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var whatsappRe = regexp.MustCompile(`^\d{10,11}$`)

// New returns a validator with the application's custom rules registered
func New() *validator.Validate {
	v := validator.New()
	// Brazilian phone numbers: 10 digits (landline) or 11 (mobile).
	v.RegisterValidation("whatsapp", func(fl validator.FieldLevel) bool {
		return whatsappRe.MatchString(fl.Field().String())
	})
	return v
}

// Messages turns validation errors into one human-readable message per
// failing field, keyed by the lowercased field name.
func Messages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	messages := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages[field] = fmt.Sprintf("%s is required", field)
		case "email":
			messages[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			messages[field] = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "whatsapp":
			messages[field] = fmt.Sprintf("%s must be a 10 or 11 digit phone number", field)
		default:
			messages[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return messages
}
