package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 8

// BusinessValidator handles business rule validation on top of tag checks.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	bv := &BusinessValidator{validate: validator.New()}
	bv.registerBusinessRules()
	return bv
}

// Validate validates business rules for any struct.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates the registration form.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors
	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.FirstName) == "" {
		errors = append(errors, ValidationError{
			Field:   "first_name",
			Message: "must not be blank",
			Rule:    "not_blank",
		})
	}
	if strings.TrimSpace(req.LastName) == "" {
		errors = append(errors, ValidationError{
			Field:   "last_name",
			Message: "must not be blank",
			Rule:    "not_blank",
		})
	}
	return errors
}

// ValidateFeedback validates the public feedback form.
func (bv *BusinessValidator) ValidateFeedback(req *FeedbackRequest) ValidationErrors {
	return bv.Validate(req)
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Minimum 8 characters; length is the only strength requirement.
	bv.validate.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) >= minPasswordLength
	})

	// Minimum character count after trimming surrounding whitespace.
	// Counts runes, not bytes, so Cyrillic input is measured correctly.
	bv.validate.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		min := 1
		if p := fl.Param(); p != "" {
			for _, r := range p {
				if r < '0' || r > '9' {
					return false
				}
			}
			min = 0
			for _, r := range p {
				min = min*10 + int(r-'0')
			}
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= min
	})
}
