package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a single field-level failure, surfaced inline on the
// originating form.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator bundles struct validation with the business rule validator.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

func New() *Validator {
	business := NewBusinessValidator()
	return &Validator{
		// Share the business instance so custom tags are always registered.
		validate: business.validate,
		business: business,
	}
}

// Validate runs tag validation and returns nil or ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// ToValidationErrors converts go-playground errors into the field-error list.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors
	}
	for _, fe := range validationErrs {
		errors = append(errors, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return errors
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
