package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a shared validator.Validate instance.
type Validator struct {
	validate *validator.Validate
}

var (
	validatorOnce   sync.Once
	sharedValidator *Validator
)

// InitValidator builds the shared validator. Safe to call more than once;
// handlers that run before main calls it get it lazily via GetValidator.
func InitValidator() {
	validatorOnce.Do(func() {
		sharedValidator = &Validator{validate: validator.New()}
	})
}

// GetValidator returns the shared validator instance.
func GetValidator() *Validator {
	InitValidator()
	return sharedValidator
}

// ValidateStruct runs tag-based validation on a request struct.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validator failures into a field-to-message
// map keyed by the lowercased field name, without leaking internal struct
// names to clients.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = messageForTag(fe)
	}
	return fields
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	default:
		return "Invalid value"
	}
}
