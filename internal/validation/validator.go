package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/legal-portal-api/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator wraps the struct validator and exposes domain checks
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()

	// report the json field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return models.SupportedLocales[fl.Field().String()]
	})

	return &Validator{validate: v}
}

// Struct validates a request struct and returns field-level errors
func (v *Validator) Struct(s interface{}) []ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "request", Message: "invalid request body"}}
	}

	errors := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		errors = append(errors, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: messageForTag(fe),
		})
	}
	return errors
}

// ValidateCommentContent checks the length bounds of sanitized comment text
func (v *Validator) ValidateCommentContent(content string) []ValidationError {
	length := len([]rune(content))
	switch {
	case length < models.MinCommentLength:
		return []ValidationError{{
			Field:   "content",
			Message: fmt.Sprintf("content must be at least %d characters", models.MinCommentLength),
		}}
	case length > models.MaxCommentLength:
		return []ValidationError{{
			Field:   "content",
			Message: fmt.Sprintf("content must be at most %d characters", models.MaxCommentLength),
		}}
	}
	return nil
}

// fieldPath strips the root struct name from the validator namespace,
// keeping nested paths like translations[0].locale readable
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return strings.ToLower(namespace[i+1:])
	}
	return strings.ToLower(namespace)
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "invalid email format"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "locale":
		return fmt.Sprintf("%s must be one of the supported locales", fe.Field())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", fe.Field())
	case "dive", "gt", "gte":
		return fmt.Sprintf("%s is out of range", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
