package validate

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"sync-workbench/pkg/apierror"
)

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`\d`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json names so invalid_fields matches the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Passwords must contain at least one letter and one number.
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return hasLetter.MatchString(value) && hasDigit.MatchString(value)
	})

	return validate
}

// Struct validates a request body and translates failures into a single
// VALIDATION_ERROR carrying {field, message} pairs.
func Struct(body any) error {
	err := v.Struct(body)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierror.New("BAD_REQUEST", "invalid request body", err.Error(), http.StatusBadRequest)
	}

	fields := make([]apierror.InvalidField, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, apierror.InvalidField{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
		})
	}

	return apierror.NewValidation("Validation failed", fields)
}

func fieldPath(fe validator.FieldError) string {
	// Namespace looks like "LoginRequest.email"; drop the struct name.
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid4":
		return "must be a valid id"
	case "unique":
		return "must not contain duplicates"
	case "password":
		return "must contain at least one letter and one number"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
