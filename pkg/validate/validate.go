// Package validate turns validator/v10 tag failures into parameter errors
// that name the offending field and the expected format, so a malformed call
// is rejected before any request is dispatched.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pentestreports/mcp-server/pkg/types"
)

// objectIDPattern is the exact identifier shape the backing API assigns.
// The stock hexadecimal tag also admits 0x/0X prefixes, so ids get their
// own validation.
var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Report statuses accepted by the backing API.
var ReportStatuses = []string{"Draft", "In Progress", "Submitted", "Reviewed", "Closed"}

// Vulnerability severities accepted by the backing API.
var Severities = []string{"Informational", "Low", "Medium", "High", "Critical"}

// New builds a validator that reports fields by their JSON names and knows
// the mongoid tag for report and vulnerability identifiers.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mongoid", func(fl validator.FieldLevel) bool {
		return objectIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates input against its tags and converts the first failure
// into a types.ParamError.
func Struct(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		// InvalidValidationError: the input itself was not a struct.
		return types.NewInternalError("input validation failed: %v", err)
	}
	return types.NewParamError("%s", describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "mongoid":
		return fmt.Sprintf("%s must be a 24-character hexadecimal identifier", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), "'", ""))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
