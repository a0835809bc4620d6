package types

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
)

func TestDefaultTemplateID(t *testing.T) {
	// The default template must itself be a well-formed identifier.
	if matched := regexp.MustCompile(`^[0-9a-fA-F]{24}$`).MatchString(DefaultTemplateID); !matched {
		t.Errorf("expected DefaultTemplateID to be 24 hex characters, got %q", DefaultTemplateID)
	}
}

func TestTimeouts(t *testing.T) {
	// Writes carry larger payloads and get the longer bound.
	if WriteTimeout <= ReadTimeout {
		t.Error("expected WriteTimeout to be greater than ReadTimeout")
	}
	if ReadTimeout <= 0 {
		t.Error("expected ReadTimeout to be positive")
	}
}

func TestParamError(t *testing.T) {
	err := NewParamError("reportId must be a %d-character hexadecimal identifier", 24)

	if err.Error() != "reportId must be a 24-character hexadecimal identifier" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var paramErr *ParamError
	if !errors.As(error(err), &paramErr) {
		t.Error("expected errors.As to match ParamError")
	}

	wrapped := fmt.Errorf("call failed: %w", err)
	if !errors.As(wrapped, &paramErr) {
		t.Error("expected errors.As to match wrapped ParamError")
	}
}

func TestInternalError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &InternalError{Msg: "no response received from http://localhost:4000/api/report", Err: cause}

	if got := err.Error(); got != "no response received from http://localhost:4000/api/report: connection refused" {
		t.Errorf("unexpected message: %q", got)
	}
	if !errors.Is(error(err), cause) {
		t.Error("expected Unwrap to expose the cause")
	}

	bare := NewInternalError("failed to build request")
	if bare.Error() != "failed to build request" {
		t.Errorf("unexpected message: %q", bare.Error())
	}
	if bare.Unwrap() != nil {
		t.Error("expected nil cause for bare internal error")
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	var paramErr *ParamError
	var internalErr *InternalError

	err := error(NewInternalError("boom"))
	if errors.As(err, &paramErr) {
		t.Error("InternalError must not match ParamError")
	}
	if !errors.As(err, &internalErr) {
		t.Error("expected InternalError to match itself")
	}
}
