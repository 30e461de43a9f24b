package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForMapsEveryCode(t *testing.T) {
	cases := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{CodeValidation, http.StatusBadRequest, "validation failed", false, true},
		{CodeUnauthorized, http.StatusUnauthorized, "authentication required", false, false},
		{CodeForbidden, http.StatusForbidden, "access denied", false, false},
		{CodeNotFound, http.StatusNotFound, "resource not found", false, false},
		{CodeConflict, http.StatusConflict, "conflict detected", false, false},
		{CodeStateConflict, http.StatusUnprocessableEntity, "state transition disallowed", false, true},
		{CodeIntegrity, http.StatusInternalServerError, "stored data is inconsistent", false, false},
		{CodeInternal, http.StatusInternalServerError, "internal server error", true, false},
		{CodeDependency, http.StatusServiceUnavailable, "dependency unavailable", true, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			meta := MetadataFor(tc.code)
			if meta.HTTPStatus != tc.status {
				t.Errorf("status = %d, want %d", meta.HTTPStatus, tc.status)
			}
			if meta.PublicMessage != tc.publicMsg {
				t.Errorf("public message = %q, want %q", meta.PublicMessage, tc.publicMsg)
			}
			if meta.Retryable != tc.retryable {
				t.Errorf("retryable = %v, want %v", meta.Retryable, tc.retryable)
			}
			if meta.DetailsAllowed != tc.detailsOK {
				t.Errorf("details allowed = %v, want %v", meta.DetailsAllowed, tc.detailsOK)
			}
		})
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal-error mapping, got status %d", meta.HTTPStatus)
	}
}

func TestNewAndWithDetails(t *testing.T) {
	err := New(CodeValidation, "missing foo")
	if err.Code() != CodeValidation || err.Message() != "missing foo" {
		t.Fatalf("unexpected error %v", err)
	}
	if err.Details() != nil {
		t.Fatal("fresh error should carry no details")
	}
	err.WithDetails(map[string]any{"field": "foo"})
	if err.Details() == nil {
		t.Fatal("WithDetails did not stick")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "saving thing")
	if wrapped.Code() != CodeConflict {
		t.Fatalf("code = %s", wrapped.Code())
	}
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("cause lost through Wrap")
	}
	if Wrap(CodeNotFound, nil, "gone").Unwrap() != nil {
		t.Fatal("Wrap(nil) should have no cause")
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	typed := New(CodeForbidden, "no entry")
	outer := fmt.Errorf("handler: %w", typed)
	if got := As(outer); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As(%v) = %v", outer, got)
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors must not match")
	}
	if As(nil) != nil {
		t.Fatal("As(nil) must be nil")
	}
}

func TestNilReceiverSafety(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal {
		t.Fatalf("nil Code() = %s", e.Code())
	}
	if e.Error() != "" || e.Message() != "" || e.Details() != nil || e.Unwrap() != nil {
		t.Fatal("nil receiver accessors must return zero values")
	}
	if e.WithDetails("x") != nil {
		t.Fatal("nil WithDetails must stay nil")
	}
}
