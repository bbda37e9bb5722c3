package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForMapsEveryCode(t *testing.T) {
	cases := map[Code]Metadata{
		CodeValidation:    {HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed", DetailsAllowed: true},
		CodeUnauthorized:  {HTTPStatus: http.StatusUnauthorized, PublicMessage: "authentication required"},
		CodeForbidden:     {HTTPStatus: http.StatusForbidden, PublicMessage: "access denied"},
		CodeNotFound:      {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found"},
		CodeConflict:      {HTTPStatus: http.StatusConflict, PublicMessage: "conflict detected"},
		CodeStateConflict: {HTTPStatus: http.StatusBadRequest, PublicMessage: "state transition disallowed", DetailsAllowed: true},
		CodeRateLimit:     {HTTPStatus: http.StatusTooManyRequests, PublicMessage: "rate limit exceeded"},
		CodeInternal:      {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error"},
		CodeDependency:    {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable", DetailsAllowed: true},
	}

	for code, want := range cases {
		t.Run(string(code), func(t *testing.T) {
			if got := MetadataFor(code); got != want {
				t.Fatalf("MetadataFor(%s) = %+v, want %+v", code, got, want)
			}
		})
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	got := MetadataFor("NO_SUCH_CODE")
	if got != MetadataFor(CodeInternal) {
		t.Fatalf("unknown code mapped to %+v", got)
	}
}

func TestNewAndWithDetails(t *testing.T) {
	err := New(CodeValidation, "quantity must be positive")
	if err.Code() != CodeValidation || err.Message() != "quantity must be positive" {
		t.Fatalf("unexpected error %v", err)
	}
	if err.Details() != nil {
		t.Fatal("fresh error should carry no details")
	}

	err.WithDetails(map[string]any{"field": "quantity"})
	details, ok := err.Details().(map[string]any)
	if !ok || details["field"] != "quantity" {
		t.Fatalf("details not preserved: %v", err.Details())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("unique constraint violated")
	wrapped := Wrap(CodeConflict, cause, "dish title already taken")

	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("wrapped error lost its cause")
	}
	if Wrap(CodeInternal, nil, "no cause").Unwrap() != nil {
		t.Fatal("nil cause should unwrap to nil")
	}
}

func TestAsWalksTheChain(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	outer := stdErrors.Join(stdErrors.New("outer"), inner)

	if got := As(outer); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As did not recover the typed error: %v", got)
	}
	if As(nil) != nil {
		t.Fatal("As(nil) must be nil")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("As on a plain error must be nil")
	}
}

func TestNilReceiverAccessorsAreSafe(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal {
		t.Fatalf("nil receiver code = %s", e.Code())
	}
	if e.Error() != "" || e.Message() != "" || e.Details() != nil || e.Unwrap() != nil {
		t.Fatal("nil receiver accessors should return zero values")
	}
	if e.WithDetails("x") != nil {
		t.Fatal("WithDetails on nil receiver should stay nil")
	}
}
