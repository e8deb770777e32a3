package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_WrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	appErr := Internal(ErrCodeStorageFailure, cause)

	if !errors.Is(appErr, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
	if appErr.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", appErr.HTTPStatus)
	}
}

func TestToResponse_ClientFaultKeepsMessage(t *testing.T) {
	resp := BadRequest(ErrCodeInvalidCredentials, "Your email/username and password are wrong!").ToResponse()

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Message != "Your email/username and password are wrong!" {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	if resp.Errors[0].Field != "" {
		t.Fatalf("field must be empty for non-validation errors, got %q", resp.Errors[0].Field)
	}
}

func TestToResponse_ServerFaultNeverLeaksCause(t *testing.T) {
	appErr := Internal(ErrCodeKeyMaterial, errors.New("pem: no PEM data found in /etc/keys/private.pem"))
	resp := appErr.ToResponse()

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Message != "Internal Server Error" {
		t.Fatalf("server fault must collapse to a generic message, got: %+v", resp.Errors)
	}
}

func TestToResponse_ValidationCarriesFields(t *testing.T) {
	appErr := Validation([]FieldError{
		{Field: "email", Message: "Please provide proper email"},
		{Field: "password", Message: "This field is required"},
	})
	resp := appErr.ToResponse()

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Errors))
	}
	if resp.Errors[0].Field != "email" || resp.Errors[1].Field != "password" {
		t.Fatalf("unexpected fields: %+v", resp.Errors)
	}
}

func TestFromError(t *testing.T) {
	known := BadRequest(ErrCodeMissingCredential, "Missing Authorization from the header")
	if got := FromError(known); got != known {
		t.Fatal("known *Error must pass through unchanged")
	}

	wrapped := fmt.Errorf("handler: %w", known)
	if got := FromError(wrapped); got != known {
		t.Fatal("wrapped *Error must be unwrapped")
	}

	got := FromError(errors.New("something broke"))
	if got.Code != ErrCodeInternal || got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown error must classify as internal, got: %+v", got)
	}
}

func TestIsServerFault(t *testing.T) {
	for _, code := range []ErrorCode{ErrCodeKeyMaterial, ErrCodeHashingFailure, ErrCodeStorageFailure, ErrCodeInternal} {
		if !IsServerFault(code) {
			t.Fatalf("%s must be a server fault", code)
		}
	}
	for _, code := range []ErrorCode{ErrCodeValidationFailure, ErrCodeInvalidCredentials, ErrCodeMalformedToken} {
		if IsServerFault(code) {
			t.Fatalf("%s must not be a server fault", code)
		}
	}
}
