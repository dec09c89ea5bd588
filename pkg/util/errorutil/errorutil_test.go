package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestToDomainError_Taxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"unauthorized", NewUnauthorized(), CodeUnauthorized, http.StatusUnauthorized},
		{"invalid credentials", NewInvalidCredentials(), CodeInvalidCredentials, http.StatusBadRequest},
		{"not active", NewAccountNotActive(), CodeAccountNotActive, http.StatusBadRequest},
		{"not found", NewNotFound("user", nil), CodeNotFound, http.StatusNotFound},
		{"conflict", NewConflict("telephone taken", nil), CodeConflict, http.StatusConflict},
		{"validation", NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFound("order", nil)), CodeNotFound, http.StatusNotFound},
		{"fiber 401", fiber.NewError(http.StatusUnauthorized, "missing or malformed JWT"), CodeUnauthorized, http.StatusUnauthorized},
		{"fiber 400", fiber.NewError(http.StatusBadRequest, "bad body"), CodeBadRequest, http.StatusBadRequest},
		{"plain", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			if de.Code != tc.code || de.HTTPStatus != tc.status {
				t.Fatalf("got code=%s status=%d, want code=%s status=%d", de.Code, de.HTTPStatus, tc.code, tc.status)
			}
		})
	}
}

func TestUnauthorizedMessageIsGeneric(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusUnauthorized, "token signature is invalid"))
	if de.Message != "unauthorized" {
		t.Fatalf("expected generic message, got %q", de.Message)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewConflict("taken", nil))
	if !HasCode(err, CodeConflict) {
		t.Fatalf("expected conflict code")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatalf("unexpected not found code")
	}
	if HasCode(errors.New("x"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
	if ToDomainError(nil) != nil {
		t.Fatalf("nil error must map to nil")
	}
}
