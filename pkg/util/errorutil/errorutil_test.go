package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("title required", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFound("ticket", nil)), "NOT_FOUND", http.StatusNotFound},
		{"no rows", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"fiber", fiber.NewError(http.StatusForbidden, "nope"), "Forbidden", http.StatusForbidden},
		{"generic", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.Code != tc.code || got.HTTPStatus != tc.status {
				t.Errorf("ToDomainError = %s/%d, want %s/%d", got.Code, got.HTTPStatus, tc.code, tc.status)
			}
		})
	}
	if ToDomainError(nil) != nil {
		t.Error("nil error should map to nil")
	}
}

func TestWrapKeepsTemplateAndCause(t *testing.T) {
	cause := errors.New("contract 7")
	template := NewNotFound("contract", nil)
	err := Wrap(template, cause)
	if !errors.Is(err, cause) {
		t.Fatalf("Wrap lost cause: %v", err)
	}
	if template.(*DomainError).Err != nil {
		t.Fatal("Wrap mutated the template")
	}
	if ToDomainError(err).HTTPStatus != http.StatusNotFound {
		t.Fatal("Wrap changed status")
	}
}
