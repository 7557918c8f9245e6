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
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"auth token missing", NewAuthTokenMissing(), CodeAuthTokenMissing, http.StatusUnauthorized},
		{"invalid token", NewInvalidToken(), CodeInvalidToken, http.StatusForbidden},
		{"auth required", NewAuthRequired(), CodeAuthRequired, http.StatusUnauthorized},
		{"access denied", NewAccessDenied(""), CodeAccessDenied, http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("load: %w", NewConflict("taken", nil)), CodeConflict, http.StatusConflict},
		{"no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"fiber bad request", fiber.NewError(http.StatusBadRequest, "bad"), CodeValidationFailed, http.StatusBadRequest},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", got.Code, tt.wantCode)
			}
			if got.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %v, want %v", got.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestToDomainError_Nil(t *testing.T) {
	if got := ToDomainError(nil); got != nil {
		t.Errorf("ToDomainError(nil) = %v, want nil", got)
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	de := ToDomainError(NewInternalError(cause))
	if de.Message != "internal server error" {
		t.Errorf("Message = %q", de.Message)
	}
	if !errors.Is(de, cause) {
		t.Error("expected cause to be unwrappable")
	}
}
