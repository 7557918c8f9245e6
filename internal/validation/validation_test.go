package validation

import (
	"errors"
	"testing"

	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager user"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name        string
		in          sample
		wantDetails map[string]string
	}{
		{
			name: "valid",
			in:   sample{Email: "a@example.com", Password: "longenough"},
		},
		{
			name: "missing and short",
			in:   sample{Password: "short"},
			wantDetails: map[string]string{
				"email":    "is required",
				"password": "must be at least 8",
			},
		},
		{
			name:        "bad role",
			in:          sample{Email: "a@example.com", Password: "longenough", Role: "root"},
			wantDetails: map[string]string{"role": "must be one of: admin manager user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantDetails == nil {
				if err != nil {
					t.Fatalf("Struct() error = %v", err)
				}
				return
			}
			var de *apperrors.DomainError
			if !errors.As(err, &de) {
				t.Fatalf("Struct() error = %v, want DomainError", err)
			}
			if de.Code != apperrors.CodeValidationFailed {
				t.Errorf("Code = %v", de.Code)
			}
			for field, msg := range tt.wantDetails {
				if de.Details[field] != msg {
					t.Errorf("Details[%q] = %v, want %q", field, de.Details[field], msg)
				}
			}
		})
	}
}
