package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/observability"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(v *Verifier, roles ...domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    de.Code,
				"message": de.Message,
			}})
		},
	})
	app.Get("/protected", append(v.Chain(roles...), func(c *fiber.Ctx) error {
		id, ok := IdentityFromFiber(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"id": id.SubjectID, "role": id.Role})
	})...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string, setHeader bool) (*http.Response, errorBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if setHeader {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	var body errorBody
	if resp.StatusCode >= 400 {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
	}
	return resp, body
}

func TestVerifier_Handle(t *testing.T) {
	tm := newTestManager(t, testSecret)
	foreign := newTestManager(t, "another-secret-entirely-different")
	expired := newTestManager(t, testSecret, WithClock(fixedClock(time.Now().Add(-48*time.Hour))))

	valid, _, _ := tm.Issue("u1", domain.RoleUser)
	forged, _, _ := foreign.Issue("u1", domain.RoleAdmin)
	stale, _, _ := expired.Issue("u1", domain.RoleUser)

	tests := []struct {
		name       string
		header     string
		setHeader  bool
		wantStatus int
		wantCode   string
	}{
		{"no header", "", false, http.StatusUnauthorized, apperrors.CodeAuthTokenMissing},
		{"empty header", "", true, http.StatusUnauthorized, apperrors.CodeAuthTokenMissing},
		{"garbage bearer", "Bearer garbage", true, http.StatusForbidden, apperrors.CodeInvalidToken},
		{"wrong scheme", "Basic " + valid, true, http.StatusForbidden, apperrors.CodeInvalidToken},
		{"scheme only", "Bearer", true, http.StatusForbidden, apperrors.CodeInvalidToken},
		{"foreign secret", "Bearer " + forged, true, http.StatusForbidden, apperrors.CodeInvalidToken},
		{"expired", "Bearer " + stale, true, http.StatusForbidden, apperrors.CodeInvalidToken},
		{"valid", "Bearer " + valid, true, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + valid, true, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(NewVerifier(tm, nil, nil))
			resp, body := doRequest(t, app, tt.header, tt.setHeader)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if tt.wantCode != "" && body.Error.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestVerifier_AttachesIdentity(t *testing.T) {
	tm := newTestManager(t, testSecret)
	token, _, _ := tm.Issue("owner-7", domain.RoleManager)

	app := newTestApp(NewVerifier(tm, nil, nil))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	var got struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "owner-7" || got.Role != "manager" {
		t.Errorf("identity = %+v, want owner-7/manager", got)
	}
}

func TestRoleGate_Scenarios(t *testing.T) {
	tm := newTestManager(t, testSecret)
	userToken, _, _ := tm.Issue("u1", domain.RoleUser)
	adminToken, _, _ := tm.Issue("a1", domain.RoleAdmin)
	managerToken, _, _ := tm.Issue("m1", domain.RoleManager)

	tests := []struct {
		name       string
		roles      []domain.Role
		token      string
		wantStatus int
		wantCode   string
	}{
		{"user on admin route", []domain.Role{domain.RoleAdmin}, userToken, http.StatusForbidden, apperrors.CodeAccessDenied},
		{"admin on admin+manager route", []domain.Role{domain.RoleAdmin, domain.RoleManager}, adminToken, http.StatusOK, ""},
		{"manager on admin+manager route", []domain.Role{domain.RoleAdmin, domain.RoleManager}, managerToken, http.StatusOK, ""},
		{"manager on admin route", []domain.Role{domain.RoleAdmin}, managerToken, http.StatusForbidden, apperrors.CodeAccessDenied},
		{"user on any-role route", nil, userToken, http.StatusOK, ""},
		{"garbage on admin route", []domain.Role{domain.RoleAdmin}, "garbage", http.StatusForbidden, apperrors.CodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(NewVerifier(tm, nil, nil), tt.roles...)
			resp, body := doRequest(t, app, "Bearer "+tt.token, true)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestRoleGate_WithoutVerifier(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "message": de.Message}})
		},
	})
	app.Get("/protected", Authorize(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, body := doRequest(t, app, "", false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body.Error.Code != apperrors.CodeAuthRequired {
		t.Errorf("code = %q, want %q", body.Error.Code, apperrors.CodeAuthRequired)
	}
}

func TestVerifier_RecordsFailures(t *testing.T) {
	tm := newTestManager(t, testSecret)
	metrics := observability.NewMetrics("test")
	app := newTestApp(NewVerifier(tm, nil, metrics))

	doRequest(t, app, "", false)
	doRequest(t, app, "Bearer nope", true)
	doRequest(t, app, "Bearer nope", true)

	got, err := testutil.GatherAndCount(metrics.Registry(), "test_auth_failures_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if got != 2 {
		t.Errorf("auth failure series = %d, want 2 (one per code)", got)
	}
}

func TestIdentity_HasRole(t *testing.T) {
	id := &Identity{SubjectID: "u1", Role: domain.RoleManager}
	if !id.HasRole(domain.RoleAdmin, domain.RoleManager) {
		t.Error("HasRole(admin, manager) = false")
	}
	if id.HasRole(domain.RoleAdmin) {
		t.Error("HasRole(admin) = true")
	}
}
