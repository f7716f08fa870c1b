package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/domain"
	"github.com/heartmarshall/localboost-backend/internal/service/auth"
)

type authServiceMock struct {
	LoginWithPasswordFunc func(ctx context.Context, input auth.LoginPasswordInput) (*auth.AuthResult, error)
}

func (m *authServiceMock) LoginWithPassword(ctx context.Context, input auth.LoginPasswordInput) (*auth.AuthResult, error) {
	return m.LoginWithPasswordFunc(ctx, input)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &authServiceMock{
		LoginWithPasswordFunc: func(_ context.Context, input auth.LoginPasswordInput) (*auth.AuthResult, error) {
			if input.Email != "admin@agency.test" {
				t.Errorf("email: got %q", input.Email)
			}
			return &auth.AuthResult{
				User: &domain.User{
					ID:    userID,
					Email: input.Email,
					Role:  domain.UserRoleAdmin,
				},
				AccessToken: "signed-token",
			}, nil
		},
	}
	h := NewAuthHandler(svc, testLogger())

	body := `{"email":"admin@agency.test","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "signed-token" {
		t.Errorf("accessToken: got %q", resp.AccessToken)
	}
	if resp.User.ID != userID.String() {
		t.Errorf("user id: got %q, want %q", resp.User.ID, userID)
	}
	if resp.User.Role != "admin" {
		t.Errorf("role: got %q", resp.User.Role)
	}
}

func TestLogin_InvalidBody(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&authServiceMock{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		LoginWithPasswordFunc: func(_ context.Context, _ auth.LoginPasswordInput) (*auth.AuthResult, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	h := NewAuthHandler(svc, testLogger())

	body := `{"email":"admin@agency.test","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
}

func TestLogin_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{
		LoginWithPasswordFunc: func(_ context.Context, _ auth.LoginPasswordInput) (*auth.AuthResult, error) {
			return nil, domain.NewValidationError("email", "is required")
		},
	}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}
