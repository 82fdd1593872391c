package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

type mockAuthService struct {
	token string
	err   error
}

func (m *mockAuthService) Login(ctx context.Context, password string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

func TestAuthController_Login_Success(t *testing.T) {
	ctrl := NewAuthController(discardLogger(), &mockAuthService{token: "jwt-token"})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"door-secret"}`))
	w := httptest.NewRecorder()
	ctrl.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data  *LoginResponse    `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data == nil || resp.Data.Token != "jwt-token" {
		t.Fatalf("expected token in response, got %+v", resp.Data)
	}
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	ctrl := NewAuthController(discardLogger(), &mockAuthService{err: domain.ErrInvalidCredentials})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"wrong"}`))
	w := httptest.NewRecorder()
	ctrl.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthController_Login_EmptyPassword(t *testing.T) {
	ctrl := NewAuthController(discardLogger(), &mockAuthService{token: "jwt-token"})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":""}`))
	w := httptest.NewRecorder()
	ctrl.Login(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
