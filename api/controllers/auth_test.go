package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flo-kian-baban/connex-backend/internal/auth"
)

type stubLoginService struct {
	req  *auth.LoginRequest
	resp *auth.AuthResponse
	fail error
}

func (s *stubLoginService) Login(_ context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	s.req = &req
	if s.fail != nil {
		return nil, s.fail
	}
	return s.resp, nil
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	svc := &stubLoginService{resp: &auth.AuthResponse{AccessToken: "jwt-token", RefreshToken: "refresh"}}

	body := `{"email":"owner@example.com","password":"hunter2!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "jwt-token", resp.Header().Get("X-CX-Token"))
	require.NotNil(t, svc.req)
	require.Equal(t, "owner@example.com", svc.req.Email)
}

func TestAuthLoginRejectsInvalidEmail(t *testing.T) {
	svc := &stubLoginService{resp: &auth.AuthResponse{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Nil(t, svc.req)
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	svc := &stubLoginService{resp: &auth.AuthResponse{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"x","extra":1}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Nil(t, svc.req)
}
