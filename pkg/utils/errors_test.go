package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"invalid credential", NewInvalidCredentialError("Invalid or expired OTP"), http.StatusBadRequest},
		{"auth", NewAuthError("Not logged in"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("Permission denied"), http.StatusForbidden},
		{"not found", NewNotFoundError("User not found"), http.StatusNotFound},
		{"upstream", NewUpstreamError("Zoho API Error", nil), http.StatusBadGateway},
		{"unavailable", NewUnavailableError("unreachable", nil), http.StatusServiceUnavailable},
		{"internal", NewInternalError("boom", errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFoundError("gone")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := NewInternalError("failed to load user", errors.New("pq: password authentication failed"))
	if got := PublicMessage(err); got != "Internal server error" {
		t.Errorf("PublicMessage = %q, want generic message", got)
	}
	if got := PublicMessage(NewAuthError("Invalid token")); got != "Invalid token" {
		t.Errorf("PublicMessage = %q, want Invalid token", got)
	}
}

func TestResponseError_Envelope(t *testing.T) {
	tests := []struct {
		err        error
		wantCode   int
		wantStatus string
	}{
		{NewValidationError("Email or phone number required"), 400, StatusFail},
		{NewInternalError("x", nil), 500, StatusError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		ResponseError(rec, tt.err)

		if rec.Code != tt.wantCode {
			t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
		}
		var body Response
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != tt.wantStatus {
			t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
		}
		if body.Message == "" {
			t.Error("message should not be empty")
		}
	}
}
