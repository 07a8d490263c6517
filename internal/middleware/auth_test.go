package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/response"
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (string, error) {
	if token != "good" {
		return "", errs.NewUnauthorizedError("invalid token")
	}
	return "uid-1", nil
}

func newTestMiddleware() *Middleware {
	return NewMiddleware(stubVerifier{}, response.New(nil), "sweep-secret")
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"ok", "Bearer good", http.StatusNoContent},
	}

	m := newTestMiddleware()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = UID(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			m.Auth(next).ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if tt.status == http.StatusNoContent && seen != "uid-1" {
				t.Fatalf("uid = %q", seen)
			}
		})
	}
}

func TestSweepAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	for _, tc := range []struct {
		configured, sent string
		status           int
	}{
		{"sweep-secret", "sweep-secret", http.StatusNoContent},
		{"sweep-secret", "wrong", http.StatusUnauthorized},
		{"", "", http.StatusUnauthorized},
	} {
		m := newTestMiddleware()
		m.SweepToken = tc.configured
		req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(helpers.TestCtx())
		req.Header.Set(SweepTokenHeader, tc.sent)
		rr := httptest.NewRecorder()
		m.SweepAuth(next).ServeHTTP(rr, req)
		if rr.Code != tc.status {
			t.Fatalf("configured=%q sent=%q: status = %d, want %d", tc.configured, tc.sent, rr.Code, tc.status)
		}
	}
}
