package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/GregMSThompson/ledger-backend/internal/auth"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/response"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

const SweepTokenHeader = "X-Sweep-Token"

type Middleware struct {
	Verifier        auth.Verifier
	ResponseHandler response.ResponseHandler
	SweepToken      string
}

func NewMiddleware(verifier auth.Verifier, rh response.ResponseHandler, sweepToken string) *Middleware {
	return &Middleware{Verifier: verifier, ResponseHandler: rh, SweepToken: sweepToken}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// Auth verifies the bearer token and puts the uid on the context and logger.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("missing Authorization header"))
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		uid, err := m.Verifier.Verify(r.Context(), parts[1])
		if err != nil {
			m.ResponseHandler.HandleError(w, r, err)
			return
		}

		_, ctx := logger.With(r.Context(), "uid", uid)
		ctx = context.WithValue(ctx, UIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SweepAuth guards internal scheduler endpoints with a shared token. An empty
// configured token disables them.
func (m *Middleware) SweepAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(SweepTokenHeader)
		if m.SweepToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(m.SweepToken)) != 1 {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid sweep token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}
