package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
)

func TestHandleError_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NewNotFoundError("bill not found"), http.StatusNotFound, "not_found"},
		{"forbidden", errs.NewForbiddenError("nope"), http.StatusForbidden, "forbidden"},
		{"unauthorized", errs.NewUnauthorizedError("who"), http.StatusUnauthorized, "unauthorized"},
		{"invalid reference", errs.NewInvalidReferenceError("invalid bankId"), http.StatusBadRequest, "invalid_reference"},
		{"validation", errs.NewValidationError("bad"), http.StatusBadRequest, "invalid_input"},
		{"insufficient funds", errs.NewInsufficientFundsError("111", 5, 10), http.StatusBadRequest, "insufficient_funds"},
		{"database", errs.NewDatabaseError("read", "boom", nil), http.StatusInternalServerError, "internal_error"},
		{"transient external", errs.NewExternalServiceError("resend", true, errors.New("timeout")), http.StatusServiceUnavailable, "service_unavailable"},
		{"permanent external", errs.NewExternalServiceError("resend", false, errors.New("bad key")), http.StatusBadGateway, "service_unavailable"},
		{"encryption", errs.NewEncryptionError("kms", nil), http.StatusInternalServerError, "internal_error"},
		{"unknown", errors.New("???"), http.StatusInternalServerError, "internal_error"},
	}

	h := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
			rr := httptest.NewRecorder()
			h.HandleError(rr, req, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.code || body.Success {
				t.Fatalf("body = %+v, want code %q", body, tt.code)
			}
		})
	}
}

func TestWriteSuccess_Envelope(t *testing.T) {
	h := New(nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
	rr := httptest.NewRecorder()
	h.WriteSuccess(rr, req, http.StatusCreated, map[string]int{"n": 1})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data["n"] != 1 {
		t.Fatalf("body = %+v", body)
	}
}
