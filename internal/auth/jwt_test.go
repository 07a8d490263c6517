package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
)

func TestJWTIssuer_LoginRoundTrip(t *testing.T) {
	j := NewJWTIssuer("test-secret", time.Hour, 15*time.Minute)

	token, err := j.IssueLogin("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uid, err := j.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("expected user-1, got %q", uid)
	}
}

func TestJWTIssuer_RejectsWrongSecret(t *testing.T) {
	token, _ := NewJWTIssuer("one", time.Hour, time.Hour).IssueLogin("user-1", "a@example.com")

	_, err := NewJWTIssuer("two", time.Hour, time.Hour).Verify(context.Background(), token)
	var uerr *errs.UnauthorizedError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
}

func TestJWTIssuer_RejectsExpired(t *testing.T) {
	j := NewJWTIssuer("test-secret", time.Minute, time.Minute)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j.clockNow = func() time.Time { return issued }
	token, _ := j.IssueLogin("user-1", "a@example.com")

	j.clockNow = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := j.Verify(context.Background(), token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestJWTIssuer_ResetTokenIsNotALoginToken(t *testing.T) {
	j := NewJWTIssuer("test-secret", time.Hour, time.Hour)
	reset, _ := j.IssueReset("user-1", "a@example.com", "$2a$12$abcdefghijklmnopqrstuv")

	if _, err := j.Verify(context.Background(), reset); err == nil {
		t.Fatal("reset token must not authenticate requests")
	}

	claims, err := j.VerifyReset(reset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !StampMatches(claims, "$2a$12$abcdefghijklmnopqrstuv") {
		t.Fatal("expected stamp to match the issuing hash")
	}
	if StampMatches(claims, "$2a$12$zzzzzzzzzzzzzzzzzzzzzz") {
		t.Fatal("stamp should not match a different hash")
	}
}
