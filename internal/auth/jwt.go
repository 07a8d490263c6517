package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
)

const (
	issuer = "ledger-backend"

	purposeLogin = "login"
	purposeReset = "reset"
)

type Claims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	// Stamp ties a reset token to the password hash it was issued against, so
	// the token stops working once the password changes.
	Stamp string `json:"stamp,omitempty"`
	jwt.RegisteredClaims
}

type JWTIssuer struct {
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
	clockNow func() time.Time
}

func NewJWTIssuer(secret string, ttl, resetTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:   []byte(secret),
		ttl:      ttl,
		resetTTL: resetTTL,
		clockNow: time.Now,
	}
}

func (j *JWTIssuer) IssueLogin(uid, email string) (string, error) {
	return j.sign(uid, email, purposeLogin, "", j.ttl)
}

func (j *JWTIssuer) IssueReset(uid, email, passwordHash string) (string, error) {
	return j.sign(uid, email, purposeReset, stamp(passwordHash), j.resetTTL)
}

// Verify accepts login tokens only.
func (j *JWTIssuer) Verify(_ context.Context, token string) (string, error) {
	claims, err := j.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Purpose != purposeLogin {
		return "", errs.NewUnauthorizedError("invalid token")
	}
	return claims.Subject, nil
}

// VerifyReset returns the uid of a valid reset token. The caller checks the
// stamp against the current password hash with StampMatches.
func (j *JWTIssuer) VerifyReset(token string) (*Claims, error) {
	claims, err := j.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeReset {
		return nil, errs.NewUnauthorizedError("invalid reset token")
	}
	return claims, nil
}

func StampMatches(claims *Claims, passwordHash string) bool {
	return claims.Stamp == stamp(passwordHash)
}

func (j *JWTIssuer) sign(uid, email, purpose, stamp string, ttl time.Duration) (string, error) {
	now := j.clockNow().UTC()
	claims := Claims{
		Email:   email,
		Purpose: purpose,
		Stamp:   stamp,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   uid,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

func (j *JWTIssuer) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.clockNow))
	if err != nil {
		return nil, errs.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errs.NewUnauthorizedError("invalid token claims")
	}
	return claims, nil
}

// last characters of a bcrypt hash are checksum bytes
func stamp(passwordHash string) string {
	if len(passwordHash) <= 12 {
		return passwordHash
	}
	return passwordHash[len(passwordHash)-12:]
}
