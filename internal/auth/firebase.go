package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
)

type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (f *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	t, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", errs.NewUnauthorizedError("invalid token")
	}
	return t.UID, nil
}
