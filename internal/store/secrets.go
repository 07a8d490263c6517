package store

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
)

// SecretRefPrefix marks a config value that names a Secret Manager secret.
const SecretRefPrefix = "sm://"

// Secrets path
// projects/{project}/secrets/{secretID}/versions/latest

type secretStore struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretStore(client *secretmanager.Client, projectID string) *secretStore {
	return &secretStore{
		client:    client,
		projectID: projectID,
	}
}

func (s *secretStore) versionName(secretID string) string {
	if strings.HasPrefix(secretID, "projects/") {
		return secretID
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, secretID)
}

func (s *secretStore) Access(ctx context.Context, secretID string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.versionName(secretID),
	})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError(fmt.Sprintf("secret %s not found", secretID))
	}
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", status.Code(err) == codes.Unavailable, err)
	}
	return string(res.Payload.Data), nil
}

// Resolve replaces every sm://<secret-id> value in place with the secret payload.
func (s *secretStore) Resolve(ctx context.Context, values ...*string) error {
	for _, v := range values {
		if v == nil || !strings.HasPrefix(*v, SecretRefPrefix) {
			continue
		}
		secret, err := s.Access(ctx, strings.TrimPrefix(*v, SecretRefPrefix))
		if err != nil {
			return err
		}
		*v = secret
	}
	return nil
}

// HasSecretRefs reports whether any value still needs resolving.
func HasSecretRefs(values ...*string) bool {
	for _, v := range values {
		if v != nil && strings.HasPrefix(*v, SecretRefPrefix) {
			return true
		}
	}
	return false
}
