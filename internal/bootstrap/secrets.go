package bootstrap

import (
	"context"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/ledger-backend/internal/config"
	"github.com/GregMSThompson/ledger-backend/internal/store"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

// ResolveSecrets swaps sm:// references in cfg for their Secret Manager
// payloads. No client is created when nothing needs resolving.
func ResolveSecrets(ctx context.Context, cfg *config.Config) error {
	refs := cfg.SecretRefs()
	if !store.HasSecretRefs(refs...) {
		return nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	logger.FromContext(ctx).Info("resolving config secrets", "project_id", cfg.ProjectID)
	return store.NewSecretStore(client, cfg.ProjectID).Resolve(ctx, refs...)
}
