package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	vertexclient "github.com/GregMSThompson/ledger-backend/internal/client/vertex"
	"github.com/GregMSThompson/ledger-backend/internal/config"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

type Bootstrap struct {
	Log           *slog.Logger
	Firestore     *firestore.Client
	Firebase      *auth.Client
	KMS           *gcpkms.KeyManagementClient
	Redis         *redis.Client
	VertexAdapter *vertexclient.Adapter
}

// Run builds the process-wide clients. Optional clients (Firebase, KMS, Redis,
// Vertex) stay nil when their config is empty.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.HandlerFor(cfg.LogFormat))
	applicationCtx = logger.ToContext(applicationCtx, bs.Log)

	if err = ResolveSecrets(applicationCtx, cfg); err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	if cfg.AuthProvider == config.AuthProviderFirebase {
		bs.Firebase, err = InitFirebase(applicationCtx)
		if err != nil {
			return bs, err
		}
	}
	if cfg.KMSKeyName != "" {
		bs.KMS, err = gcpkms.NewKeyManagementClient(applicationCtx)
		if err != nil {
			return bs, err
		}
	}
	if cfg.RedisURL != "" {
		bs.Redis, err = InitRedis(applicationCtx, cfg.RedisURL)
		if err != nil {
			return bs, err
		}
	}
	if cfg.VertexModel != "" {
		bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
		if err != nil {
			return bs, err
		}
	}

	return bs, nil
}

func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	if bs.KMS != nil {
		errList = append(errList, bs.KMS.Close())
	}
	if bs.Redis != nil {
		errList = append(errList, bs.Redis.Close())
	}
	if bs.VertexAdapter != nil {
		errList = append(errList, bs.VertexAdapter.Close())
	}
	return errors.Join(errList...)
}
