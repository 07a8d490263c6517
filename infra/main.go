package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/ledger-backend/infra/cloudrun"
	"github.com/GregMSThompson/ledger-backend/infra/docker"
	"github.com/GregMSThompson/ledger-backend/infra/firestore"
	"github.com/GregMSThompson/ledger-backend/infra/identity"
	"github.com/GregMSThompson/ledger-backend/infra/kms"
	"github.com/GregMSThompson/ledger-backend/infra/provider"
	"github.com/GregMSThompson/ledger-backend/infra/scheduler"
	"github.com/GregMSThompson/ledger-backend/infra/secret"
	"github.com/GregMSThompson/ledger-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// identity platform backs AUTHPROVIDER=firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		if err = firestore.SetupFirestore(ctx, prov); err != nil {
			return err
		}

		if _, err = kms.SetupKMS(ctx, prov); err != nil {
			return err
		}
		piiKey, err := kms.CreateKey(ctx, prov, "ledger", "user-pii")
		if err != nil {
			return err
		}

		if err = vertex.SetupVertex(ctx, prov); err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}
		if err = kms.GrantEncryptDecrypt(ctx, prov, piiKey, apiSA); err != nil {
			return err
		}
		if err = vertex.GrantUser(ctx, prov, apiSA); err != nil {
			return err
		}

		smService, err := secret.SetupSecretManager(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, apiSA, piiKey, repo, ident, smService)
		if err != nil {
			return err
		}

		_, err = scheduler.SetupBillReminders(ctx, prov, svc)
		if err != nil {
			return err
		}

		ctx.Export("apiUrl", cloudrun.URL(svc))
		return nil
	})
}
