package firestore

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) error {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return err
	}

	return createIndexes(ctx, prov, db)
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require(("region"))

	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Project:    pulumi.String(projectID),
		Name:       pulumi.String("(default)"),
		LocationId: pulumi.String(region),
		Type:       pulumi.String("FIRESTORE_NATIVE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

type index struct {
	name       string
	collection string
	scope      string
	fields     [][2]string // field path, order
}

var indexes = []index{
	// due-bill sweep across users
	{"billsDueIndex", "bills", "COLLECTION_GROUP", [][2]string{{"isActive", "ASCENDING"}, {"dueDate", "ASCENDING"}}},
	{"txByUserCreatedIndex", "transactions", "COLLECTION", [][2]string{{"userId", "ASCENDING"}, {"createdAt", "DESCENDING"}}},
	{"txByUserDateIndex", "transactions", "COLLECTION", [][2]string{{"userId", "ASCENDING"}, {"date", "ASCENDING"}}},
	{"txByAccountIndex", "transactions", "COLLECTION", [][2]string{{"userId", "ASCENDING"}, {"accountId", "ASCENDING"}, {"createdAt", "DESCENDING"}}},
	{"txByKindIndex", "transactions", "COLLECTION", [][2]string{{"userId", "ASCENDING"}, {"kind", "ASCENDING"}, {"createdAt", "DESCENDING"}}},
}

func createIndexes(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	for _, ix := range indexes {
		fields := firestore.IndexFieldArray{}
		for _, f := range ix.fields {
			fields = append(fields, &firestore.IndexFieldArgs{
				FieldPath: pulumi.String(f[0]),
				Order:     pulumi.String(f[1]),
			})
		}
		_, err := firestore.NewIndex(ctx, ix.name, &firestore.IndexArgs{
			Database:   db.Name,
			Collection: pulumi.String(ix.collection),
			QueryScope: pulumi.String(ix.scope),
			Fields:     fields,
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
