package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/ledger-backend/infra/common"
	"github.com/GregMSThompson/ledger-backend/infra/secret"
)

const sweepPath = "/internal/sweeps/bill-reminders"

type secretRefs struct {
	jwtSecret  pulumi.StringOutput
	resendKey  pulumi.StringOutput
	sweepToken pulumi.StringOutput
}

func SetupCloudRun(ctx *pulumi.Context,
	prov *gcp.Provider,
	apiSA *serviceaccount.Account,
	piiKey pulumi.StringOutput,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	img, err := buildApiImage(ctx, res...)
	if err != nil {
		return nil, err
	}

	sr, err := createSecrets(ctx)
	if err != nil {
		return nil, err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return nil, err
	}

	svc, err := createCloudRunService(ctx, img, apiSA, sr, piiKey, prov, srv)
	if err != nil {
		return nil, err
	}

	if err = setIAMAccessPolicy(ctx, svc, prov); err != nil {
		return nil, err
	}

	return svc, nil
}

// URL is the public base URL of the service.
func URL(svc *cloudrun.Service) pulumi.StringOutput {
	return svc.Statuses.ApplyT(func(st []cloudrun.ServiceStatus) string {
		if len(st) == 0 || st[0].Url == nil {
			return ""
		}
		return *st[0].Url
	}).(pulumi.StringOutput)
}

// SweepURL is the endpoint the scheduler posts to.
func SweepURL(svc *cloudrun.Service) pulumi.StringOutput {
	return URL(svc).ApplyT(func(base string) string {
		return base + sweepPath
	}).(pulumi.StringOutput)
}

func buildApiImage(ctx *pulumi.Context, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.GenerateHash("..")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "apiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"),
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/ledger/ledger-api:%s", region, projectID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func CreateServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	apiSA, err := serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("ledger-api"),
		DisplayName: pulumi.String("Ledger API"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	_, err = projects.NewIAMMember(ctx, "firestoreAccess", &projects.IAMMemberArgs{
		Role: pulumi.String("roles/datastore.user"),
		Member: apiSA.Email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
		Project: pulumi.String(projectID),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return apiSA, nil
}

func env(name string, value pulumi.StringInput) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
	return &cloudrun.ServiceTemplateSpecContainerEnvArgs{Name: pulumi.String(name), Value: value}
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	sr *secretRefs,
	piiKey pulumi.StringOutput,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	appCfg := config.New(ctx, "ledger")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	logLevel := crCfg.Require("logLevel")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	authProvider := appCfg.Get("authProvider")
	if authProvider == "" {
		authProvider = "firebase"
	}
	vertexModel := appCfg.Get("vertexModel")
	emailFrom := appCfg.Require("emailFrom")
	appBaseURL := appCfg.Require("appBaseUrl")

	envs := cloudrun.ServiceTemplateSpecContainerEnvArray{
		env("PROJECTID", pulumi.String(projectID)),
		env("REGION", pulumi.String(region)),
		env("LOGLEVEL", pulumi.String(logLevel)),
		env("AUTHPROVIDER", pulumi.String(authProvider)),
		env("KMSKEYNAME", piiKey),
		env("EMAILFROM", pulumi.String(emailFrom)),
		env("APPBASEURL", pulumi.String(appBaseURL)),
		env("JWTSECRET", secret.Ref(sr.jwtSecret)),
		env("RESENDAPIKEY", secret.Ref(sr.resendKey)),
		env("SWEEPTOKEN", secret.Ref(sr.sweepToken)),
	}
	if vertexModel != "" {
		envs = append(envs, env("VERTEXMODEL", pulumi.String(vertexModel)))
	}
	if redisURL := appCfg.Get("redisUrl"); redisURL != "" {
		envs = append(envs, env("REDISURL", pulumi.String(redisURL)))
	}

	return cloudrun.NewService(ctx, "apiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),

		Template: &cloudrun.ServiceTemplateArgs{
			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				Annotations: pulumi.StringMap{
					// Autoscaling bounds
					"autoscaling.knative.dev/minScale": pulumi.String(minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					// Instance sizing
					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					"run.googleapis.com/cpu-throttling":        pulumi.String("true"),
					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	// the API authenticates bearer tokens itself
	_, err := cloudrun.NewIamMember(ctx, "publicInvoker", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}

func createSecrets(ctx *pulumi.Context) (*secretRefs, error) {
	var err error
	sr := new(secretRefs)

	appCfg := config.New(ctx, "ledger")

	sr.jwtSecret, err = secret.AddSecret(ctx, "jwtSecretSecret", "jwtSecret", appCfg.RequireSecret("jwtSecret"))
	if err != nil {
		return nil, err
	}

	sr.resendKey, err = secret.AddSecret(ctx, "resendApiKeySecret", "resendApiKey", appCfg.RequireSecret("resendApiKey"))
	if err != nil {
		return nil, err
	}

	sr.sweepToken, err = secret.AddSecret(ctx, "sweepTokenSecret", "sweepToken", appCfg.RequireSecret("sweepToken"))
	if err != nil {
		return nil, err
	}

	return sr, nil
}
