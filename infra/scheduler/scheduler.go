package scheduler

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	gcpcloudrun "github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudscheduler"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/ledger-backend/infra/cloudrun"
)

// must match middleware.SweepTokenHeader in the API
const sweepTokenHeader = "X-Sweep-Token"

// SetupBillReminders posts to the sweep endpoint every morning.
func SetupBillReminders(ctx *pulumi.Context, prov *gcp.Provider, svc *gcpcloudrun.Service) (*cloudscheduler.Job, error) {
	gcpCfg := config.New(ctx, "gcp")
	appCfg := config.New(ctx, "ledger")
	region := gcpCfg.Require("region")

	timeZone := appCfg.Get("sweepTimeZone")
	if timeZone == "" {
		timeZone = "Etc/UTC"
	}

	srv, err := projects.NewService(ctx, "cloudSchedulerService", &projects.ServiceArgs{
		Service: pulumi.String("cloudscheduler.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return cloudscheduler.NewJob(ctx, "billReminderSweep", &cloudscheduler.JobArgs{
		Region:          pulumi.String(region),
		Description:     pulumi.String("Daily due-bill reminder emails"),
		Schedule:        pulumi.String("0 9 * * *"),
		TimeZone:        pulumi.String(timeZone),
		AttemptDeadline: pulumi.String("320s"),
		HttpTarget: &cloudscheduler.JobHttpTargetArgs{
			HttpMethod: pulumi.String("POST"),
			Uri:        cloudrun.SweepURL(svc),
			Headers: pulumi.StringMap{
				sweepTokenHeader: appCfg.RequireSecret("sweepToken"),
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{srv}),
	)
}
