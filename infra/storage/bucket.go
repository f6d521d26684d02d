package storage

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// CreateMediaBucket holds generated images, videos and uploaded
// attachments. Objects are public-read so result URLs can be embedded.
func CreateMediaBucket(ctx *pulumi.Context, prov *gcp.Provider) (*storage.Bucket, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	svc, err := projects.NewService(ctx, "storageService", &projects.ServiceArgs{
		Service: pulumi.String("storage.googleapis.com"),
	}, pulumi.Provider(prov))
	if err != nil {
		return nil, err
	}

	bucket, err := storage.NewBucket(ctx, "mediaBucket", &storage.BucketArgs{
		Name:                     pulumi.String(fmt.Sprintf("%s-decido-media", projectID)),
		Location:                 pulumi.String(region),
		UniformBucketLevelAccess: pulumi.Bool(true),
		LifecycleRules: storage.BucketLifecycleRuleArray{
			&storage.BucketLifecycleRuleArgs{
				Action: &storage.BucketLifecycleRuleActionArgs{
					Type: pulumi.String("Delete"),
				},
				Condition: &storage.BucketLifecycleRuleConditionArgs{
					Age: pulumi.Int(90),
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{svc}),
	)
	if err != nil {
		return nil, err
	}

	_, err = storage.NewBucketIAMMember(ctx, "mediaPublicRead", &storage.BucketIAMMemberArgs{
		Bucket: bucket.Name,
		Role:   pulumi.String("roles/storage.objectViewer"),
		Member: pulumi.String("allUsers"),
	}, pulumi.Provider(prov))
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

func GrantObjectAdmin(ctx *pulumi.Context, prov *gcp.Provider, bucket *storage.Bucket, apiSA *serviceaccount.Account) error {
	_, err := storage.NewBucketIAMMember(ctx, "mediaWriter", &storage.BucketIAMMemberArgs{
		Bucket: bucket.Name,
		Role:   pulumi.String("roles/storage.objectAdmin"),
		Member: apiSA.Email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
	}, pulumi.Provider(prov))
	return err
}
