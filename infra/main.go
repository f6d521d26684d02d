package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/decision-backend/infra/cloudrun"
	"github.com/GregMSThompson/decision-backend/infra/docker"
	"github.com/GregMSThompson/decision-backend/infra/firestore"
	"github.com/GregMSThompson/decision-backend/infra/genai"
	"github.com/GregMSThompson/decision-backend/infra/identity"
	"github.com/GregMSThompson/decision-backend/infra/kms"
	"github.com/GregMSThompson/decision-backend/infra/provider"
	"github.com/GregMSThompson/decision-backend/infra/secret"
	"github.com/GregMSThompson/decision-backend/infra/storage"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// firebase auth
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// history, chat and preferences
		if err := firestore.SetupFirestore(ctx, prov); err != nil {
			return err
		}

		// vertex for chat/explain, generativelanguage for evaluation and media
		apis, err := genai.SetupGenAI(ctx, prov)
		if err != nil {
			return err
		}

		kmsSvc, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		key, err := kms.CreateKey(ctx, prov, "decido", "history")
		if err != nil {
			return err
		}

		bucket, err := storage.CreateMediaBucket(ctx, prov)
		if err != nil {
			return err
		}

		secretSvc, err := secret.SetupSecretManager(ctx, prov)
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.SetupCloudRun(ctx, prov, cloudrun.Resources{
			KMSKeyID: key,
			Bucket:   bucket,
		}, append(apis, ident, repo, kmsSvc, secretSvc)...)
		if err != nil {
			return err
		}

		if err := secret.GrantAccess(ctx, prov, apiSA); err != nil {
			return err
		}
		if err := kms.GrantEncryptDecrypt(ctx, prov, key, apiSA); err != nil {
			return err
		}
		if err := storage.GrantObjectAdmin(ctx, prov, bucket, apiSA); err != nil {
			return err
		}

		ctx.Export("mediaBucket", bucket.Name)
		ctx.Export("kmsKeyName", key)
		return nil
	})
}
