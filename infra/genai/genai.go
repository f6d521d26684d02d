package genai

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// SetupGenAI enables Vertex AI (chat, explain) and the Gemini API
// (evaluation, media). Both services are returned for DependsOn.
func SetupGenAI(ctx *pulumi.Context, prov *gcp.Provider) ([]pulumi.Resource, error) {
	apis := []struct{ name, service string }{
		{"vertex", "aiplatform.googleapis.com"},
		{"generativeLanguage", "generativelanguage.googleapis.com"},
	}

	var out []pulumi.Resource
	for _, api := range apis {
		svc, err := projects.NewService(ctx, api.name, &projects.ServiceArgs{
			Service: pulumi.String(api.service),
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}
