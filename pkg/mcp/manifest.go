package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/StacklokLabs/gke-mcp/pkg/manifest"
)

// HandleGenerateManifest handles the giq_generate_manifest tool
func (m *Implementation) HandleGenerateManifest(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	model, errResult := requiredString(request, "model_name")
	if errResult != nil {
		return errResult, nil
	}

	replicas, errResult := int32Arg(request, "replicas", 1)
	if errResult != nil {
		return errResult, nil
	}
	port, errResult := int32Arg(request, "port", manifest.DefaultPort)
	if errResult != nil {
		return errResult, nil
	}

	opts := manifest.Options{
		ModelName:        model,
		Replicas:         replicas,
		Image:            mcp.ParseString(request, "image", ""),
		Project:          m.defaultProject,
		AcceleratorType:  mcp.ParseString(request, "accelerator_type", ""),
		AcceleratorCount: mcp.ParseInt64(request, "accelerator_count", 1),
		Port:             port,
	}

	deployment, err := manifest.GenerateDeployment(opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := manifest.Render(deployment, mcp.ParseString(request, "format", manifest.FormatJSON))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
