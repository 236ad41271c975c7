package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StacklokLabs/gke-mcp/pkg/types"
)

func TestToolDefinitions(t *testing.T) {
	testCases := []struct {
		tool       mcp.Tool
		name       string
		required   []string
		properties []string
		readOnly   bool
	}{
		{
			tool:       NewClusterToolkitTool(),
			name:       types.ClusterToolkitToolName,
			required:   []string{"project_id", "region", "cluster_name"},
			properties: []string{"node_count", "machine_type", "accelerator_type", "accelerator_count", "release_channel"},
		},
		{
			tool:       NewListClustersTool(),
			name:       types.ListClustersToolName,
			properties: []string{"project_id", "location"},
			readOnly:   true,
		},
		{
			tool:       NewGetClusterTool(),
			name:       types.GetClusterToolName,
			required:   []string{"cluster_name"},
			properties: []string{"project_id", "location"},
			readOnly:   true,
		},
		{
			tool:       NewGenerateManifestTool(),
			name:       types.GenerateManifestToolName,
			required:   []string{"model_name"},
			properties: []string{"replicas", "image", "accelerator_type", "accelerator_count", "port", "format"},
			readOnly:   true,
		},
		{
			tool:       NewListRecommendationsTool(),
			name:       types.ListRecommendationsToolName,
			required:   []string{"recommender_id"},
			properties: []string{"project_id", "location", "filter", "limit"},
			readOnly:   true,
		},
		{
			tool:       NewQueryLogsTool(),
			name:       types.QueryLogsToolName,
			required:   []string{"query"},
			properties: []string{"project_id", "limit", "order"},
			readOnly:   true,
		},
		{
			tool:     NewGetLogSchemaTool(),
			name:     types.GetLogSchemaToolName,
			required: []string{"log_type"},
			readOnly: true,
		},
		{
			tool:       NewListNamespacesTool(),
			name:       types.ListNamespacesToolName,
			required:   []string{"cluster_name"},
			properties: []string{"project_id", "location"},
			readOnly:   true,
		},
		{
			tool:       NewGetPodsTool(),
			name:       types.GetPodsToolName,
			required:   []string{"cluster_name"},
			properties: []string{"namespace", "project_id", "location"},
			readOnly:   true,
		},
		{
			tool:       NewGetPodLogsTool(),
			name:       types.GetPodLogsToolName,
			required:   []string{"cluster_name", "pod_name"},
			properties: []string{"namespace", "container", "previous", "tail_lines", "since_seconds", "timestamps", "project_id", "location"},
			readOnly:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.tool.Name)

			schema := tc.tool.InputSchema
			assert.Equal(t, "object", schema.Type, "Schema type should be 'object'")
			assert.ElementsMatch(t, tc.required, schema.Required)

			for _, p := range append(tc.required, tc.properties...) {
				_, ok := schema.Properties[p]
				assert.True(t, ok, "Should have '%s' parameter", p)
			}

			require.NotNil(t, tc.tool.Annotations.ReadOnlyHint)
			assert.Equal(t, tc.readOnly, *tc.tool.Annotations.ReadOnlyHint)
			assert.NotEmpty(t, tc.tool.Annotations.Title)
		})
	}
}

func TestGetLogSchemaToolEnumeratesLogTypes(t *testing.T) {
	tool := NewGetLogSchemaTool()

	prop, ok := tool.InputSchema.Properties["log_type"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"k8s_application_logs", "k8s_audit_logs", "k8s_event_logs"}, prop["enum"])
}
