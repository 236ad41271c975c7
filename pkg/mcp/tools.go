package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/StacklokLabs/gke-mcp/pkg/logschema"
	"github.com/StacklokLabs/gke-mcp/pkg/manifest"
	"github.com/StacklokLabs/gke-mcp/pkg/types"
)

func withProject() mcp.ToolOption {
	return mcp.WithString("project_id",
		mcp.Description("Google Cloud project ID (defaults to GOOGLE_CLOUD_PROJECT)"))
}

func withLocation(description string) mcp.ToolOption {
	return mcp.WithString("location", mcp.Description(description))
}

// NewClusterToolkitTool creates a new cluster_toolkit tool
func NewClusterToolkitTool() mcp.Tool {
	return mcp.NewTool(types.ClusterToolkitToolName,
		mcp.WithDescription("Create a GKE cluster, optionally with GPU accelerators for AI/ML workloads"),
		mcp.WithString("project_id",
			mcp.Description("Google Cloud project ID"),
			mcp.Required()),
		mcp.WithString("region",
			mcp.Description("Region or zone of the cluster (e.g., us-central1)"),
			mcp.Required()),
		mcp.WithString("cluster_name",
			mcp.Description("Name of the new cluster"),
			mcp.Required()),
		mcp.WithNumber("node_count",
			mcp.Description("Initial number of nodes"),
			mcp.DefaultNumber(1)),
		mcp.WithString("machine_type",
			mcp.Description("Compute Engine machine type (e.g., n1-standard-4)")),
		mcp.WithString("accelerator_type",
			mcp.Description("Accelerator type to attach to each node (e.g., nvidia-tesla-t4)")),
		mcp.WithNumber("accelerator_count",
			mcp.Description("Accelerators per node when accelerator_type is set"),
			mcp.DefaultNumber(1)),
		mcp.WithString("release_channel",
			mcp.Description("Release channel"),
			mcp.Enum("rapid", "regular", "stable", "extended")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:           "Create a GKE cluster",
			ReadOnlyHint:    BoolPtr(false),
			DestructiveHint: BoolPtr(false),
			IdempotentHint:  BoolPtr(false),
		}),
	)
}

// NewListClustersTool creates a new list_clusters tool
func NewListClustersTool() mcp.Tool {
	return mcp.NewTool(types.ListClustersToolName,
		mcp.WithDescription("List GKE clusters in a project"),
		withProject(),
		withLocation("Region or zone to list (defaults to GOOGLE_CLOUD_LOCATION, or all locations)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "List GKE clusters",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewGetClusterTool creates a new get_cluster tool
func NewGetClusterTool() mcp.Tool {
	return mcp.NewTool(types.GetClusterToolName,
		mcp.WithDescription("Get details about a GKE cluster"),
		mcp.WithString("cluster_name",
			mcp.Description("Name of the cluster"),
			mcp.Required()),
		withProject(),
		withLocation("Region or zone of the cluster (defaults to GOOGLE_CLOUD_LOCATION)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "Get a GKE cluster",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewGenerateManifestTool creates a new giq_generate_manifest tool
func NewGenerateManifestTool() mcp.Tool {
	return mcp.NewTool(types.GenerateManifestToolName,
		mcp.WithDescription("Generate a Kubernetes Deployment manifest for serving an AI/ML model on GKE"),
		mcp.WithString("model_name",
			mcp.Description("Model name, used for the deployment name and labels"),
			mcp.Required()),
		mcp.WithNumber("replicas",
			mcp.Description("Number of replicas"),
			mcp.DefaultNumber(1)),
		mcp.WithString("image",
			mcp.Description("Container image (defaults to gcr.io/<project>/<model_name>:latest)")),
		mcp.WithString("accelerator_type",
			mcp.Description("GKE accelerator to schedule on (e.g., nvidia-l4)")),
		mcp.WithNumber("accelerator_count",
			mcp.Description("GPUs per replica when accelerator_type is set"),
			mcp.DefaultNumber(1)),
		mcp.WithNumber("port",
			mcp.Description("Container port of the inference server"),
			mcp.DefaultNumber(manifest.DefaultPort)),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum(manifest.FormatJSON, manifest.FormatYAML),
			mcp.DefaultString(manifest.FormatJSON)),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "Generate an inference manifest",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewListRecommendationsTool creates a new list_recommendations tool
func NewListRecommendationsTool() mcp.Tool {
	return mcp.NewTool(types.ListRecommendationsToolName,
		mcp.WithDescription("List Recommender recommendations (e.g., google.container.DiagnosisRecommender)"),
		mcp.WithString("recommender_id",
			mcp.Description("Recommender ID"),
			mcp.Required()),
		withProject(),
		withLocation("Location of the recommender (defaults to GOOGLE_CLOUD_LOCATION)"),
		mcp.WithString("filter",
			mcp.Description("Recommender filter expression (e.g., stateInfo.state = ACTIVE)")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of recommendations to return"),
			mcp.DefaultNumber(defaultRecommendationLimit)),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "List recommendations",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewQueryLogsTool creates a new query_logs tool
func NewQueryLogsTool() mcp.Tool {
	return mcp.NewTool(types.QueryLogsToolName,
		mcp.WithDescription("Query Cloud Logging entries with a logging filter"),
		mcp.WithString("query",
			mcp.Description("Cloud Logging filter (e.g., resource.type=\"k8s_container\" severity>=ERROR)"),
			mcp.Required()),
		withProject(),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (max 1000)"),
			mcp.DefaultNumber(defaultLogLimit)),
		mcp.WithString("order",
			mcp.Description("Sort order by timestamp"),
			mcp.Enum(orderDesc, orderAsc),
			mcp.DefaultString(orderDesc)),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "Query logs",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewGetLogSchemaTool creates a new get_log_schema tool
func NewGetLogSchemaTool() mcp.Tool {
	return mcp.NewTool(types.GetLogSchemaToolName,
		mcp.WithDescription("Describe the fields and filter of a GKE log type"),
		mcp.WithString("log_type",
			mcp.Description("Log type"),
			mcp.Enum(logschema.Types()...),
			mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "Get log schema",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewListNamespacesTool creates a new list_namespaces tool
func NewListNamespacesTool() mcp.Tool {
	return mcp.NewTool(types.ListNamespacesToolName,
		mcp.WithDescription("List namespaces in a GKE cluster"),
		mcp.WithString("cluster_name",
			mcp.Description("Name of the cluster"),
			mcp.Required()),
		withProject(),
		withLocation("Region or zone of the cluster (defaults to GOOGLE_CLOUD_LOCATION)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "List namespaces",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewGetPodsTool creates a new get_pods tool
func NewGetPodsTool() mcp.Tool {
	return mcp.NewTool(types.GetPodsToolName,
		mcp.WithDescription("List pods in a namespace of a GKE cluster"),
		mcp.WithString("cluster_name",
			mcp.Description("Name of the cluster"),
			mcp.Required()),
		mcp.WithString("namespace",
			mcp.Description("Namespace"),
			mcp.DefaultString(defaultNamespace)),
		withProject(),
		withLocation("Region or zone of the cluster (defaults to GOOGLE_CLOUD_LOCATION)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "List pods",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}

// NewGetPodLogsTool creates a new get_pod_logs tool
func NewGetPodLogsTool() mcp.Tool {
	return mcp.NewTool(types.GetPodLogsToolName,
		mcp.WithDescription("Read the recent logs of a pod in a GKE cluster"),
		mcp.WithString("cluster_name",
			mcp.Description("Name of the cluster"),
			mcp.Required()),
		mcp.WithString("pod_name",
			mcp.Description("Name of the pod"),
			mcp.Required()),
		mcp.WithString("namespace",
			mcp.Description("Namespace"),
			mcp.DefaultString(defaultNamespace)),
		mcp.WithString("container",
			mcp.Description("Container name (required for pods with more than one container)")),
		mcp.WithBoolean("previous",
			mcp.Description("Read the logs of the previous terminated container")),
		mcp.WithNumber("tail_lines",
			mcp.Description("Number of lines from the end of the log (default 100)")),
		mcp.WithNumber("since_seconds",
			mcp.Description("Only return logs newer than this many seconds")),
		mcp.WithBoolean("timestamps",
			mcp.Description("Prefix each line with its RFC3339 timestamp")),
		withProject(),
		withLocation("Region or zone of the cluster (defaults to GOOGLE_CLOUD_LOCATION)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:        "Get pod logs",
			ReadOnlyHint: BoolPtr(true),
		}),
	)
}
