// Package types contains common type definitions and constants used across the MCP implementation
package types

// Tool names exposed by the server
const (
	// ClusterToolkitToolName is the name of the cluster_toolkit tool
	ClusterToolkitToolName = "cluster_toolkit"

	// ListClustersToolName is the name of the list_clusters tool
	ListClustersToolName = "list_clusters"

	// GetClusterToolName is the name of the get_cluster tool
	GetClusterToolName = "get_cluster"

	// GenerateManifestToolName is the name of the giq_generate_manifest tool
	GenerateManifestToolName = "giq_generate_manifest"

	// ListRecommendationsToolName is the name of the list_recommendations tool
	ListRecommendationsToolName = "list_recommendations"

	// QueryLogsToolName is the name of the query_logs tool
	QueryLogsToolName = "query_logs"

	// GetLogSchemaToolName is the name of the get_log_schema tool
	GetLogSchemaToolName = "get_log_schema"

	// ListNamespacesToolName is the name of the list_namespaces tool
	ListNamespacesToolName = "list_namespaces"

	// GetPodsToolName is the name of the get_pods tool
	GetPodsToolName = "get_pods"

	// GetPodLogsToolName is the name of the get_pod_logs tool
	GetPodLogsToolName = "get_pod_logs"
)

// Server modes
const (
	ServerModeStdio = "stdio"
	ServerModeHTTP  = "http"
	ServerModeSSE   = "sse"
)

// AllLocations is the wildcard location accepted by the GKE API for list operations
const AllLocations = "-"
