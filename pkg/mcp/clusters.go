package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
	"github.com/StacklokLabs/gke-mcp/pkg/types"
)

// ListClustersResult is the list_clusters response
type ListClustersResult struct {
	Clusters     []gcp.ClusterSummary `json:"clusters"`
	MissingZones []string             `json:"missing_zones,omitempty"`
}

// HandleClusterToolkit handles the cluster_toolkit tool
func (m *Implementation) HandleClusterToolkit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, errResult := requiredString(request, "project_id")
	if errResult != nil {
		return errResult, nil
	}
	region, errResult := requiredString(request, "region")
	if errResult != nil {
		return errResult, nil
	}
	name, errResult := requiredString(request, "cluster_name")
	if errResult != nil {
		return errResult, nil
	}
	nodeCount, errResult := int32Arg(request, "node_count", 1)
	if errResult != nil {
		return errResult, nil
	}

	req, err := gcp.BuildCreateClusterRequest(gcp.CreateClusterOptions{
		Project:          project,
		Location:         region,
		Name:             name,
		NodeCount:        nodeCount,
		MachineType:      mcp.ParseString(request, "machine_type", ""),
		AcceleratorType:  mcp.ParseString(request, "accelerator_type", ""),
		AcceleratorCount: mcp.ParseInt64(request, "accelerator_count", 1),
		ReleaseChannel:   mcp.ParseString(request, "release_channel", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	op, err := m.clusters.CreateCluster(ctx, req)
	if err != nil {
		return m.toolError(request, "Failed to create cluster", err), nil
	}

	m.logger.Info("Cluster creation started",
		zap.String("cluster", gcp.ClusterPath(project, region, name)),
		zap.String("operation", op.GetName()),
	)
	return jsonResult(gcp.SummarizeOperation(op, name)), nil
}

// HandleListClusters handles the list_clusters tool
func (m *Implementation) HandleListClusters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := m.project(request)
	if project == "" {
		return mcp.NewToolResultError(missingProjectMessage), nil
	}
	location := m.location(request)
	if location == "" {
		location = types.AllLocations
	}

	clusters, err := m.clusters.ListClusters(ctx, project, location)
	var partial *gcp.PartialListError
	if err != nil && !errors.As(err, &partial) {
		return m.toolError(request, "Failed to list clusters", err), nil
	}

	result := ListClustersResult{Clusters: make([]gcp.ClusterSummary, 0, len(clusters))}
	for _, c := range clusters {
		result.Clusters = append(result.Clusters, gcp.SummarizeCluster(c))
	}
	if partial != nil {
		m.logger.Warn("Cluster list is incomplete", zap.Strings("missing_zones", partial.MissingZones))
		result.MissingZones = partial.MissingZones
	}
	return jsonResult(result), nil
}

// HandleGetCluster handles the get_cluster tool
func (m *Implementation) HandleGetCluster(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requiredString(request, "cluster_name")
	if errResult != nil {
		return errResult, nil
	}
	project := m.project(request)
	if project == "" {
		return mcp.NewToolResultError(missingProjectMessage), nil
	}
	location := m.location(request)
	if location == "" {
		return mcp.NewToolResultError(missingLocationMessage), nil
	}

	cluster, err := m.clusters.GetCluster(ctx, project, location, name)
	if err != nil {
		return m.toolError(request, "Failed to get cluster", err), nil
	}
	return jsonResult(gcp.DescribeCluster(cluster)), nil
}
