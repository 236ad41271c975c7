package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/StacklokLabs/gke-mcp/pkg/k8s"
)

const defaultNamespace = "default"

// ListNamespacesResult is the list_namespaces response
type ListNamespacesResult struct {
	Cluster    string   `json:"cluster"`
	Namespaces []string `json:"namespaces"`
}

// GetPodsResult is the get_pods response
type GetPodsResult struct {
	Cluster   string           `json:"cluster"`
	Namespace string           `json:"namespace"`
	Pods      []k8s.PodSummary `json:"pods"`
}

// GetPodLogsResult is the get_pod_logs response
type GetPodLogsResult struct {
	Cluster   string `json:"cluster"`
	Namespace string `json:"namespace"`
	Pod       string `json:"pod"`
	Container string `json:"container,omitempty"`
	Logs      string `json:"logs"`
}

// clusterRef resolves the cluster addressed by the request
func (m *Implementation) clusterRef(request mcp.CallToolRequest) (k8s.ClusterRef, *mcp.CallToolResult) {
	name, errResult := requiredString(request, "cluster_name")
	if errResult != nil {
		return k8s.ClusterRef{}, errResult
	}
	project := m.project(request)
	if project == "" {
		return k8s.ClusterRef{}, mcp.NewToolResultError(missingProjectMessage)
	}
	location := m.location(request)
	if location == "" {
		return k8s.ClusterRef{}, mcp.NewToolResultError(missingLocationMessage)
	}
	return k8s.ClusterRef{Project: project, Location: location, Name: name}, nil
}

// clusterError drops cached credentials that the API server rejected
func (m *Implementation) clusterError(request mcp.CallToolRequest, ref k8s.ClusterRef, message string, err error) *mcp.CallToolResult {
	if apierrors.IsUnauthorized(err) || apierrors.IsForbidden(err) {
		m.logger.Debug("Dropping cached cluster client", zap.String("cluster", ref.String()))
		m.kubernetes.Invalidate(ref)
	}
	return m.toolError(request, message, err)
}

// HandleListNamespaces handles the list_namespaces tool
func (m *Implementation) HandleListNamespaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, errResult := m.clusterRef(request)
	if errResult != nil {
		return errResult, nil
	}

	client, err := m.kubernetes.ClientFor(ctx, ref)
	if err != nil {
		return m.toolError(request, "Failed to connect to cluster", err), nil
	}

	namespaces, err := client.ListNamespaces(ctx)
	if err != nil {
		return m.clusterError(request, ref, "Failed to list namespaces", err), nil
	}
	return jsonResult(ListNamespacesResult{Cluster: ref.String(), Namespaces: namespaces}), nil
}

// HandleGetPods handles the get_pods tool
func (m *Implementation) HandleGetPods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, errResult := m.clusterRef(request)
	if errResult != nil {
		return errResult, nil
	}
	namespace := mcp.ParseString(request, "namespace", defaultNamespace)
	if namespace == "" {
		namespace = defaultNamespace
	}

	client, err := m.kubernetes.ClientFor(ctx, ref)
	if err != nil {
		return m.toolError(request, "Failed to connect to cluster", err), nil
	}

	pods, err := client.ListPods(ctx, namespace)
	if err != nil {
		return m.clusterError(request, ref, "Failed to list pods", err), nil
	}
	return jsonResult(GetPodsResult{Cluster: ref.String(), Namespace: namespace, Pods: pods}), nil
}

// HandleGetPodLogs handles the get_pod_logs tool
func (m *Implementation) HandleGetPodLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, errResult := m.clusterRef(request)
	if errResult != nil {
		return errResult, nil
	}
	pod, errResult := requiredString(request, "pod_name")
	if errResult != nil {
		return errResult, nil
	}
	namespace := mcp.ParseString(request, "namespace", defaultNamespace)
	if namespace == "" {
		namespace = defaultNamespace
	}
	opts := k8s.PodLogOptions{
		Container:    mcp.ParseString(request, "container", ""),
		Previous:     mcp.ParseBoolean(request, "previous", false),
		TailLines:    int64(mcp.ParseInt(request, "tail_lines", 0)),
		SinceSeconds: int64(mcp.ParseInt(request, "since_seconds", 0)),
		Timestamps:   mcp.ParseBoolean(request, "timestamps", false),
	}

	client, err := m.kubernetes.ClientFor(ctx, ref)
	if err != nil {
		return m.toolError(request, "Failed to connect to cluster", err), nil
	}

	logs, err := client.PodLogs(ctx, namespace, pod, opts)
	if err != nil {
		return m.clusterError(request, ref, "Failed to get pod logs", err), nil
	}
	return jsonResult(GetPodLogsResult{
		Cluster:   ref.String(),
		Namespace: namespace,
		Pod:       pod,
		Container: opts.Container,
		Logs:      logs,
	}), nil
}
