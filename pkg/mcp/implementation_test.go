package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/container/apiv1/containerpb"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
	"github.com/StacklokLabs/gke-mcp/pkg/k8s"
)

type fakeClusters struct {
	clusters  []*containerpb.Cluster
	listErr   error
	cluster   *containerpb.Cluster
	getErr    error
	op        *containerpb.Operation
	createErr error

	listCalls  [][2]string
	getCalls   [][3]string
	lastCreate *containerpb.CreateClusterRequest
}

func (f *fakeClusters) ListClusters(_ context.Context, project, location string) ([]*containerpb.Cluster, error) {
	f.listCalls = append(f.listCalls, [2]string{project, location})
	return f.clusters, f.listErr
}

func (f *fakeClusters) GetCluster(_ context.Context, project, location, name string) (*containerpb.Cluster, error) {
	f.getCalls = append(f.getCalls, [3]string{project, location, name})
	return f.cluster, f.getErr
}

func (f *fakeClusters) CreateCluster(_ context.Context, req *containerpb.CreateClusterRequest) (*containerpb.Operation, error) {
	f.lastCreate = req
	return f.op, f.createErr
}

type fakeRecommendations struct {
	recs []gcp.Recommendation
	err  error

	parent string
	filter string
	limit  int
}

func (f *fakeRecommendations) ListRecommendations(_ context.Context, parent, filter string, limit int) ([]gcp.Recommendation, error) {
	f.parent, f.filter, f.limit = parent, filter, limit
	return f.recs, f.err
}

type fakeLogs struct {
	entries []gcp.LogEntry
	err     error

	project     string
	filter      string
	limit       int
	newestFirst bool
}

func (f *fakeLogs) ListEntries(_ context.Context, project, filter string, limit int, newestFirst bool) ([]gcp.LogEntry, error) {
	f.project, f.filter, f.limit, f.newestFirst = project, filter, limit, newestFirst
	return f.entries, f.err
}

type fakeKubernetes struct {
	client *k8s.Client
	err    error

	refs        []k8s.ClusterRef
	invalidated []k8s.ClusterRef
}

func (f *fakeKubernetes) ClientFor(_ context.Context, ref k8s.ClusterRef) (*k8s.Client, error) {
	f.refs = append(f.refs, ref)
	return f.client, f.err
}

func (f *fakeKubernetes) Invalidate(ref k8s.ClusterRef) {
	f.invalidated = append(f.invalidated, ref)
}

type testBackends struct {
	clusters        *fakeClusters
	recommendations *fakeRecommendations
	logs            *fakeLogs
	kubernetes      *fakeKubernetes
	observed        *observer.ObservedLogs
}

func newTestBackends() *testBackends {
	return &testBackends{
		clusters:        &fakeClusters{},
		recommendations: &fakeRecommendations{},
		logs:            &fakeLogs{},
		kubernetes:      &fakeKubernetes{},
	}
}

func (b *testBackends) dependencies() Dependencies {
	core, observed := observer.New(zap.DebugLevel)
	b.observed = observed
	return Dependencies{
		Clusters:        b.clusters,
		Recommendations: b.recommendations,
		Logs:            b.logs,
		Kubernetes:      b.kubernetes,
		Logger:          zap.New(core),
	}
}

func newTestImplementation(b *testBackends) *Implementation {
	return NewImplementation(b.dependencies(), "default-project", "us-central1")
}

func newRequest(tool string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = tool
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result, "Result should not be nil")
	require.Len(t, result.Content, 1, "Result should have one content item")
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "Content should be TextContent")
	return textContent.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v interface{}) {
	t.Helper()
	text := resultText(t, result)
	require.False(t, result.IsError, "Result should not be an error: %s", text)
	require.NoError(t, json.Unmarshal([]byte(text), v))
}

func requireToolError(t *testing.T, result *mcp.CallToolResult, contains string) {
	t.Helper()
	text := resultText(t, result)
	assert.True(t, result.IsError, "Result should be an error")
	assert.Contains(t, text, contains)
}

func TestNewImplementationDefaults(t *testing.T) {
	impl := NewImplementation(Dependencies{}, "p", "europe-west1")
	require.NotNil(t, impl.logger)

	assert.Equal(t, "p", impl.project(newRequest("list_clusters", nil)))
	assert.Equal(t, "other", impl.project(newRequest("list_clusters", map[string]any{"project_id": " other "})))
	assert.Equal(t, "europe-west1", impl.location(newRequest("list_clusters", map[string]any{"location": ""})))
	assert.Equal(t, "us-east1", impl.location(newRequest("list_clusters", map[string]any{"location": "us-east1"})))
}

func TestToolErrorLogsWarning(t *testing.T) {
	b := newTestBackends()
	impl := newTestImplementation(b)

	result := impl.toolError(newRequest("get_cluster", nil), "Failed to get cluster", assert.AnError)
	requireToolError(t, result, "Failed to get cluster")

	entries := b.observed.FilterMessage("Failed to get cluster").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "get_cluster", entries[0].ContextMap()["tool"])
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 10, clampInt(0, 10, 1000))
	assert.Equal(t, 10, clampInt(-5, 10, 1000))
	assert.Equal(t, 25, clampInt(25, 10, 1000))
	assert.Equal(t, 1000, clampInt(5000, 10, 1000))
}
