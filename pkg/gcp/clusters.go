package gcp

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cloud.google.com/go/container/apiv1/containerpb"
)

// ClusterService provides access to GKE clusters
type ClusterService interface {
	// ListClusters lists the clusters in a project location. Location "-" lists all locations.
	ListClusters(ctx context.Context, project, location string) ([]*containerpb.Cluster, error)
	// GetCluster returns a single cluster
	GetCluster(ctx context.Context, project, location, name string) (*containerpb.Cluster, error)
	// CreateCluster starts the creation of a cluster and returns the long running operation
	CreateCluster(ctx context.Context, req *containerpb.CreateClusterRequest) (*containerpb.Operation, error)
}

type clusterService struct {
	clients *Clients
}

func (s *clusterService) ListClusters(ctx context.Context, project, location string) ([]*containerpb.Cluster, error) {
	client, err := s.clients.clusterManagerClient(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.ListClusters(ctx, &containerpb.ListClustersRequest{
		Parent: LocationPath(project, location),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters in %s: %w", LocationPath(project, location), err)
	}
	if missing := resp.GetMissingZones(); len(missing) > 0 {
		return resp.GetClusters(), &PartialListError{MissingZones: missing}
	}
	return resp.GetClusters(), nil
}

func (s *clusterService) GetCluster(ctx context.Context, project, location, name string) (*containerpb.Cluster, error) {
	client, err := s.clients.clusterManagerClient(ctx)
	if err != nil {
		return nil, err
	}
	cluster, err := client.GetCluster(ctx, &containerpb.GetClusterRequest{
		Name: ClusterPath(project, location, name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cluster %s: %w", ClusterPath(project, location, name), err)
	}
	return cluster, nil
}

func (s *clusterService) CreateCluster(ctx context.Context, req *containerpb.CreateClusterRequest) (*containerpb.Operation, error) {
	client, err := s.clients.clusterManagerClient(ctx)
	if err != nil {
		return nil, err
	}
	op, err := client.CreateCluster(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster %s in %s: %w", req.GetCluster().GetName(), req.GetParent(), err)
	}
	return op, nil
}

// PartialListError is returned alongside the clusters that could be listed when
// some zones did not answer.
type PartialListError struct {
	MissingZones []string
}

func (e *PartialListError) Error() string {
	return fmt.Sprintf("clusters in zones %s could not be listed", strings.Join(e.MissingZones, ", "))
}

// ClusterSummary is the list_clusters projection of a cluster
type ClusterSummary struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	NodeCount int32  `json:"node_count"`
}

// ClusterDetails is the get_cluster projection of a cluster
type ClusterDetails struct {
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Endpoint       string   `json:"endpoint"`
	NodePools      []string `json:"node_pools"`
	Location       string   `json:"location"`
	Version        string   `json:"version,omitempty"`
	Network        string   `json:"network,omitempty"`
	Subnetwork     string   `json:"subnetwork,omitempty"`
	ReleaseChannel string   `json:"release_channel,omitempty"`
	CreateTime     string   `json:"create_time,omitempty"`
}

// SummarizeCluster projects a cluster for list_clusters
func SummarizeCluster(c *containerpb.Cluster) ClusterSummary {
	var nodes int32
	for _, np := range c.GetNodePools() {
		nodes += np.GetInitialNodeCount()
	}
	//nolint:staticcheck // CurrentNodeCount is deprecated but still populated
	if current := c.GetCurrentNodeCount(); current > 0 {
		nodes = current
	}
	return ClusterSummary{
		Name:      c.GetName(),
		Location:  c.GetLocation(),
		Status:    c.GetStatus().String(),
		Version:   c.GetCurrentMasterVersion(),
		NodeCount: nodes,
	}
}

// DescribeCluster projects a cluster for get_cluster
func DescribeCluster(c *containerpb.Cluster) ClusterDetails {
	pools := make([]string, 0, len(c.GetNodePools()))
	for _, np := range c.GetNodePools() {
		pools = append(pools, np.GetName())
	}

	details := ClusterDetails{
		Name:       c.GetName(),
		Status:     c.GetStatus().String(),
		Endpoint:   c.GetEndpoint(),
		NodePools:  pools,
		Location:   c.GetLocation(),
		Version:    c.GetCurrentMasterVersion(),
		Network:    c.GetNetwork(),
		Subnetwork: c.GetSubnetwork(),
		CreateTime: c.GetCreateTime(),
	}
	if rc := c.GetReleaseChannel(); rc != nil {
		details.ReleaseChannel = rc.GetChannel().String()
	}
	return details
}

// clusterNameRE matches the names GKE accepts for clusters
var clusterNameRE = regexp.MustCompile(`^[a-z]([-a-z0-9]{0,38}[a-z0-9])?$`)

// CreateClusterOptions describes a cluster to create
type CreateClusterOptions struct {
	Project          string
	Location         string
	Name             string
	NodeCount        int32
	MachineType      string
	AcceleratorType  string
	AcceleratorCount int64
	ReleaseChannel   string
}

// BuildCreateClusterRequest validates opts and builds the GKE create request
func BuildCreateClusterRequest(opts CreateClusterOptions) (*containerpb.CreateClusterRequest, error) {
	if opts.Project == "" {
		return nil, fmt.Errorf("project_id is required")
	}
	if opts.Location == "" {
		return nil, fmt.Errorf("region is required")
	}
	if !clusterNameRE.MatchString(opts.Name) {
		return nil, fmt.Errorf("invalid cluster_name %q: must be 1-40 lowercase letters, digits or hyphens, "+
			"start with a letter and not end with a hyphen", opts.Name)
	}
	if opts.NodeCount == 0 {
		opts.NodeCount = 1
	}
	if opts.NodeCount < 1 {
		return nil, fmt.Errorf("node_count must be at least 1, got %d", opts.NodeCount)
	}

	nodeConfig := &containerpb.NodeConfig{
		MachineType: opts.MachineType,
	}
	if opts.AcceleratorType != "" {
		if opts.AcceleratorCount < 1 {
			return nil, fmt.Errorf("accelerator_count must be at least 1, got %d", opts.AcceleratorCount)
		}
		nodeConfig.Accelerators = []*containerpb.AcceleratorConfig{{
			AcceleratorType:  opts.AcceleratorType,
			AcceleratorCount: opts.AcceleratorCount,
		}}
	}

	cluster := &containerpb.Cluster{
		Name:             opts.Name,
		InitialNodeCount: opts.NodeCount,
		NodeConfig:       nodeConfig,
		ResourceLabels:   map[string]string{"created-by": "gke-mcp"},
	}

	if opts.ReleaseChannel != "" {
		channel, ok := containerpb.ReleaseChannel_Channel_value[strings.ToUpper(opts.ReleaseChannel)]
		if !ok || channel == int32(containerpb.ReleaseChannel_UNSPECIFIED) {
			return nil, fmt.Errorf("invalid release_channel %q: must be rapid, regular, stable or extended", opts.ReleaseChannel)
		}
		cluster.ReleaseChannel = &containerpb.ReleaseChannel{
			Channel: containerpb.ReleaseChannel_Channel(channel),
		}
	}

	return &containerpb.CreateClusterRequest{
		Parent:  LocationPath(opts.Project, opts.Location),
		Cluster: cluster,
	}, nil
}

// OperationSummary is the cluster_toolkit projection of a GKE operation
type OperationSummary struct {
	Operation string `json:"operation"`
	Status    string `json:"status"`
	Type      string `json:"type,omitempty"`
	Target    string `json:"target,omitempty"`
	Cluster   string `json:"cluster"`
}

// SummarizeOperation projects a create-cluster operation
func SummarizeOperation(op *containerpb.Operation, cluster string) OperationSummary {
	return OperationSummary{
		Operation: op.GetName(),
		Status:    op.GetStatus().String(),
		Type:      op.GetOperationType().String(),
		Target:    op.GetTargetLink(),
		Cluster:   cluster,
	}
}
