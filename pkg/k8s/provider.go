// Package k8s provides Kubernetes API access to GKE clusters
package k8s

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"cloud.google.com/go/container/apiv1/containerpb"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
)

const (
	clientTTL          = 10 * time.Minute
	cacheCleanupPeriod = 20 * time.Minute
)

// ClusterRef identifies a GKE cluster
type ClusterRef struct {
	Project  string
	Location string
	Name     string
}

// String returns the resource name of the cluster
func (r ClusterRef) String() string {
	return gcp.ClusterPath(r.Project, r.Location, r.Name)
}

// KubeconfigContext returns the context name gcloud writes for the cluster
func (r ClusterRef) KubeconfigContext() string {
	return fmt.Sprintf("gke_%s_%s_%s", r.Project, r.Location, r.Name)
}

// ClusterGetter fetches GKE cluster metadata
type ClusterGetter interface {
	GetCluster(ctx context.Context, project, location, name string) (*containerpb.Cluster, error)
}

// TokenSourceFunc returns the token source used to authenticate to cluster control planes
type TokenSourceFunc func(ctx context.Context) (oauth2.TokenSource, error)

// Provider hands out Kubernetes clients for GKE clusters and caches them per cluster
type Provider struct {
	clusters       ClusterGetter
	tokenSource    TokenSourceFunc
	kubeconfigPath string
	clients        *cache.Cache
	newClient      func(*rest.Config) (*Client, error)

	// serializes client creation so concurrent calls do not fetch credentials twice
	mu sync.Mutex
}

// NewProvider creates a new Provider. When kubeconfigPath is set, clients are built from
// the gcloud-style context of each cluster instead of the GKE API.
func NewProvider(clusters ClusterGetter, tokenSource TokenSourceFunc, kubeconfigPath string) *Provider {
	return &Provider{
		clusters:       clusters,
		tokenSource:    tokenSource,
		kubeconfigPath: kubeconfigPath,
		clients:        cache.New(clientTTL, cacheCleanupPeriod),
		newClient:      NewClient,
	}
}

// SetClientFactory sets the function used to build clients from REST configs (for testing purposes)
func (p *Provider) SetClientFactory(newClient func(*rest.Config) (*Client, error)) {
	p.newClient = newClient
}

// ClientFor returns a client for the cluster
func (p *Provider) ClientFor(ctx context.Context, ref ClusterRef) (*Client, error) {
	key := ref.String()
	if c, ok := p.clients.Get(key); ok {
		return c.(*Client), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients.Get(key); ok {
		return c.(*Client), nil
	}

	config, err := p.restConfig(ctx, ref)
	if err != nil {
		return nil, err
	}
	client, err := p.newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for cluster %s: %w", ref.Name, err)
	}

	p.clients.Set(key, client, cache.DefaultExpiration)
	return client, nil
}

// Invalidate drops the cached client of the cluster, forcing new credentials on next use
func (p *Provider) Invalidate(ref ClusterRef) {
	p.clients.Delete(ref.String())
}

func (p *Provider) restConfig(ctx context.Context, ref ClusterRef) (*rest.Config, error) {
	if p.kubeconfigPath != "" {
		return RESTConfigFromKubeconfig(p.kubeconfigPath, ref.KubeconfigContext())
	}

	cluster, err := p.clusters.GetCluster(ctx, ref.Project, ref.Location, ref.Name)
	if err != nil {
		return nil, err
	}
	ts, err := p.tokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return RESTConfigForCluster(cluster, ts)
}

// RESTConfigForCluster builds a REST config that reaches the cluster control plane with
// bearer tokens from ts.
func RESTConfigForCluster(cluster *containerpb.Cluster, ts oauth2.TokenSource) (*rest.Config, error) {
	if cluster.GetEndpoint() == "" {
		return nil, fmt.Errorf("cluster %s has no endpoint, it may still be provisioning", cluster.GetName())
	}

	ca, err := base64.StdEncoding.DecodeString(cluster.GetMasterAuth().GetClusterCaCertificate())
	if err != nil {
		return nil, fmt.Errorf("failed to decode CA certificate of cluster %s: %w", cluster.GetName(), err)
	}
	if len(ca) == 0 {
		return nil, fmt.Errorf("cluster %s has no CA certificate", cluster.GetName())
	}

	config := &rest.Config{
		Host: "https://" + cluster.GetEndpoint(),
		TLSClientConfig: rest.TLSClientConfig{
			CAData: ca,
		},
	}
	config.Wrap(func(rt http.RoundTripper) http.RoundTripper {
		return &oauth2.Transport{Source: ts, Base: rt}
	})
	return config, nil
}

// RESTConfigFromKubeconfig loads the named context from the kubeconfig files in path.
// path may list several files separated by the OS list separator, like KUBECONFIG.
func RESTConfigFromKubeconfig(path, contextName string) (*rest.Config, error) {
	rules := &clientcmd.ClientConfigLoadingRules{Precedence: filepath.SplitList(path)}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig context %s: %w", contextName, err)
	}
	return config, nil
}
