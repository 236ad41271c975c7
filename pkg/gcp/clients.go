// Package gcp wraps the Google Cloud APIs used by the GKE tools
package gcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	container "cloud.google.com/go/container/apiv1"
	"cloud.google.com/go/logging/logadmin"
	recommender "cloud.google.com/go/recommender/apiv1"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// CloudPlatformScope is the OAuth2 scope requested for all Google Cloud calls
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Clients lazily creates and caches the Google Cloud API clients.
// Clients are created on first use so the server can start without credentials.
// They outlive the tool call that created them, so creation drops the caller's
// cancellation while keeping its values.
type Clients struct {
	opts []option.ClientOption

	mu             sync.Mutex
	clusterManager *container.ClusterManagerClient
	recommender    *recommender.Client
	logAdmin       map[string]*logadmin.Client
	tokenSource    oauth2.TokenSource
}

// NewClients creates a new set of lazily initialized clients
func NewClients(opts ...option.ClientOption) *Clients {
	return &Clients{
		opts:     opts,
		logAdmin: make(map[string]*logadmin.Client),
	}
}

// Clusters returns the GKE cluster service
func (c *Clients) Clusters() ClusterService {
	return &clusterService{clients: c}
}

// Recommendations returns the Recommender service
func (c *Clients) Recommendations() RecommendationService {
	return &recommendationService{clients: c}
}

// Logs returns the Cloud Logging service
func (c *Clients) Logs() LogService {
	return &logService{clients: c}
}

func (c *Clients) clusterManagerClient(ctx context.Context) (*container.ClusterManagerClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clusterManager == nil {
		client, err := container.NewClusterManagerClient(context.WithoutCancel(ctx), c.opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create GKE cluster manager client: %w", err)
		}
		c.clusterManager = client
	}
	return c.clusterManager, nil
}

func (c *Clients) recommenderClient(ctx context.Context) (*recommender.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recommender == nil {
		client, err := recommender.NewClient(context.WithoutCancel(ctx), c.opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create recommender client: %w", err)
		}
		c.recommender = client
	}
	return c.recommender, nil
}

// logAdminClient returns the logging admin client for project. Cloud Logging
// clients are bound to a parent resource, so one is kept per project.
func (c *Clients) logAdminClient(ctx context.Context, project string) (*logadmin.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.logAdmin[project]; ok {
		return client, nil
	}
	client, err := logadmin.NewClient(context.WithoutCancel(ctx), ProjectPath(project), c.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging client for project %s: %w", project, err)
	}
	c.logAdmin[project] = client
	return client, nil
}

// TokenSource returns the token source used to authenticate against GKE control planes
func (c *Clients) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokenSource == nil {
		ts, err := google.DefaultTokenSource(context.WithoutCancel(ctx), CloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		c.tokenSource = ts
	}
	return c.tokenSource, nil
}

// Close closes every client that was created
func (c *Clients) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.clusterManager != nil {
		errs = append(errs, c.clusterManager.Close())
		c.clusterManager = nil
	}
	if c.recommender != nil {
		errs = append(errs, c.recommender.Close())
		c.recommender = nil
	}
	for project, client := range c.logAdmin {
		errs = append(errs, client.Close())
		delete(c.logAdmin, project)
	}
	return errors.Join(errs...)
}
