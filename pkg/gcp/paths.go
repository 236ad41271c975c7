package gcp

import (
	"fmt"
)

// LocationPath returns the resource name of a project location
func LocationPath(project, location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", project, location)
}

// ClusterPath returns the resource name of a GKE cluster
func ClusterPath(project, location, cluster string) string {
	return fmt.Sprintf("%s/clusters/%s", LocationPath(project, location), cluster)
}

// RecommenderPath returns the resource name of a recommender
func RecommenderPath(project, location, recommender string) string {
	return fmt.Sprintf("%s/recommenders/%s", LocationPath(project, location), recommender)
}

// ProjectPath returns the resource name of a project
func ProjectPath(project string) string {
	return "projects/" + project
}
