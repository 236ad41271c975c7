package manifest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	"sigs.k8s.io/yaml"
)

func TestGenerateDeploymentDefaults(t *testing.T) {
	d, err := GenerateDeployment(Options{
		ModelName: "gemma",
		Replicas:  1,
		Project:   "my-project",
	})
	require.NoError(t, err)

	assert.Equal(t, "apps/v1", d.APIVersion)
	assert.Equal(t, "Deployment", d.Kind)
	assert.Equal(t, "gemma-inference", d.Name)
	require.NotNil(t, d.Spec.Replicas)
	assert.Equal(t, int32(1), *d.Spec.Replicas)
	assert.Equal(t, map[string]string{"app": "gemma"}, d.Spec.Selector.MatchLabels)
	assert.Equal(t, map[string]string{"app": "gemma"}, d.Spec.Template.Labels)

	require.Len(t, d.Spec.Template.Spec.Containers, 1)
	c := d.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "gemma", c.Name)
	assert.Equal(t, "gcr.io/my-project/gemma:latest", c.Image)
	require.Len(t, c.Ports, 1)
	assert.Equal(t, int32(8080), c.Ports[0].ContainerPort)
	assert.Empty(t, c.Resources.Limits)
	assert.Empty(t, d.Spec.Template.Spec.NodeSelector)
}

func TestGenerateDeploymentWithAccelerator(t *testing.T) {
	d, err := GenerateDeployment(Options{
		ModelName:        "llama",
		Replicas:         3,
		Image:            "us-docker.pkg.dev/p/repo/llama:v1",
		AcceleratorType:  "nvidia-l4",
		AcceleratorCount: 2,
		Port:             9000,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(3), *d.Spec.Replicas)
	assert.Equal(t, "nvidia-l4", d.Spec.Template.Spec.NodeSelector[AcceleratorNodeSelector])

	c := d.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "us-docker.pkg.dev/p/repo/llama:v1", c.Image)
	assert.Equal(t, int32(9000), c.Ports[0].ContainerPort)
	limit := c.Resources.Limits[GPUResourceName]
	assert.Equal(t, int64(2), limit.Value())
	request := c.Resources.Requests[GPUResourceName]
	assert.Equal(t, int64(2), request.Value())
}

func TestGenerateDeploymentValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{"missing model", Options{Replicas: 1, Project: "p"}, "model_name is required"},
		{"invalid model", Options{ModelName: "Gemma_7B", Replicas: 1, Project: "p"}, "invalid model_name"},
		{"model too long", Options{ModelName: strings.Repeat("a", 60), Replicas: 1, Project: "p"}, "too long"},
		{"zero replicas", Options{ModelName: "gemma", Project: "p"}, "replicas must be at least 1"},
		{"bad port", Options{ModelName: "gemma", Replicas: 1, Project: "p", Port: -1}, "out of valid range"},
		{"no image or project", Options{ModelName: "gemma", Replicas: 1}, "image is required"},
		{"accelerator without count", Options{ModelName: "gemma", Replicas: 1, Project: "p", AcceleratorType: "nvidia-l4"}, "accelerator_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateDeployment(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRender(t *testing.T) {
	d, err := GenerateDeployment(Options{ModelName: "gemma", Replicas: 2, Project: "p"})
	require.NoError(t, err)

	jsonOut, err := Render(d, FormatJSON)
	require.NoError(t, err)
	var fromJSON appsv1.Deployment
	require.NoError(t, json.Unmarshal(jsonOut, &fromJSON))
	assert.Equal(t, "gemma-inference", fromJSON.Name)

	yamlOut, err := Render(d, "YAML")
	require.NoError(t, err)
	assert.Contains(t, string(yamlOut), "kind: Deployment")
	var fromYAML appsv1.Deployment
	require.NoError(t, yaml.Unmarshal(yamlOut, &fromYAML))
	assert.Equal(t, int32(2), *fromYAML.Spec.Replicas)

	_, err = Render(d, "toml")
	assert.Error(t, err)
}
