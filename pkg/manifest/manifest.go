// Package manifest generates Kubernetes manifests for model inference workloads on GKE
package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	"sigs.k8s.io/yaml"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	// DefaultPort is the container port exposed by the inference server
	DefaultPort = 8080

	// AcceleratorNodeSelector is the node label GKE sets on accelerator node pools
	AcceleratorNodeSelector = "cloud.google.com/gke-accelerator"

	// GPUResourceName is the extended resource advertised by the NVIDIA device plugin
	GPUResourceName corev1.ResourceName = "nvidia.com/gpu"
)

// Options describes the inference deployment to generate
type Options struct {
	ModelName        string
	Replicas         int32
	Image            string
	Project          string
	AcceleratorType  string
	AcceleratorCount int64
	Port             int32
}

// Validate checks opts and fills in defaults
func (o *Options) Validate() error {
	o.ModelName = strings.TrimSpace(o.ModelName)
	if o.ModelName == "" {
		return fmt.Errorf("model_name is required")
	}
	if errs := validation.IsDNS1123Label(o.ModelName); len(errs) > 0 {
		return fmt.Errorf("invalid model_name %q: %s", o.ModelName, strings.Join(errs, "; "))
	}
	if errs := validation.IsDNS1123Label(DeploymentName(o.ModelName)); len(errs) > 0 {
		return fmt.Errorf("model_name %q is too long: %s", o.ModelName, strings.Join(errs, "; "))
	}
	if o.Replicas < 1 {
		return fmt.Errorf("replicas must be at least 1, got %d", o.Replicas)
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Port < 1 || o.Port > 65535 {
		return fmt.Errorf("port %d out of valid range (1-65535)", o.Port)
	}
	if o.Image == "" {
		if o.Project == "" {
			return fmt.Errorf("image is required when no default project is configured")
		}
		o.Image = fmt.Sprintf("gcr.io/%s/%s:latest", o.Project, o.ModelName)
	}
	if o.AcceleratorType != "" && o.AcceleratorCount < 1 {
		return fmt.Errorf("accelerator_count must be at least 1, got %d", o.AcceleratorCount)
	}
	return nil
}

// DeploymentName returns the name of the deployment generated for model
func DeploymentName(model string) string {
	return model + "-inference"
}

// GenerateDeployment builds the inference deployment described by opts
func GenerateDeployment(opts Options) (*appsv1.Deployment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	labels := map[string]string{"app": opts.ModelName}

	container := corev1.Container{
		Name:  opts.ModelName,
		Image: opts.Image,
		Ports: []corev1.ContainerPort{{ContainerPort: opts.Port}},
	}

	podSpec := corev1.PodSpec{
		Containers: []corev1.Container{container},
	}

	if opts.AcceleratorType != "" {
		gpus := *resource.NewQuantity(opts.AcceleratorCount, resource.DecimalSI)
		podSpec.Containers[0].Resources = corev1.ResourceRequirements{
			Limits:   corev1.ResourceList{GPUResourceName: gpus},
			Requests: corev1.ResourceList{GPUResourceName: gpus},
		}
		podSpec.NodeSelector = map[string]string{AcceleratorNodeSelector: opts.AcceleratorType}
	}

	replicas := opts.Replicas
	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:   DeploymentName(opts.ModelName),
			Labels: labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec:       podSpec,
			},
		},
	}, nil
}

// Render serializes obj in the requested format
func Render(obj interface{}, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return json.MarshalIndent(obj, "", "  ")
	case FormatYAML:
		return yaml.Marshal(obj)
	default:
		return nil, fmt.Errorf("unsupported format %q: must be 'json' or 'yaml'", format)
	}
}
