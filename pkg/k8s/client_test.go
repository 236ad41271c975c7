package k8s

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	kubefake "k8s.io/client-go/kubernetes/fake"
	ktesting "k8s.io/client-go/testing"
)

func newPod(name, namespace, node string, phase corev1.PodPhase, statuses ...corev1.ContainerStatus) *corev1.Pod {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       corev1.PodSpec{NodeName: node},
		Status: corev1.PodStatus{
			Phase:             phase,
			ContainerStatuses: statuses,
		},
	}
	for _, s := range statuses {
		pod.Spec.Containers = append(pod.Spec.Containers, corev1.Container{Name: s.Name})
	}
	return pod
}

func TestListNamespaces(t *testing.T) {
	clientset := kubefake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "inference"}},
	)
	client := &Client{}
	client.SetClientset(clientset)

	names, err := client.ListNamespaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "inference", "kube-system"}, names)
}

func TestListNamespacesError(t *testing.T) {
	clientset := kubefake.NewSimpleClientset()
	clientset.PrependReactor("list", "namespaces", func(_ ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("forbidden")
	})
	client := &Client{}
	client.SetClientset(clientset)

	_, err := client.ListNamespaces(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list namespaces")
	assert.Contains(t, err.Error(), "forbidden")
}

func TestListPods(t *testing.T) {
	clientset := kubefake.NewSimpleClientset(
		newPod("web-2", "default", "node-b", corev1.PodPending,
			corev1.ContainerStatus{Name: "web", Ready: false}),
		newPod("web-1", "default", "node-a", corev1.PodRunning,
			corev1.ContainerStatus{Name: "web", Ready: true, RestartCount: 2},
			corev1.ContainerStatus{Name: "sidecar", Ready: true, RestartCount: 1}),
		newPod("other", "kube-system", "node-a", corev1.PodRunning,
			corev1.ContainerStatus{Name: "dns", Ready: true}),
	)
	client := &Client{}
	client.SetClientset(clientset)

	pods, err := client.ListPods(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, pods, 2)

	assert.Equal(t, PodSummary{Name: "web-1", Phase: "Running", Node: "node-a", Ready: "2/2", Restarts: 3}, pods[0])
	assert.Equal(t, PodSummary{Name: "web-2", Phase: "Pending", Node: "node-b", Ready: "0/1", Restarts: 0}, pods[1])
}

func TestListPodsEmptyNamespace(t *testing.T) {
	client := &Client{}
	client.SetClientset(kubefake.NewSimpleClientset())

	pods, err := client.ListPods(context.Background(), "empty")
	require.NoError(t, err)
	assert.NotNil(t, pods)
	assert.Empty(t, pods)
}
