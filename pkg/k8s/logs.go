package k8s

import (
	"bytes"
	"context"
	"fmt"
	"io"

	corev1 "k8s.io/api/core/v1"
)

const (
	// DefaultTailLines keeps pod logs within an LLM context window
	DefaultTailLines int64 = 100
	// LimitBytes caps the size of a pod log read
	LimitBytes int64 = 32 * 1024
)

// PodLogOptions selects the part of a pod's log to read
type PodLogOptions struct {
	Container    string
	Previous     bool
	TailLines    int64
	SinceSeconds int64
	Timestamps   bool
}

func (o PodLogOptions) toPodLogOptions() *corev1.PodLogOptions {
	opts := &corev1.PodLogOptions{
		Container:  o.Container,
		Previous:   o.Previous,
		Timestamps: o.Timestamps,
	}

	limitBytes := LimitBytes
	opts.LimitBytes = &limitBytes

	// sinceSeconds replaces the default tail, an explicit tail still applies
	if o.SinceSeconds > 0 {
		since := o.SinceSeconds
		opts.SinceSeconds = &since
	}
	switch {
	case o.TailLines > 0:
		tail := o.TailLines
		opts.TailLines = &tail
	case o.SinceSeconds <= 0:
		tail := DefaultTailLines
		opts.TailLines = &tail
	}
	return opts
}

// PodLogs reads the logs of a pod. Logs are not followed.
func (c *Client) PodLogs(ctx context.Context, namespace, name string, opts PodLogOptions) (string, error) {
	if name == "" {
		return "", fmt.Errorf("pod name cannot be empty")
	}

	stream, err := c.clientset.CoreV1().Pods(namespace).GetLogs(name, opts.toPodLogOptions()).Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get logs of pod %s/%s: %w", namespace, name, err)
	}
	defer func() { _ = stream.Close() }()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, stream); err != nil {
		return "", fmt.Errorf("failed to read logs of pod %s/%s: %w", namespace, name, err)
	}
	return buf.String(), nil
}
