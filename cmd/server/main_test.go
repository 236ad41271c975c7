package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	mu       sync.Mutex
	addr     string
	startErr error
	stopped  chan struct{}
	shutdown bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{stopped: make(chan struct{})}
}

func (f *fakeTransport) Start(addr string) error {
	f.mu.Lock()
	f.addr = addr
	startErr := f.startErr
	f.mu.Unlock()
	if startErr != nil {
		return startErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeTransport) Shutdown(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.shutdown {
		f.shutdown = true
		close(f.stopped)
	}
	return nil
}

func TestServeShutsDownOnCancel(t *testing.T) {
	transport := newFakeTransport()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, transport, ":9090", zap.NewNop()) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	assert.True(t, transport.shutdown)
	assert.Equal(t, ":9090", transport.addr)
}

func TestServeReturnsStartError(t *testing.T) {
	transport := newFakeTransport()
	transport.startErr = errors.New("address already in use")

	err := serve(context.Background(), transport, ":8080", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
}

func TestRootCommandRejectsInvalidConfig(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "server mode", args: []string{"--server-mode", "grpc"}, contains: "invalid server mode"},
		{name: "port", args: []string{"--server-mode", "http", "--server-port", "70000"}, contains: "out of valid range"},
		{name: "log level", args: []string{"--log-level", "trace"}, contains: "unknown log level"},
		{name: "positional args", args: []string{"extra"}, contains: "unknown command"},
		{name: "unknown flag", args: []string{"--sever-mode", "http"}, contains: "unknown flag: --sever-mode"},
		{name: "non-numeric port", args: []string{"--server-port", "abc"}, contains: "invalid argument \"abc\""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCommand()
			var stderr, stdout bytes.Buffer
			cmd.SetErr(&stderr)
			cmd.SetOut(&stdout)
			cmd.SetArgs(tc.args)

			code := execute(context.Background(), cmd)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), "Error: ")
			assert.Contains(t, stderr.String(), tc.contains)
			assert.Equal(t, 1, strings.Count(stderr.String(), "Error: "), "error should be printed once")
			assert.Empty(t, stdout.String())
		})
	}
}
