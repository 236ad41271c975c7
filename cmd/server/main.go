// Package main provides the entry point for the gke-mcp server application
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"github.com/StacklokLabs/gke-mcp/pkg/config"
	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
	"github.com/StacklokLabs/gke-mcp/pkg/k8s"
	"github.com/StacklokLabs/gke-mcp/pkg/logging"
	"github.com/StacklokLabs/gke-mcp/pkg/mcp"
	"github.com/StacklokLabs/gke-mcp/pkg/otel"
	"github.com/StacklokLabs/gke-mcp/pkg/types"
)

const shutdownTimeout = 5 * time.Second

// transportServer is implemented by the SSE and streamable HTTP servers
type transportServer interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	os.Exit(execute(context.Background(), newRootCommand()))
}

// execute runs cmd and returns the process exit code, printing any error once
func execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "gke-mcp",
		Short:         "MCP server exposing Google Kubernetes Engine tools",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := run(cmd.Context(), cfg, logger); err != nil {
				logger.Error("Server failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cobra.CheckErr(config.AddFlags(cmd.Flags(), v))
	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		provider, err := otel.NewProvider(ctx, &cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to start telemetry: %w", err)
		}
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				logger.Warn("Error stopping telemetry", zap.Error(err))
			}
		}()
	}

	clients := gcp.NewClients(option.WithUserAgent(mcp.ServerName + "/" + mcp.ServerVersion))
	defer func() {
		if err := clients.Close(); err != nil {
			logger.Warn("Error closing Google Cloud clients", zap.Error(err))
		}
	}()

	mcpServer := mcp.CreateServer(mcp.Dependencies{
		Clusters:        clients.Clusters(),
		Recommendations: clients.Recommendations(),
		Logs:            clients.Logs(),
		Kubernetes:      k8s.NewProvider(clients.Clusters(), clients.TokenSource, cfg.Kubeconfig),
		Logger:          logger,
	}, &mcp.Config{
		DefaultProject:     cfg.Project,
		DefaultLocation:    cfg.Location,
		ReadOnly:           cfg.ReadOnly,
		EnableRateLimiting: cfg.EnableRateLimiting,
		EnableTelemetry:    cfg.Telemetry.Enabled,
		ToolTimeout:        cfg.ToolTimeout,
	})
	defer mcp.StopServer()

	logger.Info("Starting MCP server",
		zap.String("mode", cfg.ServerMode),
		zap.String("project", cfg.Project),
		zap.String("location", cfg.Location),
		zap.Bool("read_only", cfg.ReadOnly),
	)

	if !cfg.UsesNetwork() {
		if err := mcp.ServeStdio(ctx, mcpServer, os.Stdin, os.Stdout, logger); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server: %w", err)
		}
		logger.Info("Server shutdown complete")
		return nil
	}

	var transport transportServer
	switch cfg.ServerMode {
	case types.ServerModeSSE:
		transport = mcp.CreateSSEServer(mcpServer)
	default:
		transport = mcp.CreateStreamableHTTPServer(mcpServer)
	}
	return serve(ctx, transport, cfg.Address(), logger)
}

// serve runs transport until ctx is cancelled, then shuts it down
func serve(ctx context.Context, transport transportServer, addr string, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Listening", zap.String("addr", addr))
		if err := transport.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := transport.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}
		logger.Info("Server shutdown completed gracefully")
		return nil
	})

	return g.Wait()
}
