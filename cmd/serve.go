package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drivekit/internal/google"
	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/loop"
	"github.com/teemow/drivekit/internal/platform"
	"github.com/teemow/drivekit/internal/resources"
	"github.com/teemow/drivekit/internal/server"
	"github.com/teemow/drivekit/internal/tools/drive_tools"
	"github.com/teemow/drivekit/internal/tools/google_tools"
)

type serveOptions struct {
	yolo        bool
	metricsAddr string
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	so := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server on stdio to provide Google
Drive tools, the Google OAuth tools and the bundled platform resources to
AI assistants.

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (create folders, rename, trash, link, unlink).

Metrics:
  With --metrics-addr (or DRIVEKIT_INSTRUMENTATION_METRICS_ADDR) and the
  prometheus metrics exporter, /metrics, /healthz, /readyz and
  /healthz/detailed are served on that address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				so.metricsAddr = opts.cfg.Instrumentation.MetricsAddr
			}
			return runServe(cmd.Context(), opts, so, os.Stdin, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&so.yolo, "yolo", false, "Enable write operations. Default is read-only mode.")
	cmd.Flags().StringVar(&so.metricsAddr, "metrics-addr", "", "Serve metrics and health endpoints on this address, e.g. :9090")

	return cmd
}

func runServe(ctx context.Context, opts *globalOptions, so serveOptions, stdin io.Reader, stdout io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := opts.logger
	cfg := opts.cfg

	instrConfig := cfg.InstrumentationConfig(version)
	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	var (
		metrics *instrumentation.Metrics
		audit   *instrumentation.AuditLogger
	)
	if provider.Enabled() {
		metrics = provider.Metrics()
		audit = instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)
	}

	// The platform posts timer callbacks and main-thread work to this loop.
	mainLoop := loop.NewWithLogger(logger)
	go func() {
		if err := mainLoop.Run(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("main loop stopped", "error", err)
		}
	}()
	defer mainLoop.Quit()

	p := platform.New(mainLoop, platform.WithLogger(logger), platform.WithMetrics(metrics))

	tokens := opts.tokenProvider()
	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithTokenProvider(tokens),
		server.WithAuthorizer(tokens),
		server.WithDriveConfig(opts.driveClientConfig()),
		server.WithPlatform(p),
		server.WithMetrics(metrics),
		server.WithAuditLogger(audit),
		server.WithDefaultAccount(cfg.Drive.Account),
		server.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	var metricsServer *server.MetricsServer
	if so.metricsAddr != "" {
		metricsServer, err = startMetricsServer(so.metricsAddr, provider, serverContext, tokens, logger)
		if err != nil {
			_ = serverContext.Shutdown()
			_ = provider.Shutdown(context.Background())
			return err
		}
	}

	defer func() {
		stopCtx, stop := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer stop()

		var shutdownErrs []error
		if metricsServer != nil {
			shutdownErrs = append(shutdownErrs, metricsServer.Shutdown(stopCtx))
		}
		shutdownErrs = append(shutdownErrs, serverContext.Shutdown(), provider.Shutdown(stopCtx))
		if joined := errors.Join(shutdownErrs...); joined != nil {
			logger.Warn("error during shutdown", "error", joined)
		}
	}()

	// Note: mcp.Implementation has Title field but WithTitle() ServerOption not available in v0.43.0
	mcpSrv := mcpserver.NewMCPServer("drivekit", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !so.yolo
	if readOnly {
		logger.Info("starting MCP server in read-only mode (use --yolo to enable write operations)")
	} else {
		logger.Info("starting MCP server with write operations enabled")
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	return runStdioServer(shutdownCtx, mcpSrv, stdin, stdout, logger)
}

// startMetricsServer serves /metrics and the health endpoints in the
// background. Readiness fails while the default account has no token.
func startMetricsServer(addr string, provider *instrumentation.Provider, sc *server.ServerContext, tokens google.TokenProvider, logger *slog.Logger) (*server.MetricsServer, error) {
	health := server.NewHealthChecker(sc)
	health.AddCheck("token", func() error {
		if !tokens.HasTokenForAccount(sc.DefaultAccount()) {
			return errors.New(google.AuthenticationErrorMessage(sc.DefaultAccount()))
		}
		return nil
	})

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		Health:                  health,
		Logger:                  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	started := make(chan error, 1)
	go func() {
		started <- metricsServer.Start()
	}()

	// Listen errors surface immediately. Serve errors later are only logged.
	select {
	case err := <-started:
		if err != nil {
			return nil, fmt.Errorf("metrics server failed to start: %w", err)
		}
	case <-time.After(100 * time.Millisecond):
		go func() {
			if err := <-started; err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}
	return metricsServer, nil
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	stdioSrv := mcpserver.NewStdioServer(mcpSrv)
	stdioSrv.SetErrorLogger(log.New(&slogWriter{logger: logger}, "", 0))

	err := stdioSrv.Listen(ctx, stdin, stdout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// slogWriter forwards the stdio server's log.Logger output to slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w *slogWriter) Write(p []byte) (int, error) {
	w.logger.Error(strings.TrimRight(string(p), "\r\n"), "component", "stdio")
	return len(p), nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Google OAuth",
			register: func() error {
				if ctx.Authorizer() == nil {
					return nil
				}
				return google_tools.RegisterGoogleTools(mcpSrv, ctx)
			},
		},
		{
			name: "Platform Resources",
			register: func() error {
				return resources.RegisterPlatformResources(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}
