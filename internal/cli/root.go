package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asad/storagegateway/internal/config"
	"github.com/asad/storagegateway/internal/core"
	"github.com/asad/storagegateway/internal/httpx"
	"github.com/asad/storagegateway/internal/logging"
	"github.com/asad/storagegateway/internal/metrics"
	"github.com/asad/storagegateway/internal/services/blob"
)

var (
	// Version is set at build time via ldflags.
	// Example: go build -ldflags "-X github.com/asad/storagegateway/internal/cli.Version=1.0.0"
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "storagegateway",
	Short: "Blob storage gateway authenticated by workload identity",
	Long: `storagegateway exposes a container in an Azure storage account over a
small JSON HTTP API. It authenticates with the ambient workload identity of
the pod it runs in, so no storage keys or connection strings are configured.`,
	SilenceUsage: true,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gateway server",
	Long: `Load configuration from the environment, connect to the storage account
and serve /, /health, /list, /upload and /metrics on the configured port.`,
	RunE: runStart,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "storagegateway version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute is the entry point for the CLI. It should be called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// storeFactory builds the Store for a validated config. Tests replace it.
var storeFactory = newStore

func newStore(cfg *config.Config) (blob.Store, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		return blob.NewFileStore(cfg.DataDir, cfg.AccountName, cfg.ContainerName)
	default:
		client, err := blob.NewAzureClient(cfg.EndpointURL())
		if err != nil {
			return nil, err
		}
		return blob.NewAzureStore(client, cfg.ContainerName), nil
	}
}

// bootstrap turns the environment into a ready handler. Nothing listens
// until it returns without error.
func bootstrap(cfg *config.Config, logger logging.Logger) (http.Handler, error) {
	logger.Info("initializing storage client",
		logging.String("backend", cfg.Backend),
		logging.String("storage_account", cfg.AccountName),
		logging.String("container", cfg.ContainerName),
		logging.String("endpoint", cfg.EndpointURL()),
	)

	store, err := storeFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	metrics.Register()

	reg := core.NewRegistry(
		blob.NewBlobService(store, cfg.AccountName, cfg.ContainerName, logger),
	)
	return httpx.NewRouter(reg, logger), nil
}

// runStart initializes and starts the HTTP server.
func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting storagegateway",
		logging.String("version", Version),
		logging.Int("port", cfg.Port),
		logging.String("log_level", cfg.LogLevel),
	)

	handler, err := bootstrap(cfg, logger)
	if err != nil {
		logger.Error("startup failed", logging.ErrorField(err))
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("shutting down", logging.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
