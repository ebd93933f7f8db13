package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rvc-service/cmd/rvc/cmd/cli"
	"rvc-service/internal/app"
)

var (
	port            string
	shutdownTimeout time.Duration
)

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second,
		"how long in-flight requests get to finish on shutdown")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the voice cloning HTTP service",
	Long: `Start the voice cloning HTTP service.

- Scans the weights directory and registers every model found
- Detects ffmpeg, the GPU and the speech synthesizer to pick real or mock mode
- Follows the weights directory for models added or removed out of band`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cli.Load()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		if port != "" {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := app.InitializeApp(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		defer cleanup()

		logger.Info("voice service ready",
			zap.String("mode", string(application.Capabilities.Mode())),
			zap.String("device", application.Capabilities.Device),
			zap.Int("models", application.Registry.Len()),
		)

		if cfg.Storage.WatchWeights {
			go func() {
				if err := application.Registry.Watch(ctx); err != nil {
					logger.Warn("weights watcher stopped", zap.Error(err))
				}
			}()
		}

		errCh, err := application.Server.Start()
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return application.Server.Shutdown(shutdownCtx)
	},
}
