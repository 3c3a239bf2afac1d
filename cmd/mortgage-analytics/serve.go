package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/mortgage-analytics/internal/cache"
	"github.com/iwvelando/mortgage-analytics/internal/config"
	"github.com/iwvelando/mortgage-analytics/internal/server"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "main.serve"

			serverConf, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return a.fail(op, "failed to load server configuration", err)
			}
			if cmd.Flags().Changed("address") {
				serverConf.Address = address
			}

			logger := a.logger
			// The server config's logging section, when present, replaces the
			// analytics config's.
			if serverConf.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(serverConf.Logging, a.logLevel)
				if err != nil {
					return a.fail(op, "failed to initialize server logger", err)
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			store := serverConf.NewCache()
			if closer, ok := store.(io.Closer); ok {
				defer func() {
					_ = closer.Close()
				}()
			}
			if rc, ok := store.(*cache.Redis); ok {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				if err := rc.Ping(pingCtx); err != nil {
					logger.Warn("surface cache unreachable; requests will compute surfaces directly",
						zap.String("op", op),
						zap.String("redisAddress", serverConf.Cache.RedisAddress),
						zap.Error(err),
					)
				}
				cancel()
			}

			handler := server.NewHandler(logger, a.conf.Engine(logger), store, serverConf.BodySizeBytes(), version)
			httpServer := &http.Server{
				Addr:         serverConf.Address,
				Handler:      handler,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("serving analytics API",
					zap.String("op", op),
					zap.String("address", serverConf.Address),
					zap.Int64("maxBodySize", serverConf.BodySizeBytes()),
					zap.Duration("cacheTTL", serverConf.CacheTTL()),
				)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-serverErr:
				return a.fail(op, "server failed", err)
			case <-quit:
				logger.Info("shutting down server", zap.String("op", op))
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				return a.fail(op, "error during server shutdown", err)
			}
			logger.Info("server exited", zap.String("op", op))
			return nil
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}
