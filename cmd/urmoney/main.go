package main

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"urmoney/internal/backend"
	"urmoney/internal/cli"
	apphttp "urmoney/internal/http"
	"urmoney/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(res.Ledger, apphttp.Options{
		Addr:               cfg.Addr(),
		StaticDir:          cfg.StaticDir,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		Logger:             logger,
	})

	logger.Info("Starting urmoney server",
		"port", cfg.Port,
		"driver", cfg.DBDriver,
		"amqp_enabled", res.Publisher != nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, log.FieldOperation, log.OpShutdown)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
