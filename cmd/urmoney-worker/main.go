package main

import (
	"context"
	"errors"
	"os"

	"urmoney/internal/amqp"
	"urmoney/internal/backend"
	"urmoney/internal/cli"
	"urmoney/internal/log"
	"urmoney/internal/storage"
	"urmoney/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting urmoney-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker", log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	// The worker only records events, so it never seeds.
	opts := backendCfg.Storage
	opts.SeedDefaults = false
	store, err := storage.Open(ctx, opts)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "driver", opts.Driver)
		os.Exit(1)
	}
	defer store.Close()

	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	journal, err := factory.CreateJournal(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize journal", log.FieldError, err, "journal", backendCfg.Journal)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	w := worker.NewEventWorker(store, journal)

	logger.Info("Worker started, consuming ledger events",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"journal", backendCfg.Journal)

	if err := client.ConsumeLedgerEvents(ctx, w.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
