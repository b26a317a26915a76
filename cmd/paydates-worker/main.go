package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"paydates/internal/amqp"
	"paydates/internal/backend"
	"paydates/internal/cli"
	applog "paydates/internal/log"
	"paydates/internal/payroll"
	"paydates/internal/services"
	"paydates/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentWorker, os.Stdout)
	logger.Info("Starting paydates-worker", applog.FieldOperation, applog.OpStartup)

	if cfg.SQLiteDBPath == "" {
		logger.Error("SQLITE_DB_PATH is required for the worker")
		os.Exit(cli.ExitFailure)
	}

	calc, err := payroll.NewCalculator(cfg.Policy())
	if err != nil {
		logger.Error("Invalid payment policy", applog.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	ctx := cli.GracefulShutdown(logger, 10*time.Second, nil)
	ctx = applog.NewContext(ctx, logger)

	// Google Sheets is optional; without it schedules are kept in memory only
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(cli.ExitFailure)
	}
	sheetsBackend, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize schedule backend", applog.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(cli.ExitFailure)
		}
		defer amqpClient.Close()
		publisher = amqpClient
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := services.NewScheduleService(calc, sqliteRepo, publisher)
	syncWorker := worker.NewSyncWorker(sqliteRepo, sheetsBackend.Writer)
	regenerator := worker.NewRegenerator(svc, cfg.RegenerateCron, cfg.WorkerOutputPath())

	// On startup, sync the latest schedule in case messages were missed
	if err := syncWorker.SyncLatest(ctx); err != nil {
		logger.Error("Failed startup sync check", applog.NewFields().
			WithError(err).
			WithOperation(applog.OpStartup).
			ToSlice()...)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return regenerator.Run(gctx)
	})

	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeScheduleGenerated(gctx, syncWorker.HandleScheduleGenerated)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(cli.ExitFailure)
	}

	logger.Info("paydates-worker stopped", applog.FieldOperation, applog.OpShutdown)
}
