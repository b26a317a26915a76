package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"paydates/internal/amqp"
	"paydates/internal/cli"
	"paydates/internal/config"
	"paydates/internal/core"
	"paydates/internal/export"
	applog "paydates/internal/log"
	"paydates/internal/payroll"
	"paydates/internal/services"
	"paydates/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

// run executes the command and returns the process exit code. User messages go
// to stdout and stderr; logs go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, now func() time.Time) int {
	filename, err := cli.ParseArgs(args, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return cli.ExitOK
	case errors.Is(err, export.ErrInvalidFilename):
		fmt.Fprintln(stderr, cli.MsgInvalidFilename)
		return cli.ExitUsage
	case err != nil:
		fmt.Fprintln(stderr, err)
		return cli.ExitUsage
	}

	cfg := config.Load()
	logger := cli.SetupLogger(cfg, applog.ComponentCLI, stderr)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		return cli.ExitFailure
	}

	calc, err := payroll.NewCalculator(cfg.Policy())
	if err != nil {
		logger.Error("Invalid payment policy", applog.FieldError, err)
		return cli.ExitFailure
	}

	var archive services.Archive
	var publisher services.Publisher

	if cfg.SQLiteDBPath != "" {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Warn("Archive unavailable, continuing without it",
				applog.FieldError, err, applog.FieldDBPath, cfg.SQLiteDBPath)
		} else {
			defer repo.Close()
			archive = repo
		}
	}

	if cfg.AMQPURL != "" && archive != nil {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, schedule will not be announced", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	svc := services.NewScheduleService(calc, archive, publisher)
	generatedAt := now()
	result, err := svc.Generate(ctx, generatedAt, filename)
	if err != nil {
		logger.Error("Failed to generate payment dates",
			applog.NewFields().
				WithError(err).
				WithOperation(applog.OpGenerate).
				WithSchedule(core.DateOf(generatedAt).YearMonth().String(), cfg.MonthCount, filename).
				ToSlice()...)
		return cli.ExitFailure
	}

	logger.Debug("Payment dates generated",
		applog.FieldOutputFile, result.OutputPath,
		applog.FieldStartMonth, result.Schedule.StartMonth.String(),
		applog.FieldRunID, result.RunID)

	fmt.Fprintln(stdout, cli.MsgSaved)
	return cli.ExitOK
}
