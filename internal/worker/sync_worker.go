package worker

import (
	"context"
	"errors"
	"fmt"

	"paydates/internal/amqp"
	applog "paydates/internal/log"
	"paydates/internal/sheets"
	"paydates/internal/storage"
)

// RunStore reads archived schedule runs.
type RunStore interface {
	GetRun(ctx context.Context, id int64) (storage.Run, error)
	LatestRun(ctx context.Context) (storage.Run, error)
}

// SyncWorker handles synchronization of archived schedules to Google Sheets
type SyncWorker struct {
	runs   RunStore
	sheets sheets.ScheduleWriter
}

func NewSyncWorker(runs RunStore, sheets sheets.ScheduleWriter) *SyncWorker {
	return &SyncWorker{
		runs:   runs,
		sheets: sheets,
	}
}

// HandleScheduleGenerated processes a single schedule generated message from AMQP.
// Messages for unknown runs are acknowledged and skipped; write failures are
// returned so the message is requeued.
func (w *SyncWorker) HandleScheduleGenerated(ctx context.Context, msg *amqp.ScheduleGeneratedMessage) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker).
		With(applog.FieldMessageID, msg.ID, applog.FieldRunID, msg.RunID)
	ctx = applog.NewContext(ctx, logger)

	logger.InfoContext(ctx, "Processing schedule message",
		applog.FieldOperation, applog.OpSync,
		applog.FieldStartMonth, msg.StartMonth)

	run, err := w.runs.GetRun(ctx, msg.RunID)
	if errors.Is(err, storage.ErrRunNotFound) {
		logger.WarnContext(ctx, "Schedule run not found, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get run from storage: %w", err)
	}

	return w.syncRun(ctx, run)
}

// SyncLatest writes the most recent archived run. The worker calls it at startup
// to recover from messages missed while it was down.
func (w *SyncWorker) SyncLatest(ctx context.Context) error {
	run, err := w.runs.LatestRun(ctx)
	if errors.Is(err, storage.ErrRunNotFound) {
		applog.FromContext(ctx).InfoContext(ctx, "No archived schedules found on startup")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get latest run: %w", err)
	}
	return w.syncRun(ctx, run)
}

func (w *SyncWorker) syncRun(ctx context.Context, run storage.Run) error {
	logger := applog.FromContext(ctx)

	ref, err := w.sheets.WriteSchedule(ctx, run.Schedule)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to write schedule to sheets",
			applog.FieldRunID, run.ID,
			applog.FieldError, err)
		return fmt.Errorf("write schedule to sheets: %w", err)
	}

	logger.InfoContext(ctx, "Schedule synced to sheets",
		applog.FieldRunID, run.ID,
		applog.FieldSheetsRef, ref,
		applog.FieldStartMonth, run.Schedule.StartMonth.String())
	return nil
}
