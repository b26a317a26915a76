package services

import (
	"context"
	"fmt"
	"time"

	"paydates/internal/amqp"
	"paydates/internal/export"
	applog "paydates/internal/log"
	"paydates/internal/payroll"
)

// Archive stores generated schedules.
type Archive interface {
	SaveSchedule(ctx context.Context, s payroll.Schedule, outputFile string) (int64, error)
}

// Publisher announces archived schedules.
type Publisher interface {
	PublishScheduleGenerated(ctx context.Context, msg *amqp.ScheduleGeneratedMessage) error
}

// Result describes one Generate call.
type Result struct {
	Schedule   payroll.Schedule
	OutputPath string
	// RunID is zero when the schedule was not archived.
	RunID     int64
	Published bool
}

// ScheduleService orchestrates schedule generation across the CSV file, SQLite and AMQP
type ScheduleService struct {
	calc      *payroll.Calculator
	archive   Archive
	publisher Publisher
	writeFile func(path string, s payroll.Schedule) error
}

// NewScheduleService creates the service. archive and publisher may be nil.
func NewScheduleService(calc *payroll.Calculator, archive Archive, publisher Publisher) *ScheduleService {
	return &ScheduleService{
		calc:      calc,
		archive:   archive,
		publisher: publisher,
		writeFile: func(path string, s payroll.Schedule) error {
			return export.WriteFile(path, s.Records)
		},
	}
}

// Generate computes the schedule for the months starting at now, writes it to
// outputPath and then archives and announces it when configured. Only a failed
// computation or file write is returned as an error.
func (s *ScheduleService) Generate(ctx context.Context, now time.Time, outputPath string) (Result, error) {
	schedule, err := s.calc.Schedule(now)
	if err != nil {
		return Result{}, fmt.Errorf("compute schedule: %w", err)
	}

	if err := s.writeFile(outputPath, schedule); err != nil {
		return Result{}, fmt.Errorf("write schedule: %w", err)
	}

	result := Result{Schedule: schedule, OutputPath: outputPath}
	logger := applog.FromContext(ctx)
	logger.InfoContext(ctx, "Schedule written", applog.NewFields().
		WithOperation(applog.OpWrite).
		WithSchedule(schedule.StartMonth.String(), len(schedule.Records), outputPath).
		ToSlice()...)

	if s.archive == nil {
		return result, nil
	}

	runID, err := s.archive.SaveSchedule(ctx, schedule, outputPath)
	if err != nil {
		logger.WarnContext(ctx, "Failed to archive schedule", applog.NewFields().
			WithError(err).
			WithOperation(applog.OpArchive).
			WithSchedule(schedule.StartMonth.String(), len(schedule.Records), outputPath).
			ToSlice()...)
		// The file is written, archive is best effort
		return result, nil
	}
	result.RunID = runID

	if s.publisher == nil {
		return result, nil
	}

	msg := amqp.NewScheduleGeneratedMessage(runID, schedule.StartMonth.String(), len(schedule.Records), outputPath)
	if err := s.publisher.PublishScheduleGenerated(ctx, msg); err != nil {
		logger.WarnContext(ctx, "Failed to publish schedule generated message", applog.NewFields().
			WithError(err).
			WithOperation(applog.OpPublish).
			WithRun(runID).
			ToSlice()...)
		return result, nil
	}
	result.Published = true

	return result, nil
}
