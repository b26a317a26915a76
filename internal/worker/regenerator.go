package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	applog "paydates/internal/log"
	"paydates/internal/services"
)

const jobTimeout = time.Minute

// Generator produces a schedule file.
type Generator interface {
	Generate(ctx context.Context, now time.Time, outputPath string) (services.Result, error)
}

// Regenerator rewrites the rolling schedule file on a cron schedule.
type Regenerator struct {
	cronEngine *cron.Cron
	spec       string
	generator  Generator
	outputPath string
	now        func() time.Time
}

// NewRegenerator creates a regenerator for a standard 5-field cron spec.
func NewRegenerator(generator Generator, spec, outputPath string) *Regenerator {
	return &Regenerator{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		spec:       spec,
		generator:  generator,
		outputPath: outputPath,
		now:        time.Now,
	}
}

// Run schedules the job and blocks until ctx is done, then waits for a
// running job to finish.
func (r *Regenerator) Run(ctx context.Context) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentScheduler).
		With(applog.FieldCronSpec, r.spec)
	ctx = applog.NewContext(ctx, logger)

	_, err := r.cronEngine.AddFunc(r.spec, func() {
		if err := r.RunOnce(ctx); err != nil {
			logger.ErrorContext(ctx, "Scheduled regeneration failed", applog.FieldError, err)
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", r.spec, err)
	}

	r.cronEngine.Start()
	logger.InfoContext(ctx, "Regeneration scheduler started", applog.FieldOutputFile, r.outputPath)

	<-ctx.Done()

	stopped := r.cronEngine.Stop()
	<-stopped.Done()
	logger.InfoContext(ctx, "Regeneration scheduler stopped")
	return nil
}

// RunOnce regenerates the file immediately.
func (r *Regenerator) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	result, err := r.generator.Generate(ctx, r.now(), r.outputPath)
	if err != nil {
		return fmt.Errorf("regenerate %s: %w", r.outputPath, err)
	}

	applog.FromContext(ctx).InfoContext(ctx, "Schedule regenerated", applog.NewFields().
		WithOperation(applog.OpGenerate).
		WithSchedule(result.Schedule.StartMonth.String(), len(result.Schedule.Records), result.OutputPath).
		WithRun(result.RunID).
		ToSlice()...)
	return nil
}
