package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydates/internal/amqp"
	"paydates/internal/payroll"
	"paydates/internal/sheets/memory"
	"paydates/internal/storage"
)

type fakeRuns struct {
	runs map[int64]storage.Run
	err  error
}

func (f *fakeRuns) GetRun(_ context.Context, id int64) (storage.Run, error) {
	if f.err != nil {
		return storage.Run{}, f.err
	}
	run, ok := f.runs[id]
	if !ok {
		return storage.Run{}, storage.ErrRunNotFound
	}
	return run, nil
}

func (f *fakeRuns) LatestRun(ctx context.Context) (storage.Run, error) {
	var latest int64
	for id := range f.runs {
		if id > latest {
			latest = id
		}
	}
	return f.GetRun(ctx, latest)
}

type failingWriter struct{}

func (failingWriter) WriteSchedule(context.Context, payroll.Schedule) (string, error) {
	return "", errors.New("quota exceeded")
}

func testRun(t *testing.T, id int64, now time.Time) storage.Run {
	t.Helper()
	calc, err := payroll.NewCalculator(payroll.DefaultPolicy())
	require.NoError(t, err)
	s, err := calc.Schedule(now)
	require.NoError(t, err)
	return storage.Run{ID: id, OutputFile: "salary_dates.csv", Schedule: s}
}

func TestHandleScheduleGenerated_WritesToSheets(t *testing.T) {
	run := testRun(t, 3, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	store := memory.New()
	w := NewSyncWorker(&fakeRuns{runs: map[int64]storage.Run{3: run}}, store)

	msg := amqp.NewScheduleGeneratedMessage(3, "2024-06", 12, "salary_dates.csv")
	require.NoError(t, w.HandleScheduleGenerated(context.Background(), msg))

	written, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, run.Schedule.Records, written.Records)
}

func TestHandleScheduleGenerated_UnknownRunIsSkipped(t *testing.T) {
	store := memory.New()
	w := NewSyncWorker(&fakeRuns{runs: map[int64]storage.Run{}}, store)

	err := w.HandleScheduleGenerated(context.Background(), amqp.NewScheduleGeneratedMessage(99, "2024-06", 12, "x.csv"))
	require.NoError(t, err)
	assert.Empty(t, store.Schedules())
}

func TestHandleScheduleGenerated_Errors(t *testing.T) {
	msg := amqp.NewScheduleGeneratedMessage(1, "2024-06", 12, "x.csv")

	t.Run("storage error", func(t *testing.T) {
		w := NewSyncWorker(&fakeRuns{err: errors.New("database is locked")}, memory.New())
		err := w.HandleScheduleGenerated(context.Background(), msg)
		assert.ErrorContains(t, err, "get run from storage")
	})

	t.Run("sheets error", func(t *testing.T) {
		run := testRun(t, 1, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
		w := NewSyncWorker(&fakeRuns{runs: map[int64]storage.Run{1: run}}, failingWriter{})
		err := w.HandleScheduleGenerated(context.Background(), msg)
		assert.ErrorContains(t, err, "write schedule to sheets")
	})
}

func TestSyncLatest(t *testing.T) {
	t.Run("empty archive", func(t *testing.T) {
		store := memory.New()
		w := NewSyncWorker(&fakeRuns{runs: map[int64]storage.Run{}}, store)
		require.NoError(t, w.SyncLatest(context.Background()))
		assert.Empty(t, store.Schedules())
	})

	t.Run("writes newest run", func(t *testing.T) {
		store := memory.New()
		runs := map[int64]storage.Run{
			1: testRun(t, 1, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)),
			2: testRun(t, 2, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
		}
		w := NewSyncWorker(&fakeRuns{runs: runs}, store)
		require.NoError(t, w.SyncLatest(context.Background()))

		written, ok := store.Latest()
		require.True(t, ok)
		assert.Equal(t, "2024-06", written.StartMonth.String())
	})
}
