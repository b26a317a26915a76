package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydates/internal/services"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []time.Time
	paths []string
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, now time.Time, outputPath string) (services.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, now)
	g.paths = append(g.paths, outputPath)
	return services.Result{OutputPath: outputPath}, g.err
}

func (g *fakeGenerator) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func TestRegenerator_RunOnce(t *testing.T) {
	gen := &fakeGenerator{}
	r := NewRegenerator(gen, "0 6 1 * *", "salary_dates.csv")
	fixed := time.Date(2024, time.July, 1, 6, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	require.NoError(t, r.RunOnce(context.Background()))
	require.Equal(t, 1, gen.count())
	assert.Equal(t, fixed, gen.calls[0])
	assert.Equal(t, "salary_dates.csv", gen.paths[0])
}

func TestRegenerator_RunOnceError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("permission denied")}
	r := NewRegenerator(gen, "0 6 1 * *", "salary_dates.csv")

	err := r.RunOnce(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestRegenerator_InvalidSpec(t *testing.T) {
	r := NewRegenerator(&fakeGenerator{}, "not a cron spec", "salary_dates.csv")

	err := r.Run(context.Background())
	assert.Error(t, err)
}

func TestRegenerator_RunsOnScheduleUntilCancelled(t *testing.T) {
	gen := &fakeGenerator{}
	r := NewRegenerator(gen, "@every 1s", "salary_dates.csv")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Eventually(t, func() bool { return gen.count() > 0 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
