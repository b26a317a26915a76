package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"paydates/internal/payroll"
	ports "paydates/internal/sheets"
)

var _ ports.ScheduleWriter = (*Store)(nil)

// Store keeps written schedules in memory. Used for local runs and tests.
type Store struct {
	mu    sync.Mutex
	items []payroll.Schedule
}

func New() *Store {
	return &Store{}
}

// WriteSchedule stores the schedule and returns a synthetic reference.
func (s *Store) WriteSchedule(_ context.Context, sched payroll.Schedule) (string, error) {
	if len(sched.Records) == 0 {
		return "", errors.New("schedule has no records")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, sched)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Schedules returns a copy of everything written so far.
func (s *Store) Schedules() []payroll.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]payroll.Schedule(nil), s.items...)
}

// Latest returns the last written schedule.
func (s *Store) Latest() (payroll.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return payroll.Schedule{}, false
	}
	return s.items[len(s.items)-1], true
}
