package sheets

import (
	"context"

	"paydates/internal/payroll"
)

// Ports for outbound adapters.
type (
	// ScheduleWriter publishes a schedule to a spreadsheet, replacing what was there.
	ScheduleWriter interface {
		// WriteSchedule returns a reference to the written range.
		WriteSchedule(ctx context.Context, s payroll.Schedule) (ref string, err error)
	}
)
