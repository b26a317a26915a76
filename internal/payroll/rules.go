package payroll

import (
	"fmt"

	"paydates/internal/core"
)

// DateRule is the strategy interface for picking a payment date inside a month.
type DateRule interface {
	// Apply returns the payment date for the given month.
	Apply(month core.YearMonth) (core.Date, error)
}

// SalaryRule pays on the last day of the month. A month ending on a weekend
// pays on the Fallback weekday before it.
type SalaryRule struct {
	Fallback core.ISOWeekday
}

// Apply subtracts (weekday - Fallback) days from a weekend month end: with a
// Friday fallback that is one day for Saturday and two for Sunday.
func (r SalaryRule) Apply(month core.YearMonth) (core.Date, error) {
	day := month.LastDay()
	if !day.IsWeekend() {
		return day, nil
	}
	return day.AddDays(-int(day.Weekday() - r.Fallback)), nil
}

// BonusRule pays on Day of the month. A bonus day on a weekend pays on the
// first Fallback weekday after it.
type BonusRule struct {
	Day      int
	Fallback core.ISOWeekday
}

// Apply adds (7 - weekday) + Fallback days to a weekend bonus day: with a
// Wednesday fallback that is four days for Saturday and three for Sunday.
// A shift past the end of the month returns ErrUnsupportedBonusDay.
func (r BonusRule) Apply(month core.YearMonth) (core.Date, error) {
	day, err := month.Day(r.Day)
	if err != nil {
		return core.Date{}, fmt.Errorf("bonus day: %w", err)
	}
	if !day.IsWeekend() {
		return day, nil
	}
	paid := day.AddDays(int(core.Sunday-day.Weekday()) + int(r.Fallback))
	if !month.Contains(paid) {
		return core.Date{}, fmt.Errorf("%w: bonus day %d falls on a weekend and moving it to %s leaves %s",
			ErrUnsupportedBonusDay, r.Day, paid, month)
	}
	return paid, nil
}
