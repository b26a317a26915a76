// Package payroll computes salary and bonus payment dates.
package payroll

import (
	"errors"
	"fmt"
	"strings"

	"paydates/internal/core"
)

const (
	DefaultSalaryFallbackWeekday = core.Friday
	DefaultBonusDay              = 15
	DefaultBonusFallbackWeekday  = core.Wednesday
	DefaultMonthCount            = 12

	// MaxBonusDay is the last bonus day that exists in every month.
	MaxBonusDay   = 28
	MaxMonthCount = 120
)

var (
	ErrInvalidPolicy = errors.New("invalid payment policy")

	// ErrUnsupportedBonusDay is returned for bonus days past the 28th, which
	// do not exist in every month, and for weekend bonus days whose fallback
	// lands in the next month.
	ErrUnsupportedBonusDay = errors.New("unsupported bonus day")
)

// Policy holds the payment rules.
type Policy struct {
	// SalaryFallbackWeekday is the weekday salaries move back to when the
	// month ends on a weekend.
	SalaryFallbackWeekday core.ISOWeekday
	// BonusDay is the day of the month bonuses are paid on.
	BonusDay int
	// BonusFallbackWeekday is the weekday after the bonus day that bonuses move
	// forward to when the bonus day is on a weekend.
	BonusFallbackWeekday core.ISOWeekday
	// MonthCount is the number of months in a schedule.
	MonthCount int
}

// DefaultPolicy pays salaries on the last working day (falling back to
// Friday) and bonuses on the 15th (falling back to the next Wednesday), for
// twelve months.
func DefaultPolicy() Policy {
	return Policy{
		SalaryFallbackWeekday: DefaultSalaryFallbackWeekday,
		BonusDay:              DefaultBonusDay,
		BonusFallbackWeekday:  DefaultBonusFallbackWeekday,
		MonthCount:            DefaultMonthCount,
	}
}

// Validate reports every problem with the policy in a single error.
func (p Policy) Validate() error {
	var problems []string
	unsupported := false

	if !p.SalaryFallbackWeekday.Valid() {
		problems = append(problems, fmt.Sprintf("salary fallback weekday %d: must be between 1 (Monday) and 5 (Friday)", p.SalaryFallbackWeekday))
	}
	if !p.BonusFallbackWeekday.Valid() {
		problems = append(problems, fmt.Sprintf("bonus fallback weekday %d: must be between 1 (Monday) and 5 (Friday)", p.BonusFallbackWeekday))
	}
	switch {
	case p.BonusDay < 1:
		problems = append(problems, fmt.Sprintf("bonus day %d: must be at least 1", p.BonusDay))
	case p.BonusDay > MaxBonusDay:
		unsupported = true
		problems = append(problems, fmt.Sprintf("bonus day %d: days after the %dth are not supported", p.BonusDay, MaxBonusDay))
	}
	if p.MonthCount < 1 || p.MonthCount > MaxMonthCount {
		problems = append(problems, fmt.Sprintf("month count %d: must be between 1 and %d", p.MonthCount, MaxMonthCount))
	}

	if len(problems) == 0 {
		return nil
	}
	err := fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(problems, "; "))
	if unsupported {
		err = errors.Join(err, ErrUnsupportedBonusDay)
	}
	return err
}
