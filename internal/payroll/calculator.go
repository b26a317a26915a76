package payroll

import (
	"fmt"
	"time"

	"paydates/internal/core"
)

// Schedule is one generated run of payment dates.
type Schedule struct {
	Policy      Policy
	StartMonth  core.YearMonth
	GeneratedAt time.Time
	Records     []core.PaymentRecord
}

// Calculator computes payment records under a validated Policy.
type Calculator struct {
	policy Policy
	salary DateRule
	bonus  DateRule
}

// NewCalculator validates the policy and builds the salary and bonus rules from it.
func NewCalculator(policy Policy) (*Calculator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{
		policy: policy,
		salary: SalaryRule{Fallback: policy.SalaryFallbackWeekday},
		bonus:  BonusRule{Day: policy.BonusDay, Fallback: policy.BonusFallbackWeekday},
	}, nil
}

// Policy returns the policy the calculator was built with.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Compute returns one record per month for MonthCount consecutive months,
// starting with the month containing start. Only start's year and month matter.
func (c *Calculator) Compute(start core.Date) ([]core.PaymentRecord, error) {
	first := start.YearMonth().FirstDay()
	records := make([]core.PaymentRecord, 0, c.policy.MonthCount)

	for i := 0; i < c.policy.MonthCount; i++ {
		month := first.AddMonths(i).YearMonth()

		salary, err := c.salary.Apply(month)
		if err != nil {
			return nil, fmt.Errorf("salary date for %s: %w", month, err)
		}
		bonus, err := c.bonus.Apply(month)
		if err != nil {
			return nil, fmt.Errorf("bonus date for %s: %w", month, err)
		}

		records = append(records, core.PaymentRecord{
			Month:      month,
			MonthName:  month.Name(),
			SalaryDate: salary,
			BonusDate:  bonus,
		})
	}

	return records, nil
}

// Schedule computes the records starting at the month of now.
func (c *Calculator) Schedule(now time.Time) (Schedule, error) {
	start := core.DateOf(now)
	records, err := c.Compute(start)
	if err != nil {
		return Schedule{}, err
	}
	return Schedule{
		Policy:      c.policy,
		StartMonth:  start.YearMonth(),
		GeneratedAt: now,
		Records:     records,
	}, nil
}
