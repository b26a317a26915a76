package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydates/internal/core"
)

func newDefaultCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultPolicy())
	require.NoError(t, err)
	return calc
}

func formatRecords(records []core.PaymentRecord) [][3]string {
	out := make([][3]string, 0, len(records))
	for _, r := range records {
		out = append(out, [3]string{r.MonthName, r.SalaryDate.String(), r.BonusDate.String()})
	}
	return out
}

func TestCompute_FullYear2024(t *testing.T) {
	calc := newDefaultCalculator(t)

	records, err := calc.Compute(core.NewDate(2024, time.January, 1))
	require.NoError(t, err)

	want := [][3]string{
		{"January", "31/01/2024", "15/01/2024"},
		{"February", "29/02/2024", "15/02/2024"},
		{"March", "29/03/2024", "15/03/2024"},
		{"April", "30/04/2024", "15/04/2024"},
		{"May", "31/05/2024", "15/05/2024"},
		{"June", "28/06/2024", "19/06/2024"},
		{"July", "31/07/2024", "15/07/2024"},
		{"August", "30/08/2024", "15/08/2024"},
		{"September", "30/09/2024", "18/09/2024"},
		{"October", "31/10/2024", "15/10/2024"},
		{"November", "29/11/2024", "15/11/2024"},
		{"December", "31/12/2024", "18/12/2024"},
	}
	assert.Equal(t, want, formatRecords(records))
}

func TestCompute_KnownMonths(t *testing.T) {
	tests := []struct {
		name       string
		start      core.Date
		wantSalary string
		wantBonus  string
	}{
		{
			name:       "april 2023 ends on sunday, 15th is saturday",
			start:      core.NewDate(2023, time.April, 1),
			wantSalary: "28/04/2023",
			wantBonus:  "19/04/2023",
		},
		{
			name:       "june 2024 ends on sunday, 15th is saturday",
			start:      core.NewDate(2024, time.June, 1),
			wantSalary: "28/06/2024",
			wantBonus:  "19/06/2024",
		},
		{
			name:       "september 2023 ends on saturday",
			start:      core.NewDate(2023, time.September, 1),
			wantSalary: "29/09/2023",
			wantBonus:  "15/09/2023",
		},
		{
			name:       "mid-month start uses the whole month",
			start:      core.NewDate(2023, time.April, 23),
			wantSalary: "28/04/2023",
			wantBonus:  "19/04/2023",
		},
	}

	calc := newDefaultCalculator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := calc.Compute(tt.start)
			require.NoError(t, err)
			require.NotEmpty(t, records)
			assert.Equal(t, tt.wantSalary, records[0].SalaryDate.String())
			assert.Equal(t, tt.wantBonus, records[0].BonusDate.String())
		})
	}
}

func TestCompute_StartOnMonthEndDoesNotSkipMonths(t *testing.T) {
	calc := newDefaultCalculator(t)

	records, err := calc.Compute(core.NewDate(2023, time.January, 31))
	require.NoError(t, err)
	require.Len(t, records, 12)

	assert.Equal(t, "January", records[0].MonthName)
	assert.Equal(t, "February", records[1].MonthName)
	assert.Equal(t, "28/02/2023", records[1].SalaryDate.String())
	assert.Equal(t, "March", records[2].MonthName)
}

func TestCompute_Invariants(t *testing.T) {
	calc := newDefaultCalculator(t)

	for year := 2000; year <= 2040; year++ {
		for m := time.January; m <= time.December; m++ {
			start := core.NewDate(year, m, 1)
			records, err := calc.Compute(start)
			require.NoError(t, err)
			require.Len(t, records, DefaultMonthCount)

			for i, r := range records {
				if i > 0 {
					require.True(t, records[i-1].Month.Before(r.Month), "months not increasing at %s", r.Month)
					require.Equal(t, records[i-1].Month.AddMonths(1), r.Month)
				}
				require.Equal(t, r.Month.Name(), r.MonthName)

				require.True(t, r.Month.Contains(r.SalaryDate), "salary %s outside %s", r.SalaryDate, r.Month)
				require.False(t, r.SalaryDate.IsWeekend(), "salary %s on weekend", r.SalaryDate)
				require.GreaterOrEqual(t, r.SalaryDate.Day(), r.Month.DaysIn()-2)

				require.True(t, r.Month.Contains(r.BonusDate), "bonus %s outside %s", r.BonusDate, r.Month)
				require.False(t, r.BonusDate.IsWeekend(), "bonus %s on weekend", r.BonusDate)
				require.GreaterOrEqual(t, r.BonusDate.Day(), DefaultBonusDay)
				require.LessOrEqual(t, r.BonusDate.Day(), DefaultBonusDay+9)
			}
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	calc := newDefaultCalculator(t)
	start := core.NewDate(2025, time.March, 1)

	first, err := calc.Compute(start)
	require.NoError(t, err)
	second, err := calc.Compute(start)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_AlternatePolicy(t *testing.T) {
	calc, err := NewCalculator(Policy{
		SalaryFallbackWeekday: core.Wednesday,
		BonusDay:              15,
		BonusFallbackWeekday:  core.Monday,
		MonthCount:            3,
	})
	require.NoError(t, err)

	records, err := calc.Compute(core.NewDate(2024, time.June, 1))
	require.NoError(t, err)

	want := [][3]string{
		{"June", "26/06/2024", "17/06/2024"},
		{"July", "31/07/2024", "15/07/2024"},
		{"August", "28/08/2024", "15/08/2024"},
	}
	assert.Equal(t, want, formatRecords(records))
}

func TestCompute_MonthCount(t *testing.T) {
	policy := DefaultPolicy()
	policy.MonthCount = 30
	calc, err := NewCalculator(policy)
	require.NoError(t, err)

	records, err := calc.Compute(core.NewDate(2024, time.November, 1))
	require.NoError(t, err)
	require.Len(t, records, 30)
	assert.Equal(t, "2027-04", records[29].Month.String())
}

func TestSchedule(t *testing.T) {
	calc := newDefaultCalculator(t)
	now := time.Date(2023, time.April, 23, 17, 30, 0, 0, time.UTC)

	schedule, err := calc.Schedule(now)
	require.NoError(t, err)

	assert.Equal(t, "2023-04", schedule.StartMonth.String())
	assert.Equal(t, now, schedule.GeneratedAt)
	assert.Equal(t, DefaultPolicy(), schedule.Policy)
	assert.Len(t, schedule.Records, 12)
	assert.Equal(t, "March", schedule.Records[11].MonthName)
}
