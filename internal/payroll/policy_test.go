package payroll

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydates/internal/core"
)

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name            string
		mutate          func(p *Policy)
		wantErr         bool
		wantUnsupported bool
		wantContains    []string
	}{
		{
			name:   "default policy is valid",
			mutate: func(p *Policy) {},
		},
		{
			name:   "bonus day 28 is supported",
			mutate: func(p *Policy) { p.BonusDay = 28 },
		},
		{
			name:            "bonus day 29 is unsupported",
			mutate:          func(p *Policy) { p.BonusDay = 29 },
			wantErr:         true,
			wantUnsupported: true,
			wantContains:    []string{"bonus day 29"},
		},
		{
			name:         "bonus day zero",
			mutate:       func(p *Policy) { p.BonusDay = 0 },
			wantErr:      true,
			wantContains: []string{"bonus day 0: must be at least 1"},
		},
		{
			name:         "salary fallback on saturday",
			mutate:       func(p *Policy) { p.SalaryFallbackWeekday = core.Saturday },
			wantErr:      true,
			wantContains: []string{"salary fallback weekday 6"},
		},
		{
			name:         "bonus fallback zero",
			mutate:       func(p *Policy) { p.BonusFallbackWeekday = 0 },
			wantErr:      true,
			wantContains: []string{"bonus fallback weekday 0"},
		},
		{
			name: "every problem is reported",
			mutate: func(p *Policy) {
				p.SalaryFallbackWeekday = 9
				p.BonusFallbackWeekday = 7
				p.MonthCount = 0
			},
			wantErr: true,
			wantContains: []string{
				"salary fallback weekday 9",
				"bonus fallback weekday 7",
				"month count 0",
			},
		},
		{
			name:         "month count above limit",
			mutate:       func(p *Policy) { p.MonthCount = MaxMonthCount + 1 },
			wantErr:      true,
			wantContains: []string{"month count 121"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)

			err := p.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPolicy)
			assert.Equal(t, tt.wantUnsupported, errors.Is(err, ErrUnsupportedBonusDay))
			for _, s := range tt.wantContains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestNewCalculator_RejectsUnsupportedBonusDay(t *testing.T) {
	p := DefaultPolicy()
	p.BonusDay = 31

	calc, err := NewCalculator(p)
	assert.Nil(t, calc)
	assert.ErrorIs(t, err, ErrUnsupportedBonusDay)
}

func TestSalaryRule(t *testing.T) {
	tests := []struct {
		name     string
		month    core.YearMonth
		fallback core.ISOWeekday
		want     string
	}{
		{"weekday month end is kept", core.NewYearMonth(2024, time.July), core.Friday, "31/07/2024"},
		{"saturday moves back one day", core.NewYearMonth(2024, time.August), core.Friday, "30/08/2024"},
		{"sunday moves back two days", core.NewYearMonth(2024, time.March), core.Friday, "29/03/2024"},
		{"saturday to wednesday", core.NewYearMonth(2024, time.August), core.Wednesday, "28/08/2024"},
		{"sunday to monday", core.NewYearMonth(2024, time.June), core.Monday, "24/06/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SalaryRule{Fallback: tt.fallback}.Apply(tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBonusRule(t *testing.T) {
	tests := []struct {
		name     string
		month    core.YearMonth
		day      int
		fallback core.ISOWeekday
		want     string
	}{
		{"weekday is kept", core.NewYearMonth(2024, time.July), 15, core.Wednesday, "15/07/2024"},
		{"saturday moves four days", core.NewYearMonth(2024, time.June), 15, core.Wednesday, "19/06/2024"},
		{"sunday moves three days", core.NewYearMonth(2024, time.September), 15, core.Wednesday, "18/09/2024"},
		{"saturday to friday", core.NewYearMonth(2024, time.June), 15, core.Friday, "21/06/2024"},
		{"other bonus day", core.NewYearMonth(2024, time.June), 1, core.Wednesday, "05/06/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BonusRule{Day: tt.day, Fallback: tt.fallback}.Apply(tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBonusRule_DayMissingFromMonth(t *testing.T) {
	_, err := BonusRule{Day: 30, Fallback: core.Wednesday}.Apply(core.NewYearMonth(2023, time.February))
	assert.ErrorIs(t, err, core.ErrDayOutOfRange)
}

func TestBonusRule_FallbackPastMonthEnd(t *testing.T) {
	rule := BonusRule{Day: 28, Fallback: core.Friday}

	// 28/09/2024 is a Saturday; the next Friday is 04/10/2024.
	_, err := rule.Apply(core.NewYearMonth(2024, time.September))
	assert.ErrorIs(t, err, ErrUnsupportedBonusDay)

	// 28/11/2024 is a Thursday and needs no shift.
	got, err := rule.Apply(core.NewYearMonth(2024, time.November))
	require.NoError(t, err)
	assert.Equal(t, "28/11/2024", got.String())
}

func TestCompute_RejectsBonusEscapingMonth(t *testing.T) {
	p := DefaultPolicy()
	p.BonusDay = 28
	p.BonusFallbackWeekday = core.Friday

	calc, err := NewCalculator(p)
	require.NoError(t, err)

	_, err = calc.Compute(core.NewDate(2024, time.September, 1))
	require.ErrorIs(t, err, ErrUnsupportedBonusDay)
	assert.Contains(t, err.Error(), "2024-09")
}
