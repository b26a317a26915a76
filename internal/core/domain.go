package core

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the DD/MM/YYYY layout used for payment dates.
const DateLayout = "02/01/2006"

// ISO weekday numbering, Monday = 1 ... Sunday = 7.
const (
	Monday    ISOWeekday = 1
	Tuesday   ISOWeekday = 2
	Wednesday ISOWeekday = 3
	Thursday  ISOWeekday = 4
	Friday    ISOWeekday = 5
	Saturday  ISOWeekday = 6
	Sunday    ISOWeekday = 7
)

type (
	ISOWeekday int

	// Date is an immutable calendar day. Every transformation returns a new value.
	Date struct {
		t time.Time
	}

	// YearMonth identifies a calendar month.
	YearMonth struct {
		year  int
		month time.Month
	}

	// PaymentRecord holds both payment dates of one month. The bonus date pays
	// out the previous month's bonus.
	PaymentRecord struct {
		Month      YearMonth
		MonthName  string
		SalaryDate Date
		BonusDate  Date
	}
)

var (
	ErrDayOutOfRange = errors.New("day out of range for month")
	ErrInvalidDate   = errors.New("invalid date")
)

// NewDate creates a Date. Out-of-range values normalize the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's own location for the day boundary.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a DD/MM/YYYY string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) Time() time.Time { return d.t }
func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) String() string { return d.t.Format(DateLayout) }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) YearMonth() YearMonth { return NewYearMonth(d.Year(), d.Month()) }

// Weekday returns the ISO weekday of d.
func (d Date) Weekday() ISOWeekday {
	wd := d.t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return ISOWeekday(wd)
}

// IsWeekend reports whether d is a Saturday or a Sunday.
func (d Date) IsWeekend() bool {
	return d.Weekday() >= Saturday
}

// AddMonths moves d by n calendar months. When the day does not exist in the
// target month the result is clamped to that month's last day, so Jan 31 + 1
// gives Feb 28 (or 29) rather than overflowing into March.
func (d Date) AddMonths(n int) Date {
	target := d.YearMonth().AddMonths(n)
	day := d.Day()
	if last := target.DaysIn(); day > last {
		day = last
	}
	return NewDate(target.year, target.month, day)
}

// NewYearMonth creates a YearMonth, normalizing months outside 1..12.
func NewYearMonth(year int, month time.Month) YearMonth {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{year: t.Year(), month: t.Month()}
}

func (ym YearMonth) Year() int { return ym.year }
func (ym YearMonth) Month() time.Month { return ym.month }

// Name returns the English full month name.
func (ym YearMonth) Name() string { return ym.month.String() }

func (ym YearMonth) AddMonths(n int) YearMonth {
	return NewYearMonth(ym.year, ym.month+time.Month(n))
}

func (ym YearMonth) Before(o YearMonth) bool {
	if ym.year != o.year {
		return ym.year < o.year
	}
	return ym.month < o.month
}

// DaysIn returns the number of days in the month.
func (ym YearMonth) DaysIn() int {
	return time.Date(ym.year, ym.month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (ym YearMonth) FirstDay() Date { return NewDate(ym.year, ym.month, 1) }
func (ym YearMonth) LastDay() Date { return NewDate(ym.year, ym.month, ym.DaysIn()) }

// Day returns the given day of the month. Days that do not exist in the month
// are an error, never a date in a neighbouring month.
func (ym YearMonth) Day(day int) (Date, error) {
	if day < 1 || day > ym.DaysIn() {
		return Date{}, fmt.Errorf("%w: day %d in %s", ErrDayOutOfRange, day, ym)
	}
	return NewDate(ym.year, ym.month, day), nil
}

// Contains reports whether d falls in the month.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year() == ym.year && d.Month() == ym.month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.year, ym.month)
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("parse year-month %q: %w", s, err)
	}
	return NewYearMonth(t.Year(), t.Month()), nil
}

// Valid reports whether w is a working weekday (Monday to Friday).
func (w ISOWeekday) Valid() bool {
	return w >= Monday && w <= Friday
}

func (w ISOWeekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("ISOWeekday(%d)", int(w))
	}
	return time.Weekday(int(w) % 7).String()
}
