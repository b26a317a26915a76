// Package export writes payment schedules to CSV files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gocarina/gocsv"

	"paydates/internal/core"
)

// DefaultFilename is used when no output filename is given.
const DefaultFilename = "salary_dates.csv"

var ErrInvalidFilename = errors.New("invalid filename")

var filenamePattern = regexp.MustCompile(`^[-.\w]+$`)

// Header holds the column titles, matching the csv tags of Row.
var Header = []string{"month name", "salary payment date", "bonus payment date"}

// Row is one line of the output file.
type Row struct {
	MonthName  string `csv:"month name"`
	SalaryDate string `csv:"salary payment date"`
	BonusDate  string `csv:"bonus payment date"`
}

// ValidateFilename accepts names made only of letters, digits, '_', '.' and '-'.
// Path separators are rejected, so files are always written into the target directory.
func ValidateFilename(name string) error {
	if !filenamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}

// NormalizeFilename appends ".csv" unless the name already has that extension.
func NormalizeFilename(name string) string {
	if filepath.Ext(name) != ".csv" {
		return name + ".csv"
	}
	return name
}

// PrepareFilename validates name and returns its normalized form.
func PrepareFilename(name string) (string, error) {
	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	return NormalizeFilename(name), nil
}

// Rows converts records to output rows.
func Rows(records []core.PaymentRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			MonthName:  r.MonthName,
			SalaryDate: r.SalaryDate.String(),
			BonusDate:  r.BonusDate.String(),
		})
	}
	return rows
}

// Dates parses the row's payment dates.
func (r Row) Dates() (salary, bonus core.Date, err error) {
	if salary, err = core.ParseDate(r.SalaryDate); err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("salary date: %w", err)
	}
	if bonus, err = core.ParseDate(r.BonusDate); err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("bonus date: %w", err)
	}
	return salary, bonus, nil
}

// WriteFile writes the header and one row per record to path. The data goes
// to a temporary file in the same directory which is renamed over path only
// once fully written, so path either holds the complete file or is untouched.
func WriteFile(path string, records []core.PaymentRecord) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".paydates-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = gocsv.Marshal(Rows(records), tmp); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// ReadFile parses a file written by WriteFile.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []Row
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
