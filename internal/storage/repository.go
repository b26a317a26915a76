package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"paydates/internal/core"
	applog "paydates/internal/log"
	"paydates/internal/payroll"

	_ "modernc.org/sqlite"
)

const isoDate = "2006-01-02"

var ErrRunNotFound = errors.New("schedule run not found")

// Run is an archived schedule together with the file it was written to.
type Run struct {
	ID         int64
	OutputFile string
	Schedule   payroll.Schedule
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSchedule archives the schedule and its records in one transaction and
// returns the new run ID.
func (r *SQLiteRepository) SaveSchedule(ctx context.Context, s payroll.Schedule, outputFile string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO schedule_runs (
			start_month, output_file, salary_fallback_weekday, bonus_day,
			bonus_fallback_weekday, month_count, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.StartMonth.String(),
		outputFile,
		int(s.Policy.SalaryFallbackWeekday),
		s.Policy.BonusDay,
		int(s.Policy.BonusFallbackWeekday),
		s.Policy.MonthCount,
		s.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert schedule run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO payment_dates (run_id, position, month, month_name, salary_date, bonus_date)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare payment date insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range s.Records {
		if _, err := stmt.ExecContext(ctx,
			runID,
			i,
			rec.Month.String(),
			rec.MonthName,
			rec.SalaryDate.Time().Format(isoDate),
			rec.BonusDate.Time().Format(isoDate),
		); err != nil {
			return 0, fmt.Errorf("insert payment date %s: %w", rec.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).InfoContext(ctx, "Schedule archived to SQLite",
		applog.NewFields().
			WithRun(runID).
			WithSchedule(s.StartMonth.String(), len(s.Records), outputFile).
			ToSlice()...)

	return runID, nil
}

// GetRun loads an archived run. Returns ErrRunNotFound for unknown IDs.
func (r *SQLiteRepository) GetRun(ctx context.Context, id int64) (Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_month, output_file, salary_fallback_weekday, bonus_day,
			bonus_fallback_weekday, month_count, generated_at
		FROM schedule_runs WHERE id = ?`, id)
	return r.loadRun(ctx, row)
}

// LatestRun loads the most recently archived run.
func (r *SQLiteRepository) LatestRun(ctx context.Context) (Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_month, output_file, salary_fallback_weekday, bonus_day,
			bonus_fallback_weekday, month_count, generated_at
		FROM schedule_runs ORDER BY id DESC LIMIT 1`)
	return r.loadRun(ctx, row)
}

func (r *SQLiteRepository) loadRun(ctx context.Context, row *sql.Row) (Run, error) {
	var (
		run                     Run
		startMonth, generatedAt string
		salaryFallback          int
		bonusFallback           int
	)
	err := row.Scan(
		&run.ID,
		&startMonth,
		&run.OutputFile,
		&salaryFallback,
		&run.Schedule.Policy.BonusDay,
		&bonusFallback,
		&run.Schedule.Policy.MonthCount,
		&generatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan schedule run: %w", err)
	}

	run.Schedule.Policy.SalaryFallbackWeekday = core.ISOWeekday(salaryFallback)
	run.Schedule.Policy.BonusFallbackWeekday = core.ISOWeekday(bonusFallback)
	if run.Schedule.StartMonth, err = core.ParseYearMonth(startMonth); err != nil {
		return Run{}, err
	}
	if run.Schedule.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt); err != nil {
		return Run{}, fmt.Errorf("parse generated_at: %w", err)
	}

	if run.Schedule.Records, err = r.listRecords(ctx, run.ID); err != nil {
		return Run{}, err
	}
	return run, nil
}

func (r *SQLiteRepository) listRecords(ctx context.Context, runID int64) ([]core.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, month_name, salary_date, bonus_date
		FROM payment_dates WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query payment dates: %w", err)
	}
	defer rows.Close()

	var records []core.PaymentRecord
	for rows.Next() {
		var month, name, salary, bonus string
		if err := rows.Scan(&month, &name, &salary, &bonus); err != nil {
			return nil, fmt.Errorf("scan payment date: %w", err)
		}

		rec := core.PaymentRecord{MonthName: name}
		if rec.Month, err = core.ParseYearMonth(month); err != nil {
			return nil, err
		}
		if rec.SalaryDate, err = parseISODate(salary); err != nil {
			return nil, err
		}
		if rec.BonusDate, err = parseISODate(bonus); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment dates: %w", err)
	}
	return records, nil
}

func parseISODate(s string) (core.Date, error) {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.DateOf(t), nil
}
