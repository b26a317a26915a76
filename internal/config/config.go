package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"paydates/internal/core"
	"paydates/internal/export"
	"paydates/internal/payroll"
)

type Config struct {
	// Payment policy
	SalaryFallbackWeekday int
	BonusDay              int
	BonusFallbackWeekday  int
	MonthCount            int

	// Logging
	LogLevel  string
	LogFormat string

	// Archive
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Worker
	RegenerateCron   string
	WorkerOutputFile string

	// invalidEnv lists variables Load could not parse; Validate reports them.
	invalidEnv []string
}

// ValidationError lists every configuration problem. It wraps the underlying
// errors, such as payroll.ErrUnsupportedBonusDay, for errors.Is.
type ValidationError struct {
	Problems []string
	causes   []error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n- %s", strings.Join(e.Problems, "\n- "))
}

func (e *ValidationError) Unwrap() []error {
	return e.causes
}

func Load() *Config {
	var invalid []string
	cfg := &Config{
		SalaryFallbackWeekday: getEnvInt("SALARY_FALLBACK_WEEKDAY", int(payroll.DefaultSalaryFallbackWeekday), &invalid),
		BonusDay:              getEnvInt("BONUS_DAY", payroll.DefaultBonusDay, &invalid),
		BonusFallbackWeekday:  getEnvInt("BONUS_FALLBACK_WEEKDAY", int(payroll.DefaultBonusFallbackWeekday), &invalid),
		MonthCount:            getEnvInt("MONTH_COUNT", payroll.DefaultMonthCount, &invalid),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "paydates"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "schedule_generated"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Payment Dates"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		RegenerateCron:   getEnv("REGENERATE_CRON", "0 6 1 * *"),
		WorkerOutputFile: getEnv("WORKER_OUTPUT_FILE", export.DefaultFilename),

		invalidEnv: invalid,
	}

	return cfg
}

// Policy returns the payment policy described by the configuration.
func (c *Config) Policy() payroll.Policy {
	return payroll.Policy{
		SalaryFallbackWeekday: core.ISOWeekday(c.SalaryFallbackWeekday),
		BonusDay:              c.BonusDay,
		BonusFallbackWeekday:  core.ISOWeekday(c.BonusFallbackWeekday),
		MonthCount:            c.MonthCount,
	}
}

// WorkerOutputPath returns WorkerOutputFile with the ".csv" extension the CLI
// would add. Call Validate first.
func (c *Config) WorkerOutputPath() string {
	return export.NormalizeFilename(c.WorkerOutputFile)
}

// SheetsEnabled reports whether schedules are synced to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string
	var causes []error

	// Variables that could not be parsed
	errors = append(errors, c.invalidEnv...)

	// Validate payment policy
	if err := c.Policy().Validate(); err != nil {
		errors = append(errors, err.Error())
		causes = append(causes, err)
	}

	// Validate logging
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Check if the archive directory exists or can be created
	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLITE_DB_PATH is required when AMQP URL is provided")
		}
	}

	// Validate Google Sheets configuration if enabled
	if c.SheetsEnabled() {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}

		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for Google Sheets")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate worker configuration
	if _, err := cron.ParseStandard(c.RegenerateCron); err != nil {
		errors = append(errors, fmt.Sprintf("invalid regenerate cron '%s': %v", c.RegenerateCron, err))
	}
	if err := export.ValidateFilename(c.WorkerOutputFile); err != nil {
		errors = append(errors, fmt.Sprintf("invalid worker output file: %v", err))
	}

	// Return combined errors
	if len(errors) > 0 {
		return &ValidationError{Problems: errors, causes: causes}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns defaultValue for unset variables. Unparsable values also
// return defaultValue and are recorded in invalid.
func getEnvInt(key string, defaultValue int, invalid *[]string) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		*invalid = append(*invalid, fmt.Sprintf("invalid %s '%s': must be an integer", key, value))
		return defaultValue
	}
	return i
}
