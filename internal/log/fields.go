package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldOutputFile  = "output_file"
	FieldStartMonth  = "start_month"
	FieldMonthCount  = "month_count"
	FieldRunID       = "run_id"
	FieldMessageID   = "message_id"
	FieldSheetsRef   = "sheets_ref"
	FieldCronSpec    = "cron_spec"
	FieldDBPath      = "db_path"
	FieldSpreadsheet = "spreadsheet_id"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentSheets    = "sheets"
	ComponentWorker    = "worker"
	ComponentScheduler = "scheduler"
)

// Operations defines standard operation names
const (
	OpGenerate = "generate"
	OpWrite    = "write"
	OpArchive  = "archive"
	OpPublish  = "publish"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSchedule adds the fields describing a generated schedule
func (f LogFields) WithSchedule(startMonth string, months int, outputFile string) LogFields {
	f[FieldStartMonth] = startMonth
	f[FieldMonthCount] = months
	f[FieldOutputFile] = outputFile
	return f
}

// WithRun adds the archive run ID
func (f LogFields) WithRun(runID int64) LogFields {
	f[FieldRunID] = runID
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
