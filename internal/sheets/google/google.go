package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"paydates/internal/export"
	applog "paydates/internal/log"
	"paydates/internal/payroll"
	ports "paydates/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultSheetName = "Payment Dates"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.ScheduleWriter = (*Client)(nil)

// Options configures a Client. One of CredentialsJSON or CredentialsFile is required.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if opts.SheetName == "" {
		opts.SheetName = defaultSheetName
	}

	svc, err := newSheetsService(ctx, opts.CredentialsJSON, opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, serviceAccountJSON, serviceAccountFile string) (*gsheet.Service, error) {
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	applog.FromContext(ctx).DebugContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteSchedule clears the sheet's A:C columns and writes the header and one row per month.
func (c *Client) WriteSchedule(ctx context.Context, s payroll.Schedule) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if len(s.Records) == 0 {
		return "", errors.New("schedule has no records")
	}

	sheet := quoteSheetName(c.sheetName)
	clearRange := sheet + "!A:C"
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("failed to clear %s: %w", clearRange, err)
	}

	values := scheduleValues(s)
	ref := fmt.Sprintf("%s!A1:C%d", sheet, len(values))
	vr := &gsheet.ValueRange{Values: values}

	// RAW keeps DD/MM/YYYY as text regardless of the spreadsheet locale.
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, ref, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", ref, err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentSheets).InfoContext(ctx, "Schedule written to Google Sheets",
		applog.FieldSpreadsheet, c.spreadsheetID,
		applog.FieldSheetsRef, ref,
		applog.FieldStartMonth, s.StartMonth.String())

	return ref, nil
}

// scheduleValues renders the schedule the same way as the CSV export.
func scheduleValues(s payroll.Schedule) [][]any {
	header := make([]any, len(export.Header))
	for i, h := range export.Header {
		header[i] = h
	}
	values := [][]any{header}
	for _, r := range export.Rows(s.Records) {
		values = append(values, []any{r.MonthName, r.SalaryDate, r.BonusDate})
	}
	return values
}

// quoteSheetName wraps the name in single quotes for A1 notation, doubling embedded quotes.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
