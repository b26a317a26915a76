package cli

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"paydates/internal/export"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "default", args: nil, want: "salary_dates.csv"},
		{name: "adds extension", args: []string{"payments"}, want: "payments.csv"},
		{name: "keeps extension", args: []string{"payments.csv"}, want: "payments.csv"},
		{name: "other extension", args: []string{"payments.txt"}, want: "payments.txt.csv"},
		{name: "dashes and dots", args: []string{"2024-salary.v2"}, want: "2024-salary.v2.csv"},
		{name: "path separator", args: []string{"../etc/passwd"}, wantErr: export.ErrInvalidFilename},
		{name: "space", args: []string{"my file"}, wantErr: export.ErrInvalidFilename},
		{name: "empty", args: []string{""}, wantErr: export.ErrInvalidFilename},
		{name: "too many", args: []string{"a", "b"}, wantErr: ErrUsage},
		{name: "help", args: []string{"-h"}, wantErr: flag.ErrHelp},
		{name: "long help", args: []string{"--help"}, wantErr: flag.ErrHelp},
		{name: "leading dash", args: []string{"-report"}, want: "-report.csv"},
		{name: "double dash", args: []string{"--", "-h"}, want: "-h.csv"},
		{name: "double dash only", args: []string{"--"}, want: "salary_dates.csv"},
		{name: "dash then extra", args: []string{"-report", "x"}, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args, io.Discard)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseArgs(%v) error = %v, want %v", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseArgs(%v) unexpected error: %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("ParseArgs(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseArgs_UsageOutput(t *testing.T) {
	var out strings.Builder
	_, err := ParseArgs([]string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "Usage: paydates [filename]") {
		t.Errorf("usage not printed, got %q", out.String())
	}
}
