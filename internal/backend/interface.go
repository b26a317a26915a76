package backend

import (
	"context"

	"paydates/internal/sheets"
)

// BackendResult contains the schedule writer and the backend type that was selected
type BackendResult struct {
	Type   BackendType
	Writer sheets.ScheduleWriter
}

// Factory creates schedule writers based on configuration
type Factory interface {
	// CreateBackend creates a writer instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType represents the type of backend
type BackendType string

const (
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
