package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ScheduleGeneratedMessage announces a schedule archived under RunID.
// Consumers fetch the full schedule from the archive.
type ScheduleGeneratedMessage struct {
	ID         string    `json:"id"`
	RunID      int64     `json:"run_id"`
	StartMonth string    `json:"start_month"`
	Months     int       `json:"months"`
	OutputFile string    `json:"output_file"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewScheduleGeneratedMessage creates a message with a fresh ID.
func NewScheduleGeneratedMessage(runID int64, startMonth string, months int, outputFile string) *ScheduleGeneratedMessage {
	return &ScheduleGeneratedMessage{
		ID:         uuid.NewString(),
		RunID:      runID,
		StartMonth: startMonth,
		Months:     months,
		OutputFile: outputFile,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ScheduleGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ScheduleGeneratedMessageFromJSON decodes a message, rejecting ones without a run ID.
func ScheduleGeneratedMessageFromJSON(data []byte) (*ScheduleGeneratedMessage, error) {
	var msg ScheduleGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.RunID <= 0 {
		return nil, errors.New("message has no run id")
	}
	return &msg, nil
}
