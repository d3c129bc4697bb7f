package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Allowance pipeline events (published by the upload service)
	EventFactsUploaded = "allowance.facts.uploaded"
	EventRatesUpdated  = "allowance.rates.updated"

	// Report events
	EventExportCreated    = "report.export.created"
	EventCacheInvalidated = "report.cache.invalidated"
)

// Exchange names
const (
	ExchangeAllowanceEvents = "allowance.events"
	ExchangeReportEvents    = "report.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Allowance Pipeline Events

// FactsUploadedEvent is published by the upload service after a batch of
// shift allowance rows lands in the database.
type FactsUploadedEvent struct {
	UploadID   string    `json:"upload_id"`
	Months     []string  `json:"months"` // duration months touched, "YYYY-MM"
	RowCount   int       `json:"row_count"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// RatesUpdatedEvent is published by the upload service when per-day shift
// rates change for a payroll year.
type RatesUpdatedEvent struct {
	PayrollYear string   `json:"payroll_year"`
	ShiftTypes  []string `json:"shift_types"`
}

// Report Events

// ExportCreatedEvent is published after an export workbook is written
type ExportCreatedEvent struct {
	FilePath    string    `json:"file_path"`
	Month       string    `json:"month"`
	RowCount    int       `json:"row_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// CacheInvalidatedEvent is published after cached summaries are dropped
type CacheInvalidatedEvent struct {
	Keys   []string `json:"keys"`
	Reason string   `json:"reason"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}
