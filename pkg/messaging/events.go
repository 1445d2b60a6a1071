package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Event types
const (
	EventReportGenerated = "attendance.report.generated"
	EventSettingsUpdated = "attendance.settings.updated"
	EventEmployeeUpdated = "attendance.employee.updated"
)

// ExchangeAttendanceEvents is the default exchange for attendance events
const ExchangeAttendanceEvents = "attendance.events"

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
		ID:            uuid.NewString(),
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

// Publishing encodes the event as a persistent JSON message
func (e *Event) Publishing() (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: e.CorrelationID,
		MessageId:     e.ID,
		Type:          e.Type,
		AppId:         e.Source,
		Timestamp:     e.Timestamp,
		Body:          body,
	}, nil
}

// ReportGeneratedEvent is published after a document report is rendered
type ReportGeneratedEvent struct {
	Report     string `json:"report"`
	Format     string `json:"format"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Department string `json:"department,omitempty"`
	Rows       int    `json:"rows"`
	Bytes      int    `json:"bytes"`
}

// SettingsUpdatedEvent is published when the report settings file changes
type SettingsUpdatedEvent struct {
	Path   string `json:"path"`
	Source string `json:"source"` // api or file
}

// EmployeeUpdatedEvent is published when an employee record is edited
type EmployeeUpdatedEvent struct {
	EmployeeID   int64  `json:"employee_id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id"`
	Active       bool   `json:"active"`
}
