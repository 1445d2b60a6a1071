package events

import (
	"context"

	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/attendly/attendly-backend/pkg/messaging"
)

// Sender delivers an event payload to the broker
type Sender interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// AttendanceEventPublisher publishes attendance report events. Delivery
// failures are logged and never fail the request that caused them.
type AttendanceEventPublisher struct {
	sender Sender
	logger *logger.Logger
}

// NewAttendanceEventPublisher creates a publisher over sender. A nil sender
// disables publishing.
func NewAttendanceEventPublisher(sender Sender, log *logger.Logger) *AttendanceEventPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &AttendanceEventPublisher{
		sender: sender,
		logger: log,
	}
}

// NewRabbitEventPublisher publishes to the given exchange on rmq
func NewRabbitEventPublisher(rmq *messaging.RabbitMQ, exchange string, log *logger.Logger) (*AttendanceEventPublisher, error) {
	if exchange == "" {
		exchange = messaging.ExchangeAttendanceEvents
	}
	publisher, err := messaging.NewPublisher(rmq, exchange, "report-service", log)
	if err != nil {
		return nil, err
	}
	return NewAttendanceEventPublisher(publisher, log), nil
}

// Enabled reports whether events reach a broker
func (p *AttendanceEventPublisher) Enabled() bool {
	return p != nil && p.sender != nil
}

func (p *AttendanceEventPublisher) publish(ctx context.Context, eventType string, data interface{}) {
	if !p.Enabled() {
		return
	}
	if err := p.sender.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

// PublishReportGenerated publishes a report generated event
func (p *AttendanceEventPublisher) PublishReportGenerated(ctx context.Context, data messaging.ReportGeneratedEvent) {
	p.publish(ctx, messaging.EventReportGenerated, data)
}

// PublishSettingsUpdated publishes a settings updated event
func (p *AttendanceEventPublisher) PublishSettingsUpdated(ctx context.Context, path, source string) {
	p.publish(ctx, messaging.EventSettingsUpdated, messaging.SettingsUpdatedEvent{
		Path:   path,
		Source: source,
	})
}

// PublishEmployeeUpdated publishes an employee updated event
func (p *AttendanceEventPublisher) PublishEmployeeUpdated(ctx context.Context, emp *repository.Employee) {
	data := messaging.EmployeeUpdatedEvent{
		EmployeeID: emp.ID,
		Name:       emp.FullName(),
		Active:     emp.Active,
	}
	if emp.DepartmentID != nil {
		data.DepartmentID = *emp.DepartmentID
	}
	p.publish(ctx, messaging.EventEmployeeUpdated, data)
}
