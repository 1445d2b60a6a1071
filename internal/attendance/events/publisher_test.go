package events_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/attendly/attendly-backend/pkg/messaging"
	"github.com/attendly/attendly-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReportGenerated(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := events.NewAttendanceEventPublisher(mock, logger.Nop())

	p.PublishReportGenerated(context.Background(), messaging.ReportGeneratedEvent{
		Report: "control", Format: "xlsx", StartDate: "2024-09-01", EndDate: "2024-09-30", Rows: 4,
	})

	event := mock.AssertEventPublished(t, messaging.EventReportGenerated)
	payload, ok := event.Payload.(messaging.ReportGeneratedEvent)
	require.True(t, ok)
	assert.Equal(t, "control", payload.Report)
	assert.Equal(t, 4, payload.Rows)
}

func TestPublishEmployeeUpdated(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := events.NewAttendanceEventPublisher(mock, logger.Nop())

	dept := int64(2)
	p.PublishEmployeeUpdated(context.Background(), &repository.Employee{
		ID: 7, FirstName: "Ana", LastName: "Torres", DepartmentID: &dept, Active: true,
	})

	event := mock.AssertEventPublished(t, messaging.EventEmployeeUpdated)
	payload := event.Payload.(messaging.EmployeeUpdatedEvent)
	assert.Equal(t, int64(7), payload.EmployeeID)
	assert.Equal(t, "Ana Torres", payload.Name)
	assert.Equal(t, int64(2), payload.DepartmentID)
}

func TestPublish_FailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	mock := testutil.NewMockPublisher()
	mock.Err = errors.New("channel closed")
	p := events.NewAttendanceEventPublisher(mock, logger.NewWithWriter("test", &buf))

	p.PublishSettingsUpdated(context.Background(), "/tmp/settings.json", "api")

	mock.AssertEventPublished(t, messaging.EventSettingsUpdated)
	assert.Contains(t, buf.String(), "failed to publish event")
	assert.Contains(t, buf.String(), "channel closed")
}

func TestPublish_DisabledIsNoop(t *testing.T) {
	p := events.NewAttendanceEventPublisher(nil, nil)
	assert.False(t, p.Enabled())

	assert.NotPanics(t, func() {
		p.PublishSettingsUpdated(context.Background(), "settings.json", "file")
	})

	var nilPublisher *events.AttendanceEventPublisher
	assert.NotPanics(t, func() {
		nilPublisher.PublishSettingsUpdated(context.Background(), "settings.json", "file")
	})
}
