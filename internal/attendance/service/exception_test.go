package service_test

import (
	"context"
	"testing"

	"github.com/attendly/attendly-backend/internal/attendance/render"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/internal/attendance/service"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/attendly/attendly-backend/pkg/messaging"
	"github.com/attendly/attendly-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExceptionService(t *testing.T) (*service.ExceptionService, *testutil.MockPublisher) {
	t.Helper()
	publisher, mock := newPublisher()
	svc := service.NewExceptionService(repository.NewExceptionRepository(seed(t)), publisher, reportsConfig(), logger.Nop())
	return svc, mock
}

func TestExceptionList(t *testing.T) {
	svc, _ := newExceptionService(t)

	list, err := svc.List(context.Background(), "2024-09-01", "2024-09-30")
	require.NoError(t, err)
	require.Len(t, list, 2)

	sick := list[0]
	assert.Equal(t, "101", *sick.Pin)
	assert.Equal(t, "2024-09-04", sick.Date)
	assert.Equal(t, "2024-09-04 08:00:00", *sick.StartTime)
	assert.Equal(t, 4.33, *sick.Hours)
	assert.Equal(t, repository.ExceptionSick, sick.ExceptionType)

	assert.Equal(t, 9.0, *list[1].Hours)
	assert.Equal(t, repository.ExceptionVacation, list[1].ExceptionType)
}

func TestExceptionList_DefaultsToCurrentMonth(t *testing.T) {
	svc, _ := newExceptionService(t)
	svc.SetNow(fixedNow("2024-10-15 10:00"))

	list, err := svc.List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExceptionList_InvalidRange(t *testing.T) {
	svc, _ := newExceptionService(t)

	_, err := svc.List(context.Background(), "2024-09-30", "")
	assert.Error(t, err)
}

func TestExceptionVacations(t *testing.T) {
	svc, _ := newExceptionService(t)

	list, err := svc.Vacations(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Luis", list[0].FirstName)
	assert.Equal(t, int64(12), list[0].PaycodeID)
}

func TestExceptionReport(t *testing.T) {
	svc, mock := newExceptionService(t)

	doc, err := svc.Report(context.Background(), "2024-09-01", "2024-09-30")
	require.NoError(t, err)

	assert.Equal(t, render.ContentTypePDF, doc.ContentType)
	assert.Equal(t, "ReporteExcepciones_2024-09-01_2024-09-30.pdf", doc.Filename)
	assert.Equal(t, "%PDF", string(doc.Body[:4]))

	event := mock.AssertEventPublished(t, messaging.EventReportGenerated)
	payload := event.Payload.(messaging.ReportGeneratedEvent)
	assert.Equal(t, "pdf", payload.Format)
	assert.Equal(t, 2, payload.Rows)
}
