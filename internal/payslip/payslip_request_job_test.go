package payslip_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rh-management/internal/employeerecord"
	mock_employeerecord "rh-management/internal/employeerecord/mock"
	"rh-management/internal/events"
	"rh-management/internal/messaging/kafka"
	mock_kafka "rh-management/internal/messaging/kafka/mock"
	"rh-management/internal/payslip"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func setupRequestJob(t *testing.T) (*payslip.RequestJob, sqlmock.Sqlmock, *mock_employeerecord.MockRepository, *mock_kafka.MockOutboxRepository) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	records := mock_employeerecord.NewMockRepository(ctrl)
	outbox := mock_kafka.NewMockOutboxRepository(ctrl)
	records.EXPECT().WithTx(gomock.Any()).Return(records).AnyTimes()
	outbox.EXPECT().WithTx(gomock.Any()).Return(outbox).AnyTimes()

	job := payslip.NewRequestJob(db, records, outbox, 28, payslip.WithJobLogger(zap.NewNop()))
	return job, sqlMock, records, outbox
}

func recordRows(n int) []employeerecord.RecordRow {
	out := make([]employeerecord.RecordRow, n)
	for i := range out {
		out[i] = employeerecord.RecordRow{EmployeeRecord: employeerecord.EmployeeRecord{ID: uuid.New(), EmployeeID: uuid.New()}}
	}
	return out
}

func TestRequestJob_RunFor(t *testing.T) {
	ctx := context.Background()

	t.Run("success queues one event per record", func(t *testing.T) {
		job, sqlMock, records, outbox := setupRequestJob(t)
		rows := recordRows(3)

		expectTx(t, sqlMock, true)
		records.EXPECT().ListAll(ctx).Return(rows, nil)
		var queued []string
		outbox.EXPECT().Create(ctx, gomock.Any()).Times(3).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.PayslipGenerationRequestedTopic, e.Topic)
			assert.Equal(t, events.PayslipAggregateType, e.AggregateType)

			var payload events.PayslipGenerationRequestedEvent
			assert.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, "2024-06", payload.Month)
			queued = append(queued, payload.EmployeeID)
			return nil
		})

		n, err := job.RunFor(ctx, day(2024, 6, 28))

		assert.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{rows[0].EmployeeID.String(), rows[1].EmployeeID.String(), rows[2].EmployeeID.String()}, queued)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("skips other days", func(t *testing.T) {
		job, sqlMock, _, _ := setupRequestJob(t)

		n, err := job.RunFor(ctx, day(2024, 6, 27))

		assert.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative outbox failure rolls back", func(t *testing.T) {
		job, sqlMock, records, outbox := setupRequestJob(t)

		expectTx(t, sqlMock, false)
		records.EXPECT().ListAll(ctx).Return(recordRows(2), nil)
		outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("db down"))

		_, err := job.RunFor(ctx, day(2024, 6, 28))

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestRequestJob_Run(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ctrl := gomock.NewController(t)
	job := payslip.NewRequestJob(db, mock_employeerecord.NewMockRepository(ctrl), mock_kafka.NewMockOutboxRepository(ctrl), 28)

	assert.Equal(t, "payslip_request", job.Name())
	assert.NoError(t, job.Run(context.Background(), day(2024, 6, 3)))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
