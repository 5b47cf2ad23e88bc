package kafka_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"ippis-portal/internal/events"
	"ippis-portal/internal/messaging/kafka"
	"ippis-portal/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
		AddRow("ev-1", "req-1", "employee", "emp-1", events.EmployeeCreated, events.ActivityTopic, []byte(`{}`), kafka.OutboxStatusPending, 0, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM outbox_events")).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 10).
		WillReturnRows(rows)

	repo := kafka.NewOutboxRepository(db)
	got, err := repo.ListPending(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "req-1", got[0].RequestID)
	assert.Equal(t, "emp-1", got[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := kafka.NewOutboxRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("ev-1", kafka.OutboxStatusFailed, "broker down", kafka.MaxOutboxAttempts, kafka.OutboxStatusDead).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(kafka.OutboxStatusDead))

	status, err := repo.MarkFailed(context.Background(), "ev-1", "broker down")
	require.NoError(t, err)
	assert.Equal(t, kafka.OutboxStatusDead, status)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("ev-x", kafka.OutboxStatusFailed, sqlmock.AnyArg(), kafka.MaxOutboxAttempts, kafka.OutboxStatusDead).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	_, err = repo.MarkFailed(context.Background(), "ev-x", strings.Repeat("x", 2000))
	assert.ErrorContains(t, err, "not found")

	// 499 ASCII bytes followed by a two-byte rune straddling the limit.
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("ev-2", kafka.OutboxStatusFailed, strings.Repeat("x", 499), kafka.MaxOutboxAttempts, kafka.OutboxStatusDead).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(kafka.OutboxStatusFailed))

	status, err = repo.MarkFailed(context.Background(), "ev-2", strings.Repeat("x", 499)+"ééé")
	require.NoError(t, err)
	assert.Equal(t, kafka.OutboxStatusFailed, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_PurgeSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM outbox_events")).
		WithArgs(kafka.OutboxStatusSent, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := kafka.NewOutboxRepository(db).PurgeSent(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	err := kafka.ValidateOutboxEvent(kafka.OutboxEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbox id is required")
	assert.Contains(t, err.Error(), "outbox topic is required")
	assert.Error(t, kafka.ValidateOutboxEvent(kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte("x"), Status: kafka.OutboxStatusSent}))
	assert.NoError(t, kafka.ValidateOutboxEvent(kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte("x"), Status: kafka.OutboxStatusPending}))
}

func TestOutboxPublisher_Publish(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-9")
	ev := events.NewActivityEvent(ctx, events.CaseCreated, "complaint", "c-1", "complaint filed")

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
			WithArgs(ev.ID, "req-9", "complaint", "c-1", events.CaseCreated, events.ActivityTopic, sqlmock.AnyArg(), kafka.OutboxStatusPending).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		pub := kafka.NewOutboxPublisher(db, kafka.NewOutboxRepository(db))
		assert.NoError(t, pub.Publish(ctx, ev))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		pub := kafka.NewOutboxPublisher(db, kafka.NewOutboxRepository(db))
		assert.EqualError(t, pub.Publish(ctx, ev), "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
