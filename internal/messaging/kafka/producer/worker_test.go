package producer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ippis-portal/internal/messaging/kafka"
	"ippis-portal/internal/messaging/kafka/mock"
	"ippis-portal/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu      sync.Mutex
	written []kafkago.Message
	failOn  map[string]error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range msgs {
		if err := w.failOn[string(m.Key)]; err != nil {
			return err
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{failOn: map[string]error{"emp-2": errors.New("leader not available")}}

	pending := []kafka.OutboxEvent{
		{ID: "ev-1", AggregateID: "emp-1", EventType: "employee.created", Topic: "t", Payload: []byte(`{}`), RequestID: "req-1"},
		{ID: "ev-2", AggregateID: "emp-2", EventType: "employee.created", Topic: "t", Payload: []byte(`{}`)},
	}
	repo.EXPECT().ListPending(gomock.Any(), 50).Return(pending, nil)
	repo.EXPECT().MarkSent(gomock.Any(), "ev-1").Return(nil)
	repo.EXPECT().MarkFailed(gomock.Any(), "ev-2", "leader not available").Return(kafka.OutboxStatusFailed, nil)

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop(), 50)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, writer.written, 1)
	assert.Equal(t, "emp-1", string(writer.written[0].Key))
	assert.Contains(t, writer.written[0].Headers, kafkago.Header{Key: "request_id", Value: []byte("req-1")})
}

func TestProcessPendingEvents_DeadLetter(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{failOn: map[string]error{"emp-9": errors.New("message too large")}}

	repo.EXPECT().ListPending(gomock.Any(), 5).Return([]kafka.OutboxEvent{
		{ID: "ev-9", AggregateID: "emp-9", Topic: "t", Payload: []byte(`{}`), RetryCount: kafka.MaxOutboxAttempts - 1},
	}, nil)
	repo.EXPECT().MarkFailed(gomock.Any(), "ev-9", "message too large").Return(kafka.OutboxStatusDead, nil)

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop(), 5)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestPurgeDelivered(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().PurgeSent(gomock.Any(), cutoff).Return(int64(12), nil)
	producer.PurgeDelivered(context.Background(), repo, zap.NewNop(), cutoff)

	repo.EXPECT().PurgeSent(gomock.Any(), cutoff).Return(int64(0), errors.New("db down"))
	producer.PurgeDelivered(context.Background(), repo, zap.NewNop(), cutoff)
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), 10).Return(nil, errors.New("db down"))

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop(), 10)
	assert.EqualError(t, err, "db down")
	assert.Zero(t, sent)
}

func TestProcessOutboxEvents_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	repo.EXPECT().PurgeSent(gomock.Any(), gomock.Any()).Return(int64(0), nil).MaxTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		producer.ProcessOutboxEvents(ctx, repo, &fakeWriter{}, zap.NewNop(), producer.Options{PollInterval: 5 * time.Millisecond, Retention: time.Hour})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
