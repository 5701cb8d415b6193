package consumers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAcknowledger registra qué respuesta recibió cada entrega
type fakeAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type mockAuditStore struct {
	entries []*domain.ActivityLog
	err     error
}

func (m *mockAuditStore) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  tag,
		Body:         []byte(body),
	}
}

func TestProcessMessage_StoresEventAndAcks(t *testing.T) {
	store := &mockAuditStore{}
	ack := &fakeAcknowledger{}
	c := newAuditConsumer(nil, nil, "properties_queue", store, zap.NewNop())

	sent := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	msg := delivery(ack, 7, `{"action":"create","entity":"property","entity_id":"p-1","user_id":"u-1"}`)
	msg.MessageId = "m-1"
	msg.Timestamp = sent

	c.processMessage(msg)

	assert.Equal(t, []uint64{7}, ack.acked)
	assert.Empty(t, ack.nacked)
	require.Len(t, store.entries, 1)

	entry := store.entries[0]
	assert.Equal(t, "create", entry.Action)
	assert.Equal(t, "property", entry.Entity)
	assert.Equal(t, "p-1", entry.EntityID)
	assert.Equal(t, "u-1", entry.UserID)
	assert.Equal(t, sent, entry.CreatedAt)
	assert.Equal(t, map[string]any{"message_id": "m-1"}, entry.Details)
}

func TestProcessMessage_DiscardsInvalidMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"action":`},
		{"unknown action", `{"action":"archive","entity":"deal","entity_id":"d-1"}`},
		{"missing entity", `{"action":"update","entity_id":"d-1"}`},
		{"missing entity id", `{"action":"delete","entity":"contact"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockAuditStore{}
			ack := &fakeAcknowledger{}
			c := newAuditConsumer(nil, nil, "q", store, zap.NewNop())

			c.processMessage(delivery(ack, 1, tt.body))

			assert.Empty(t, ack.acked)
			assert.Equal(t, []uint64{1}, ack.nacked)
			assert.Equal(t, []bool{false}, ack.requeue)
			assert.Empty(t, store.entries)
		})
	}
}

func TestProcessMessage_StoreFailureIsNotRequeued(t *testing.T) {
	store := &mockAuditStore{err: errors.New("mongo down")}
	ack := &fakeAcknowledger{}
	c := newAuditConsumer(nil, nil, "q", store, zap.NewNop())

	c.processMessage(delivery(ack, 3, `{"action":"update","entity":"deal","entity_id":"d-9"}`))

	assert.Empty(t, ack.acked)
	assert.Equal(t, []uint64{3}, ack.nacked)
	assert.Equal(t, []bool{false}, ack.requeue)
}

func TestLogEntry_WithoutMessageID(t *testing.T) {
	entry := logEntry(domain.EntityEvent{Action: "delete", Entity: "activity", EntityID: "a-1"}, amqp.Delivery{})

	assert.Nil(t, entry.Details)
	assert.True(t, entry.CreatedAt.IsZero())
}

func TestClose_WithoutStart(t *testing.T) {
	c := newAuditConsumer(nil, nil, "q", &mockAuditStore{}, zap.NewNop())
	assert.NoError(t, c.Close())
}
