package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/applog/shared/logger"
)

type fakeSender struct {
	routingKey  string
	body        []byte
	contentType string
	err         error
}

func (f *fakeSender) PublishWithRetry(_ context.Context, routingKey string, body []byte, contentType string) error {
	f.routingKey = routingKey
	f.body = body
	f.contentType = contentType
	return f.err
}

func TestType_Entity(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{JobCreated, "job"},
		{JobNoteAdded, "job"},
		{TemplateDeleted, "template"},
		{Type("odd"), "odd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Entity(), tt.typ)
	}
}

func TestNew(t *testing.T) {
	at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	a := New(JobUpdated, 7, at)
	b := New(JobUpdated, 7, at)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "job", a.Entity)
	assert.Equal(t, int64(7), a.EntityID)
	assert.Equal(t, time.UTC, a.OccurredAt.Location())
	assert.True(t, at.Equal(a.OccurredAt))
}

func TestBrokerPublisher_Publish(t *testing.T) {
	sender := &fakeSender{}
	p := NewBrokerPublisher(sender, logger.NewNop().Logger)

	event := New(TemplateCreated, 3, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, "template.created", sender.routingKey)
	assert.Equal(t, "application/json", sender.contentType)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(sender.body, &decoded))
	assert.Equal(t, event.ID, decoded["event_id"])
	assert.Equal(t, "template.created", decoded["type"])
	assert.Equal(t, "template", decoded["entity"])
	assert.EqualValues(t, 3, decoded["entity_id"])
	assert.Equal(t, "2024-01-05T00:00:00Z", decoded["occurred_at"])
}

func TestBrokerPublisher_PublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewBrokerPublisher(&fakeSender{err: boom}, logger.NewNop().Logger)

	err := p.Publish(context.Background(), New(JobDeleted, 1, time.Now()))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "job.deleted")
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), New(JobCreated, 1, time.Now())))
}
