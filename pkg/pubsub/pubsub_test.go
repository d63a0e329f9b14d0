package pubsub

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventRoundTripsPayload(t *testing.T) {
	ev, err := NewEvent(EventMessagePosted, "PRP01", "u1", MessagePayload{MessageID: "m1", Sender: "user", Text: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "PRP01", ev.PaperID)
	assert.False(t, ev.Timestamp.IsZero())

	var p MessagePayload
	require.NoError(t, json.Unmarshal(ev.Payload, &p))
	assert.Equal(t, "Hello", p.Text)
}

func TestPaperEventsChannel(t *testing.T) {
	assert.Equal(t, "paperchat:paper:PRP01:events", PaperEventsChannel("PRP01"))
}

func TestDisabledPublisherDropsEvents(t *testing.T) {
	pub, err := NewPublisher(Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, pub.Publish(context.Background(), PaperEventsChannel("p"), &Event{}))
	assert.NoError(t, pub.Close())
}
