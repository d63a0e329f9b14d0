package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageDecodesBackendShapes(t *testing.T) {
	body := `[
		{"_id":"m1","text":"Thanks","sender":"evaluator","timestamp":"2026-03-01T09:00:00.000Z"},
		{"id":"m2","text":"Hi","sender":"user","timestamp":"2026-03-01T09:01:00Z"},
		{"text":"No time","sender":"counterpart"}
	]`

	var msgs []Message
	require.NoError(t, json.Unmarshal([]byte(body), &msgs))
	require.Len(t, msgs, 3)

	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, SenderCounterpart, msgs[0].Sender)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), msgs[0].Timestamp.UTC())

	assert.Equal(t, "m2", msgs[1].ID)
	assert.True(t, msgs[1].FromUser())

	assert.True(t, msgs[2].Timestamp.IsZero())
	assert.Zero(t, msgs[2].LocalSeq)
}

func TestMessageTimestampShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", `"2026-01-01T00:00:00Z"`, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"epoch millis", `1767225600000`, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"malformed string", `"yesterday"`, time.Time{}},
		{"null", `null`, time.Time{}},
		{"object", `{"$date":"2026-01-01"}`, time.Time{}},
		{"boolean", `true`, time.Time{}},
		{"fractional number", `1.5`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Message
			body := `{"_id":"m1","text":"hi","sender":"user","timestamp":` + tt.raw + `}`
			require.NoError(t, json.Unmarshal([]byte(body), &m))
			assert.Equal(t, "hi", m.Text)
			assert.True(t, tt.want.Equal(m.Timestamp), "got %v", m.Timestamp)
		})
	}
}

func TestSenderKeepsUnknownValues(t *testing.T) {
	var s Sender
	require.NoError(t, json.Unmarshal([]byte(`"system"`), &s))
	assert.Equal(t, Sender("system"), s)
}

func TestStatusGate(t *testing.T) {
	assert.True(t, StatusPending.AcceptsMessages())
	assert.False(t, StatusCompleted.AcceptsMessages())
	assert.False(t, StatusDeclined.AcceptsMessages())
	assert.False(t, Status("").AcceptsMessages())
}

func TestConditionUnwrap(t *testing.T) {
	cause := fmt.Errorf("%w: dial tcp: refused", ErrNetwork)
	c := NewCondition(ErrLoadFailed, "Network Error", cause)

	assert.True(t, errors.Is(c, ErrLoadFailed))
	assert.True(t, errors.Is(c, ErrNetwork))
	assert.False(t, errors.Is(c, ErrSendFailed))
	assert.Equal(t, "Network Error", c.Error())

	assert.Equal(t, ErrSendFailed.Error(), NewCondition(ErrSendFailed, "", nil).Error())
}

func TestCloneMessagesIsIndependent(t *testing.T) {
	s := &ChatSession{Messages: []Message{{Text: "a"}}}
	out := s.CloneMessages()
	out[0].Text = "changed"
	assert.Equal(t, "a", s.Messages[0].Text)
}
