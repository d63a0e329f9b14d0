package pubsub

import "fmt"

// ChannelPaperEvents carries every chat event of one paper.
const ChannelPaperEvents = "paperchat:paper:%s:events"

// Event types published by the review service.
const (
	EventMessagePosted = "message_posted"
	EventReplyPosted   = "reply_posted"
	EventStatusChanged = "status_changed"
)

// PaperEventsChannel returns the channel name for a paper's chat events.
func PaperEventsChannel(paperID string) string {
	return fmt.Sprintf(ChannelPaperEvents, paperID)
}

// MessagePayload accompanies EventMessagePosted and EventReplyPosted.
type MessagePayload struct {
	MessageID string `json:"message_id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
}

// StatusPayload accompanies EventStatusChanged.
type StatusPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}
