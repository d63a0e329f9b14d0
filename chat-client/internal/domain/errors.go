package domain

import "errors"

// Conditions surfaced to the user. Each lands in the session's single
// current-error slot.
var (
	ErrUnauthenticated = errors.New("user not logged in")
	ErrLoadFailed      = errors.New("failed to fetch chat data")
	ErrSendFailed      = errors.New("failed to send message")

	// ErrNetwork is joined onto failures caused by the transport rather than
	// by the server's answer.
	ErrNetwork = errors.New("network error")
)

// Send rejections. Returned to the caller; they never change session state.
var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrSendNotAllowed = errors.New("chat is not accepting messages")
	ErrNoSession      = errors.New("no chat session loaded")
	ErrSendInFlight   = errors.New("a message is already being sent")
)

// Condition is a user-visible failure. Kind is one of ErrUnauthenticated,
// ErrLoadFailed or ErrSendFailed; Detail is the text to render.
type Condition struct {
	Kind   error
	Detail string
	Cause  error
}

// NewCondition builds a Condition. An empty detail renders as the kind's text.
func NewCondition(kind error, detail string, cause error) *Condition {
	return &Condition{Kind: kind, Detail: detail, Cause: cause}
}

func (c *Condition) Error() string {
	if c.Detail != "" {
		return c.Detail
	}
	return c.Kind.Error()
}

func (c *Condition) Unwrap() []error {
	if c.Cause == nil {
		return []error{c.Kind}
	}
	return []error{c.Kind, c.Cause}
}
