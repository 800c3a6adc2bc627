package domain

import (
	"fmt"
	"strings"
	"time"
)

// EventKind classifies what triggered a notification. It is forwarded
// verbatim to the client as the SSE event name and carries no behavioral
// branching in the dispatcher.
type EventKind string

const (
	EventApplyParticipation   EventKind = "APPLY_PARTICIPATION"
	EventApproveParticipation EventKind = "APPROVE_PARTICIPATION"
	EventRejectParticipation  EventKind = "REJECT_PARTICIPATION"
	EventCancelParticipation  EventKind = "CANCEL_PARTICIPATION"
	EventReviewRequest        EventKind = "REVIEW_REQUEST"
	EventWriteComment         EventKind = "WRITE_COMMENT"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventApplyParticipation, EventApproveParticipation, EventRejectParticipation,
		EventCancelParticipation, EventReviewRequest, EventWriteComment:
		return true
	}
	return false
}

func ParseEventKindFromString(s string) (EventKind, error) {
	k := EventKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: invalid event kind %q", ErrValidation, s)
	}
	return k, nil
}

// MaxMessageLength bounds the pre-formatted notification text.
const MaxMessageLength = 1000

// Notification is the durable record that a member was told something.
// Once written it is immutable; replay for offline members happens from
// this record, never from connection state.
type Notification struct {
	ID        string
	MemberID  string
	Message   string
	EventKind EventKind
	CreatedAt time.Time
}

func (n *Notification) Validate() error {
	if strings.TrimSpace(n.MemberID) == "" {
		return fmt.Errorf("%w: member id is required", ErrValidation)
	}
	if n.Message == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if len([]rune(n.Message)) > MaxMessageLength {
		return fmt.Errorf("%w: message exceeds %d characters", ErrValidation, MaxMessageLength)
	}
	if !n.EventKind.IsValid() {
		return fmt.Errorf("%w: invalid event kind %q", ErrValidation, n.EventKind)
	}
	return nil
}
