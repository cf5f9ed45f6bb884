// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindChat        Kind = "message"
	KindPrivateChat Kind = "private_message"
	KindStatus      Kind = "status"
)

const (
	JoinedText = "entered the room"
	LeftText   = "left the room"
)

// TimeLayout is the hour:minute:second stamp attached to every message.
const TimeLayout = "15:04:05"

// Message represents a chat or status record.
// Status messages are system generated and never edited.
type Message struct {
	ID        uuid.UUID
	From      string
	To        string
	Text      string
	Kind      Kind
	Time      string
	CreatedAt time.Time
}

// NewMessage builds a message stamped at the given instant.
func NewMessage(from, to, text string, kind Kind, at time.Time) Message {
	return Message{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		Text:      text,
		Kind:      kind,
		Time:      at.Format(TimeLayout),
		CreatedAt: at,
	}
}

// JoinNotice is the broadcast status message emitted when name enters the room.
func JoinNotice(name string, at time.Time) Message {
	return NewMessage(name, Broadcast, JoinedText, KindStatus, at)
}

// LeaveNotice is the broadcast status message emitted when name is evicted.
func LeaveNotice(name string, at time.Time) Message {
	return NewMessage(name, Broadcast, LeftText, KindStatus, at)
}

// IsUserKind reports whether a participant may author a message of this kind.
func (k Kind) IsUserKind() bool {
	return k == KindChat || k == KindPrivateChat
}

// VisibleTo reports whether user may read the message.
// Public chat and broadcasts are visible to all; private messages only to their two ends.
func (m Message) VisibleTo(user string) bool {
	return m.Kind == KindChat ||
		m.To == Broadcast ||
		m.To == user ||
		m.From == user
}
