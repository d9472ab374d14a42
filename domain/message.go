// Package domain contains core concepts of the relay system.
// This file defines Message records and their status transitions.
package domain

import "time"

type MessageStatus string

const (
	MessageStatusSent MessageStatus = "sent"
	MessageStatusRead MessageStatus = "read"
)

const DefaultMessageType = "text"

// Message is a point-to-point message appended to a conversation.
// Identifiers are caller-supplied. Once appended the record is never removed;
// only Status may change, exactly once, from sent to read.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Content     string
	Type        string
	Status      MessageStatus
	Outbound    bool
	ReplyTo     string
	Mentions    []string
	Language    string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// MarkRead transitions the message to read. It reports whether the call
// changed anything, re-marking an already read message has no effect.
func (m *Message) MarkRead() bool {
	if m.Status == MessageStatusRead {
		return false
	}
	m.Status = MessageStatusRead
	return true
}
