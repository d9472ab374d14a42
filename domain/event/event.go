package event

import (
	"relay-lab/domain"
	"time"
)

// DomainEvent is consumed by archive sinks (journal, search index, timeline).
type DomainEvent interface {
	Conversation() domain.ConversationID
}

// MessageRouted is emitted after a message has been appended to its
// conversation and forwarded to the recipient.
type MessageRouted struct {
	ID             string
	ConversationID domain.ConversationID
	SenderID       string
	RecipientID    string
	Content        string
	Language       string
	At             time.Time
}

func (m MessageRouted) Conversation() domain.ConversationID {
	return m.ConversationID
}

// InvitationExpired is emitted by the sweeper when an overdue invitation
// transitions to expired.
type InvitationExpired struct {
	InvitationID string
	SenderID     string
	RecipientID  string
	At           time.Time
}

func (i InvitationExpired) Conversation() domain.ConversationID {
	return domain.DeriveConversationID(i.SenderID, i.RecipientID)
}
