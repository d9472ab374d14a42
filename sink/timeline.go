package sink

import (
	"context"

	"relay-lab/domain"
	"relay-lab/domain/event"
)

// Timeline holds a simple local projection of routed messages, mostly
// useful in tests and tooling.
type Timeline struct {
	Messages []domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{Messages: nil}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageRouted:
		t.Messages = append(t.Messages, fromEvent(evt))
	}
	return nil
}

func fromEvent(evt event.MessageRouted) domain.Message {
	return domain.Message{
		ID:          evt.ID,
		SenderID:    evt.SenderID,
		RecipientID: evt.RecipientID,
		Content:     evt.Content,
		Language:    evt.Language,
		Status:      domain.MessageStatusSent,
		CreatedAt:   evt.At,
	}
}
