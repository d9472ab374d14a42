package sink

import (
	"context"
	"fmt"
	"log/slog"

	"relay-lab/domain/event"
	"relay-lab/repositories"
)

// JournalSink writes every routed message to the badger journal.
type JournalSink struct {
	journal repositories.IJournal
	log     *slog.Logger
}

func NewJournalSink(journal repositories.IJournal, log *slog.Logger) JournalSink {
	return JournalSink{journal: journal, log: log}
}

func (s JournalSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageRouted:
		return s.journal.StoreMessage(repositories.JournalMessage{
			ID:             evt.ID,
			ConversationID: evt.ConversationID,
			SenderID:       evt.SenderID,
			RecipientID:    evt.RecipientID,
			Content:        evt.Content,
			Language:       evt.Language,
			At:             evt.At,
		})
	default:
		s.log.Debug(fmt.Sprintf("Not journaled event : %v", evt))
		return nil
	}
}
