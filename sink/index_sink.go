package sink

import (
	"context"

	"relay-lab/domain/event"
	"relay-lab/search"
)

// IndexSink feeds routed message content into the full-text index.
type IndexSink struct {
	index *search.Index
}

func NewIndexSink(index *search.Index) IndexSink {
	return IndexSink{index: index}
}

func (s IndexSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageRouted:
		return s.index.IndexMessage(evt.ID, evt.ConversationID, evt.SenderID, evt.Content, evt.At)
	}
	return nil
}
