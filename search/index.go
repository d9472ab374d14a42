// Package search maintains a full-text index over routed message content.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"

	"relay-lab/domain"
)

// Hit is one search result.
type Hit struct {
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	At             time.Time `json:"at"`
}

// Index wraps a Bluge writer. The relay opens it with the in-memory
// configuration, the index lives and dies with the process.
type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

// IndexMessage adds or replaces one message document.
func (i *Index) IndexMessage(messageID string, conversationID domain.ConversationID,
	senderID, content string, at time.Time) error {
	doc := bluge.NewDocument(messageID).
		AddField(bluge.NewTextField("content", content).StoreValue()).
		AddField(bluge.NewKeywordField("conversation", string(conversationID)).StoreValue()).
		AddField(bluge.NewKeywordField("sender", senderID).StoreValue()).
		AddField(bluge.NewDateTimeField("at", at).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search runs a match query against message content and returns up to limit
// hits, best score first.
func (i *Index) Search(ctx context.Context, terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewMatchQuery(terms).SetField("content")
	request := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "content":
				hit.Content = string(value)
			case "conversation":
				hit.ConversationID = string(value)
			case "sender":
				hit.SenderID = string(value)
			case "at":
				if at, parseErr := bluge.DecodeDateTime(value); parseErr == nil {
					hit.At = at
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
