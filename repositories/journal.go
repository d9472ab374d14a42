//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=../mocks/mock_journal.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"relay-lab/domain"
)

type IJournal interface {
	StoreMessage(message JournalMessage) error
	GetConversation(id domain.ConversationID, cursor *string) ([]JournalMessage, *string, error)
	CountMessages() (int, error)
}

// Journal keeps an audit copy of every routed message in BadgerDB. The relay
// opens the database in memory, the journal is as volatile as the rest of
// the stores and disappears on restart.
type Journal struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewJournal(db *badger.DB, log *slog.Logger, limitMessages *int) Journal {
	return Journal{db: db, log: log, limitMessages: limitMessages}
}

type JournalMessage struct {
	ID             string                `json:"id"`
	ConversationID domain.ConversationID `json:"conversationId"`
	SenderID       string                `json:"senderId"`
	RecipientID    string                `json:"recipientId"`
	Content        string                `json:"content"`
	Language       string                `json:"language,omitempty"`
	At             time.Time             `json:"at"`
}

// StoreMessage persists one routed message.
// The key is formatted as "msg:{conversation}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the message id as a collision disconnector
//     if two messages arrive at the same nanosecond.
func (j Journal) StoreMessage(message JournalMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.ConversationID,
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetConversation retrieves a conversation's messages newest-first using a
// prefix scan. Thanks to the padded timestamp in the key the iteration order
// is chronological, the returned cursor resumes after the last emitted key.
func (j Journal) GetConversation(id domain.ConversationID, cursor *string) ([]JournalMessage, *string, error) {
	var rawMessages [][]byte
	var lastKey string
	err := j.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", id)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if j.limitMessages != nil && len(rawMessages) == *j.limitMessages {
				j.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *j.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			if err := item.Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]JournalMessage, 0, len(rawMessages))
	for _, raw := range rawMessages {
		var message JournalMessage
		if err = json.Unmarshal(raw, &message); err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

// CountMessages counts every journaled message across all conversations.
func (j Journal) CountMessages() (int, error) {
	count := 0
	err := j.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		prefix := []byte("msg:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
