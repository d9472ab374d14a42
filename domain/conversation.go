// Package domain contains core concepts of the relay system.
// This file defines Conversations and the derivation of their identifiers.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// ConversationID identifies the message history between exactly two sessions.
type ConversationID string

// DeriveConversationID maps an unordered pair of session identifiers to a
// stable conversation identifier. The pair is sorted lexicographically before
// hashing so that DeriveConversationID(a, b) == DeriveConversationID(b, a),
// and no salt is involved so the result survives process restarts.
func DeriveConversationID(a, b string) ConversationID {
	pair := []string{a, b}
	sort.Strings(pair)
	sum := sha256.Sum256([]byte(pair[0] + pair[1]))
	return ConversationID(hex.EncodeToString(sum[:]))
}

// Conversation is the append-only ordered message history between two sessions.
// Messages are never removed or reordered once appended.
type Conversation struct {
	ID       ConversationID
	messages []*Message
}

func NewConversation(id ConversationID) *Conversation {
	return &Conversation{ID: id, messages: nil}
}

func (c *Conversation) Append(message *Message) {
	c.messages = append(c.messages, message)
}

// Messages returns the sequence in insertion order. The slice header is a
// copy but the entries are shared, status mutation goes through the store.
func (c *Conversation) Messages() []*Message {
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

// Find returns the first message with the given identifier, or nil.
func (c *Conversation) Find(messageID string) *Message {
	for _, m := range c.messages {
		if m.ID == messageID {
			return m
		}
	}
	return nil
}
