package runtime

import (
	"github.com/samber/lo"

	"relay-lab/domain"
)

// ConversationStore maps derived conversation identifiers to their
// append-only message sequences. Buckets are created lazily on the first
// message between a pair and never deleted.
//
// Not safe for concurrent use, all access is serialized by the Router's mutex.
type ConversationStore struct {
	conversations map[domain.ConversationID]*domain.Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{conversations: make(map[domain.ConversationID]*domain.Conversation)}
}

// Append adds the message to the conversation between sender and recipient,
// creating the bucket if absent, and returns the conversation identifier.
func (s *ConversationStore) Append(message *domain.Message) domain.ConversationID {
	id := domain.DeriveConversationID(message.SenderID, message.RecipientID)
	conversation, ok := s.conversations[id]
	if !ok {
		conversation = domain.NewConversation(id)
		s.conversations[id] = conversation
	}
	conversation.Append(message)
	return id
}

func (s *ConversationStore) Get(id domain.ConversationID) (*domain.Conversation, bool) {
	conversation, ok := s.conversations[id]
	return conversation, ok
}

// FindMessage scans every conversation for the first message with the given
// identifier. Linear on purpose, the sequences stay the single source of
// truth and the relay runs at a scale where a secondary index is not worth
// its bookkeeping.
func (s *ConversationStore) FindMessage(messageID string) *domain.Message {
	for _, conversation := range s.conversations {
		if m := conversation.Find(messageID); m != nil {
			return m
		}
	}
	return nil
}

// ContactsOf returns every other session identifier sharing a conversation
// bucket with the given session. Presence notifications only reach parties
// who exchanged at least one message, never pending invitees.
func (s *ConversationStore) ContactsOf(sessionID string) []string {
	seen := make(map[string]struct{})
	for _, conversation := range s.conversations {
		for _, m := range conversation.Messages() {
			var other string
			switch sessionID {
			case m.SenderID:
				other = m.RecipientID
			case m.RecipientID:
				other = m.SenderID
			default:
				continue
			}
			if other != sessionID {
				seen[other] = struct{}{}
			}
		}
	}
	return lo.Keys(seen)
}

func (s *ConversationStore) Count() int {
	return len(s.conversations)
}
