package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"relay-lab/domain"
)

func storedMessage(id, sender, recipient string) *domain.Message {
	return &domain.Message{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Content:     "hi",
		Status:      domain.MessageStatusSent,
	}
}

func TestConversationStore_AppendBucketsByPair(t *testing.T) {
	req := require.New(t)
	store := NewConversationStore()

	// Given messages in both directions between the same pair
	first := store.Append(storedMessage("m1", "alice", "bob"))
	second := store.Append(storedMessage("m2", "bob", "alice"))

	// Then they land in one shared bucket, in arrival order
	req.Equal(first, second)
	conversation, ok := store.Get(first)
	req.True(ok)
	req.Equal(2, conversation.Len())
	req.Equal("m1", conversation.Messages()[0].ID)
	req.Equal(1, store.Count())
}

func TestConversationStore_DistinctPairsGetDistinctBuckets(t *testing.T) {
	req := require.New(t)
	store := NewConversationStore()

	withBob := store.Append(storedMessage("m1", "alice", "bob"))
	withCarol := store.Append(storedMessage("m2", "alice", "carol"))

	req.NotEqual(withBob, withCarol)
	req.Equal(2, store.Count())
}

func TestConversationStore_FindMessage(t *testing.T) {
	req := require.New(t)
	store := NewConversationStore()
	store.Append(storedMessage("m1", "alice", "bob"))
	store.Append(storedMessage("m2", "alice", "carol"))

	found := store.FindMessage("m2")
	req.NotNil(found)
	req.Equal("carol", found.RecipientID)
	req.Nil(store.FindMessage("missing"))
}

func TestConversationStore_ContactsOf(t *testing.T) {
	req := require.New(t)
	store := NewConversationStore()
	store.Append(storedMessage("m1", "alice", "bob"))
	store.Append(storedMessage("m2", "carol", "alice"))
	store.Append(storedMessage("m3", "bob", "dave"))

	// Contacts are peers sharing a bucket, regardless of who sent first
	req.ElementsMatch([]string{"bob", "carol"}, store.ContactsOf("alice"))
	req.ElementsMatch([]string{"alice", "dave"}, store.ContactsOf("bob"))
	req.Empty(store.ContactsOf("nobody"))
}
