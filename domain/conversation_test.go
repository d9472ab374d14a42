package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeriveConversationID_Symmetric(t *testing.T) {
	req := require.New(t)

	// Given any pair of session identifiers
	// Then derivation is independent of argument order
	req.Equal(DeriveConversationID("alice", "bob"), DeriveConversationID("bob", "alice"))
	req.Equal(DeriveConversationID("B", "A"), DeriveConversationID("A", "B"))
}

func TestDeriveConversationID_Deterministic(t *testing.T) {
	req := require.New(t)

	first := DeriveConversationID("alice", "bob")
	for i := 0; i < 10; i++ {
		req.Equal(first, DeriveConversationID("alice", "bob"))
	}
	// Fixed-length hex digest
	req.Len(string(first), 64)
}

func TestDeriveConversationID_DistinctPairs(t *testing.T) {
	req := require.New(t)
	req.NotEqual(DeriveConversationID("alice", "bob"), DeriveConversationID("alice", "carol"))
}

func TestConversation_AppendPreservesOrder(t *testing.T) {
	req := require.New(t)
	conversation := NewConversation(DeriveConversationID("alice", "bob"))

	first := &Message{ID: "m1", SenderID: "alice", RecipientID: "bob", Content: "hi"}
	second := &Message{ID: "m2", SenderID: "bob", RecipientID: "alice", Content: "hey"}
	conversation.Append(first)
	conversation.Append(second)

	messages := conversation.Messages()
	req.Len(messages, 2)
	req.Equal("m1", messages[0].ID)
	req.Equal("m2", messages[1].ID)
}

func TestConversation_Find(t *testing.T) {
	req := require.New(t)
	conversation := NewConversation("c1")
	conversation.Append(&Message{ID: "m1"})

	req.NotNil(conversation.Find("m1"))
	req.Nil(conversation.Find("missing"))
}

func TestMessage_MarkReadOnce(t *testing.T) {
	req := require.New(t)
	message := &Message{ID: "m1", Status: MessageStatusSent}

	// When marked read twice
	// Then only the first call reports a change
	req.True(message.MarkRead())
	req.False(message.MarkRead())
	req.Equal(MessageStatusRead, message.Status)
}

func TestInvitation_Overdue(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	invitation := NewInvitation("i1", "alice", "Alice", "bob", "join me", nil, now, time.Hour)

	req.True(invitation.Pending())
	req.False(invitation.Overdue(now.Add(30*time.Minute)))
	req.True(invitation.Overdue(now.Add(2*time.Hour)))
}
