package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"

	"relay-lab/domain"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewIndex(writer, slog.Default())
}

func TestIndex_SearchByContent(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	conversationID := domain.DeriveConversationID("alice", "bob")
	at := time.Now().UTC().Truncate(time.Second)

	req.NoError(index.IndexMessage("m1", conversationID, "alice", "the badger crossed the road", at))
	req.NoError(index.IndexMessage("m2", conversationID, "bob", "nothing to see here", at))

	hits, err := index.Search(context.Background(), "badger", 10)

	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("m1", hits[0].MessageID)
	req.Equal(string(conversationID), hits[0].ConversationID)
	req.Equal("alice", hits[0].SenderID)
	req.Equal("the badger crossed the road", hits[0].Content)
	req.True(hits[0].At.Equal(at))
}

func TestIndex_UpdateReplacesDocument(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	conversationID := domain.DeriveConversationID("alice", "bob")
	at := time.Now().UTC()

	// Given the same identifier indexed twice with different content
	req.NoError(index.IndexMessage("m1", conversationID, "alice", "original wording", at))
	req.NoError(index.IndexMessage("m1", conversationID, "alice", "revised wording", at))

	// Then only the latest version matches
	hits, err := index.Search(context.Background(), "revised", 10)
	req.NoError(err)
	req.Len(hits, 1)

	stale, err := index.Search(context.Background(), "original", 10)
	req.NoError(err)
	req.Empty(stale)
}

func TestIndex_NoMatches(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	hits, err := index.Search(context.Background(), "unicorn", 10)

	req.NoError(err)
	req.Empty(hits)
}
