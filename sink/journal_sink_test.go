package sink

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"relay-lab/domain"
	"relay-lab/domain/event"
	"relay-lab/mocks"
	"relay-lab/repositories"
)

func TestJournalSink_StoresRoutedMessages(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	journalMock := mocks.NewMockIJournal(ctrl)

	conversationID := domain.DeriveConversationID("alice", "bob")
	at := time.Now().UTC()
	evt := event.MessageRouted{
		ID:             "m1",
		ConversationID: conversationID,
		SenderID:       "alice",
		RecipientID:    "bob",
		Content:        "hi",
		Language:       "en",
		At:             at,
	}

	journalMock.EXPECT().StoreMessage(repositories.JournalMessage{
		ID:             "m1",
		ConversationID: conversationID,
		SenderID:       "alice",
		RecipientID:    "bob",
		Content:        "hi",
		Language:       "en",
		At:             at,
	}).Return(nil).Times(1)

	journalSink := NewJournalSink(journalMock, slog.Default())

	req.NoError(journalSink.Consume(context.Background(), evt))
}

func TestJournalSink_IgnoresOtherEvents(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	journalMock := mocks.NewMockIJournal(ctrl)
	// No StoreMessage expected

	journalSink := NewJournalSink(journalMock, slog.Default())

	err := journalSink.Consume(context.Background(), event.InvitationExpired{
		InvitationID: "i1",
		SenderID:     "alice",
		RecipientID:  "bob",
		At:           time.Now().UTC(),
	})

	req.NoError(err)
}

func TestTimeline_ProjectsRoutedMessages(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	at := time.Now().UTC()

	req.NoError(timeline.Consume(context.Background(), event.MessageRouted{
		ID:          "m1",
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     "hi",
		At:          at,
	}))
	req.NoError(timeline.Consume(context.Background(), event.InvitationExpired{InvitationID: "i1"}))

	req.Len(timeline.Messages, 1)
	req.Equal("m1", timeline.Messages[0].ID)
	req.Equal(domain.MessageStatusSent, timeline.Messages[0].Status)
}
