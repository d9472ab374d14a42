package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"relay-lab/domain"
	"relay-lab/infrastructure/ws"
	"relay-lab/protocol"
	"relay-lab/repositories"
	"relay-lab/runtime"
	"relay-lab/runtime/workers"
	"relay-lab/search"
	"relay-lab/sink"
)

// dialClient connects one WebSocket client and authenticates it.
func dialClient(t *testing.T, serverURL, sessionID string) *websocket.Conn {
	t.Helper()
	req := require.New(t)
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	req.NoError(err)
	t.Cleanup(func() { _ = conn.Close() })

	err = conn.WriteJSON(protocol.NewFrame(protocol.TypeAuth, protocol.AuthPayload{SessionID: sessionID}))
	req.NoError(err)
	return conn
}

// readFrameOfType drains inbound frames (skipping keep-alives) until one of
// the wanted type arrives or the deadline hits.
func readFrameOfType(t *testing.T, conn *websocket.Conn, frameType string) protocol.Frame {
	t.Helper()
	req := require.New(t)
	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		var frame protocol.Frame
		req.NoError(conn.ReadJSON(&frame))
		if frame.Type == frameType {
			return frame
		}
	}
}

func Test_Scenario(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	req.NoError(err)

	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)

	// 1. Wire the full relay: registry, router, journal, index, workers
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, nil, time.Hour, 64)
	journal := repositories.NewJournal(db, log, lo.ToPtr(100))
	index := search.NewIndex(writer, log)

	archiveWorker := workers.NewArchiveWorker(log, router.Archive(), 2*time.Second,
		sink.NewJournalSink(journal, log),
		sink.NewIndexSink(index))
	sweeper := workers.NewSweeperWorker(router, time.Minute, log)

	ctx, cancel := context.WithCancel(context.Background())
	supervisor := workers.NewSupervisor(log, 200*time.Millisecond)
	go supervisor.Add(archiveWorker, sweeper).Run(ctx)

	server := ws.NewServer(log, router, journal, index, time.Minute, 16)
	testServer := httptest.NewServer(server.Engine())

	t.Cleanup(func() {
		testServer.Close()
		cancel()
		_ = writer.Close()
		_ = db.Close()
	})

	// 2. Two authenticated clients
	alice := dialClient(t, testServer.URL, "alice")
	bob := dialClient(t, testServer.URL, "bob")

	// 3. Alice invites Bob, Bob accepts
	err = alice.WriteJSON(protocol.NewFrame(protocol.TypeInvitationSend, protocol.InvitationSendPayload{
		ID:          "i1",
		SenderID:    "alice",
		SenderName:  "Alice",
		RecipientID: "bob",
		Message:     "join me",
	}))
	req.NoError(err)

	invitationFrame := readFrameOfType(t, bob, protocol.TypeInvitationReceived)
	var invitation protocol.InvitationReceivedPayload
	req.NoError(json.Unmarshal(invitationFrame.Data, &invitation))
	req.Equal("i1", invitation.ID)

	err = bob.WriteJSON(protocol.NewFrame(protocol.TypeInvitationAccept,
		protocol.InvitationActionPayload{InvitationID: "i1"}))
	req.NoError(err)

	responseFrame := readFrameOfType(t, alice, protocol.TypeInvitationResponse)
	var response protocol.InvitationResponsePayload
	req.NoError(json.Unmarshal(responseFrame.Data, &response))
	req.Equal(string(domain.InvitationStatusAccepted), response.Status)

	// 4. Alice messages Bob
	content := "this message will self destruct in 5 seconds"
	err = alice.WriteJSON(protocol.NewFrame(protocol.TypeMessageSend, protocol.MessageSendPayload{
		ID:          "m1",
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     content,
	}))
	req.NoError(err)

	messageFrame := readFrameOfType(t, bob, protocol.TypeMessageReceived)
	var message protocol.MessageReceivedPayload
	req.NoError(json.Unmarshal(messageFrame.Data, &message))
	req.Equal(content, message.Content)

	// 5. Bob marks it read, Alice sees the status
	err = bob.WriteJSON(protocol.NewFrame(protocol.TypeMessageRead,
		protocol.MessageReadPayload{MessageID: "m1"}))
	req.NoError(err)

	statusFrame := readFrameOfType(t, alice, protocol.TypeMessageStatus)
	var status protocol.MessageStatusPayload
	req.NoError(json.Unmarshal(statusFrame.Data, &status))
	req.Equal("m1", status.MessageID)

	// 6. The archive pipeline eventually journals the message
	req.Eventually(func() bool {
		count, countErr := journal.CountMessages()
		return countErr == nil && count == 1
	}, 2*time.Second, 20*time.Millisecond, "message never reached the journal")

	// And the search index can find it
	req.Eventually(func() bool {
		hits, searchErr := index.Search(context.Background(), "destruct", 10)
		return searchErr == nil && len(hits) == 1
	}, 2*time.Second, 20*time.Millisecond, "message never reached the index")

	// 7. The stat surface reflects the live state
	resp, err := http.Get(fmt.Sprintf("%s/stats", testServer.URL))
	req.NoError(err)
	defer resp.Body.Close()
	var stats map[string]any
	req.NoError(json.NewDecoder(resp.Body).Decode(&stats))
	req.Equal(float64(2), stats["openConnections"])
	req.Equal(float64(1), stats["conversations"])

	// 8. Bob drops, Alice is told her contact went offline
	req.NoError(bob.Close())
	offlineFrame := readFrameOfType(t, alice, protocol.TypeContactOffline)
	var presence protocol.PresencePayload
	req.NoError(json.Unmarshal(offlineFrame.Data, &presence))
	req.Equal("bob", presence.SessionID)
}
