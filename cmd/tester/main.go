// Command tester is an interactive WebSocket client for exercising the relay
// by hand: it authenticates, sends invitations and messages, and prints every
// inbound frame.
//
// Usage:
//
//	auth <sessionId>
//	invite <recipientId> <message...>
//	accept <invitationId>
//	decline <invitationId>
//	msg <recipientId> <content...>
//	typing <recipientId> <true|false>
//	read <messageId>
//	ping
//	stats
//	quit
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"

	"relay-lab/protocol"
)

type Config struct {
	RelayAddr string `envconfig:"RELAY_ADDR" default:"localhost:8080"`
	SessionID string `envconfig:"SESSION_ID"`
	// TESTER_COLOURS enables colorized output for better readability
	Colours bool `envconfig:"TESTER_COLOURS" default:"true"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("tester", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	wsURL := url.URL{Scheme: "ws", Host: cfg.RelayAddr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	fmt.Printf("Connected to %s (session %s)\n", cfg.RelayAddr, sessionID)

	go readLoop(conn, cfg.Colours)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}
		if line == "stats" {
			printStats(cfg.RelayAddr)
			continue
		}
		frame, err := buildFrame(sessionID, line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if err := conn.WriteJSON(frame); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			return
		}
	}
}

func buildFrame(sessionID, line string) (protocol.Frame, error) {
	parts := strings.Fields(line)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "auth":
		id := sessionID
		if len(args) > 0 {
			id = args[0]
		}
		return protocol.NewFrame(protocol.TypeAuth, protocol.AuthPayload{SessionID: id}), nil
	case "invite":
		if len(args) < 2 {
			return protocol.Frame{}, fmt.Errorf("usage: invite <recipientId> <message...>")
		}
		return protocol.NewFrame(protocol.TypeInvitationSend, protocol.InvitationSendPayload{
			ID:          uuid.NewString(),
			SenderID:    sessionID,
			SenderName:  sessionID,
			RecipientID: args[0],
			Message:     strings.Join(args[1:], " "),
		}), nil
	case "accept", "decline":
		if len(args) != 1 {
			return protocol.Frame{}, fmt.Errorf("usage: %s <invitationId>", cmd)
		}
		frameType := protocol.TypeInvitationAccept
		if cmd == "decline" {
			frameType = protocol.TypeInvitationDecline
		}
		return protocol.NewFrame(frameType, protocol.InvitationActionPayload{InvitationID: args[0]}), nil
	case "msg":
		if len(args) < 2 {
			return protocol.Frame{}, fmt.Errorf("usage: msg <recipientId> <content...>")
		}
		return protocol.NewFrame(protocol.TypeMessageSend, protocol.MessageSendPayload{
			ID:          uuid.NewString(),
			SenderID:    sessionID,
			RecipientID: args[0],
			Content:     strings.Join(args[1:], " "),
		}), nil
	case "typing":
		if len(args) != 2 {
			return protocol.Frame{}, fmt.Errorf("usage: typing <recipientId> <true|false>")
		}
		isTyping := args[1] == "true"
		return protocol.NewFrame(protocol.TypeTypingIndicator, protocol.TypingIndicatorPayload{
			RecipientID: args[0],
			IsTyping:    &isTyping,
		}), nil
	case "read":
		if len(args) != 1 {
			return protocol.Frame{}, fmt.Errorf("usage: read <messageId>")
		}
		return protocol.NewFrame(protocol.TypeMessageRead, protocol.MessageReadPayload{MessageID: args[0]}), nil
	case "ping":
		return protocol.NewFrame(protocol.TypePing, nil), nil
	default:
		return protocol.Frame{}, fmt.Errorf("unknown command %q", cmd)
	}
}

func readLoop(conn *websocket.Conn, colours bool) {
	for {
		var frame protocol.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			fmt.Println("connection closed")
			os.Exit(0)
		}
		line := fmt.Sprintf("<- %s %s", frame.Type, string(frame.Data))
		if !colours {
			fmt.Println(line)
			continue
		}
		switch frame.Type {
		case protocol.TypeError:
			color.Red.Println(line)
		case protocol.TypeMessageReceived, protocol.TypeInvitationReceived:
			color.Green.Println(line)
		case protocol.TypeContactOnline, protocol.TypeContactOffline, protocol.TypeTypingIndicator:
			color.Yellow.Println(line)
		default:
			color.Gray.Println(line)
		}
	}
}

// printStats fetches the relay's stat surface and renders it as a table.
func printStats(addr string) {
	resp, err := http.Get(fmt.Sprintf("http://%s/stats", addr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "stats failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var stats map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		fmt.Fprintf(os.Stderr, "stats decode failed: %v\n", err)
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Stat", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for key, value := range stats {
		table.Append([]string{key, fmt.Sprintf("%v", value)})
	}
	table.Render()
}
