// Package runtime owns the connection registry, the in-memory stores and the
// message router. It routes frames without containing transport logic.
package runtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/go-playground/validator/v10"

	"relay-lab/contract"
	"relay-lab/domain"
	"relay-lab/domain/event"
	"relay-lab/errors"
	"relay-lab/moderation"
	"relay-lab/protocol"
)

// Conn is the router-side view of one live connection. A connection starts
// unauthenticated, gains a session identifier on its first valid auth frame
// and keeps it until the transport reports the close.
type Conn struct {
	sink      contract.FrameSink
	sessionID string
}

func NewConn(sink contract.FrameSink) *Conn {
	return &Conn{sink: sink}
}

func (c *Conn) SessionID() string {
	return c.sessionID
}

func (c *Conn) Authenticated() bool {
	return c.sessionID != ""
}

// Router dispatches inbound frames to per-type handlers, mutates the stores
// and pushes outbound frames through the registry.
//
// Every handler runs under one mutex, the stores are therefore never mutated
// concurrently and need no locking of their own. Handlers run to completion
// one at a time regardless of how many connections feed frames in.
type Router struct {
	mu            sync.Mutex
	log           *slog.Logger
	registry      contract.IRegistry
	invitations   *InvitationStore
	conversations *ConversationStore
	validate      *validator.Validate
	moderator     *moderation.Moderator
	invitationTTL time.Duration
	archive       chan event.DomainEvent
}

func NewRouter(log *slog.Logger, registry contract.IRegistry,
	moderator *moderation.Moderator, invitationTTL time.Duration,
	archiveBufferSize int) *Router {
	return &Router{
		log:           log,
		registry:      registry,
		invitations:   NewInvitationStore(),
		conversations: NewConversationStore(),
		validate:      validator.New(),
		moderator:     moderator,
		invitationTTL: invitationTTL,
		archive:       make(chan event.DomainEvent, archiveBufferSize),
	}
}

// Archive exposes the routed-event channel consumed by the archive worker.
func (r *Router) Archive() <-chan event.DomainEvent {
	return r.archive
}

// HandleFrame processes one raw inbound frame from a connection.
// A frame that fails to parse yields a single error frame back to the caller
// and nothing else, the connection stays open and usable.
func (r *Router) HandleFrame(conn *Conn, raw []byte) {
	frame, err := protocol.Decode(raw)
	if err != nil || frame.Type == "" {
		r.log.Warn("Malformed inbound frame", "session_id", conn.sessionID, "error", err)
		r.sendError(conn, errors.ErrMalformedFrame.Error())
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch frame.Type {
	case protocol.TypeAuth:
		r.handleAuth(conn, frame.Data)
	case protocol.TypeInvitationSend:
		r.handleInvitationSend(conn, frame.Data)
	case protocol.TypeInvitationAccept:
		r.handleInvitationAction(conn, frame.Data, domain.InvitationStatusAccepted)
	case protocol.TypeInvitationDecline:
		r.handleInvitationAction(conn, frame.Data, domain.InvitationStatusDeclined)
	case protocol.TypeMessageSend:
		r.handleMessageSend(conn, frame.Data)
	case protocol.TypeTypingIndicator:
		r.handleTypingIndicator(conn, frame.Data)
	case protocol.TypeMessageRead:
		r.handleMessageRead(conn, frame.Data)
	case protocol.TypePing:
		conn.sink.Deliver(protocol.NewFrame(protocol.TypePong, protocol.PongPayload{At: time.Now().UTC()}))
	default:
		r.log.Info("Unrecognized frame type dropped", "type", frame.Type, "session_id", conn.sessionID)
	}
}

// HandleDisconnect removes the connection's registry entry (guarded against
// stale closes) and fans a contact_offline notice out to every session that
// shares a conversation with it.
func (r *Router) HandleDisconnect(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !conn.Authenticated() {
		return
	}
	removed := r.registry.Unregister(conn.sessionID, conn.sink)
	if !removed {
		r.log.Debug("Stale close ignored, session re-registered elsewhere", "session_id", conn.sessionID)
		return
	}
	contacts := r.conversations.ContactsOf(conn.sessionID)
	r.registry.FanOut(contacts, protocol.NewFrame(protocol.TypeContactOffline,
		protocol.PresencePayload{SessionID: conn.sessionID}))
	r.log.Info("Session disconnected", "session_id", conn.sessionID, "contacts_notified", len(contacts))
}

// ExpireOverdue transitions every overdue pending invitation to expired and
// notifies both parties. Called periodically by the sweeper worker.
// It returns the number of invitations expired on this sweep.
func (r *Router) ExpireOverdue(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	overdue := r.invitations.Overdue(now)
	for _, invitation := range overdue {
		if _, err := r.invitations.Transition(invitation.ID, domain.InvitationStatusExpired); err != nil {
			continue
		}
		response := protocol.NewFrame(protocol.TypeInvitationResponse, protocol.InvitationResponsePayload{
			InvitationID: invitation.ID,
			Status:       string(domain.InvitationStatusExpired),
		})
		r.registry.Send(invitation.SenderID, response)
		r.registry.Send(invitation.RecipientID, response)
		r.emit(event.InvitationExpired{
			InvitationID: invitation.ID,
			SenderID:     invitation.SenderID,
			RecipientID:  invitation.RecipientID,
			At:           now,
		})
		r.log.Info("Invitation expired", "invitation_id", invitation.ID)
	}
	return len(overdue)
}

// Snapshot reports live counts for the read-only health/stat surface.
type Snapshot struct {
	OpenConnections    int
	Invitations        int
	PendingInvitations int
	Conversations      int
	ActiveSessions     []string
}

func (r *Router) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		OpenConnections:    r.registry.Count(),
		Invitations:        r.invitations.Count(),
		PendingInvitations: r.invitations.PendingCount(),
		Conversations:      r.conversations.Count(),
		ActiveSessions:     r.registry.ActiveSessions(),
	}
}

func (r *Router) handleAuth(conn *Conn, data json.RawMessage) {
	var payload protocol.AuthPayload
	if !r.decode(conn, data, &payload) {
		return
	}
	if conn.Authenticated() {
		r.log.Warn("Duplicate auth ignored", "session_id", conn.sessionID)
		return
	}
	conn.sessionID = payload.SessionID
	r.registry.Register(payload.SessionID, conn.sink)

	contacts := r.conversations.ContactsOf(payload.SessionID)
	r.registry.FanOut(contacts, protocol.NewFrame(protocol.TypeContactOnline,
		protocol.PresencePayload{SessionID: payload.SessionID}))
	r.log.Info("Session authenticated", "session_id", payload.SessionID, "contacts_notified", len(contacts))
}

func (r *Router) handleInvitationSend(conn *Conn, data json.RawMessage) {
	var payload protocol.InvitationSendPayload
	if !r.decode(conn, data, &payload) {
		return
	}
	invitation := domain.NewInvitation(payload.ID, payload.SenderID, payload.SenderName,
		payload.RecipientID, payload.Message, payload.Metadata, time.Now().UTC(), r.invitationTTL)
	if err := r.invitations.Put(invitation); err != nil {
		r.sendError(conn, err.Error())
		return
	}
	delivered := r.registry.Send(payload.RecipientID, protocol.NewFrame(protocol.TypeInvitationReceived,
		protocol.InvitationReceivedPayload{
			ID:         invitation.ID,
			SenderID:   invitation.SenderID,
			SenderName: invitation.SenderName,
			Message:    invitation.Message,
			Metadata:   invitation.Metadata,
			ExpiresAt:  invitation.ExpiresAt,
		}))
	r.log.Info("Invitation sent", "invitation_id", invitation.ID,
		"sender_id", invitation.SenderID, "recipient_id", invitation.RecipientID,
		"delivered", delivered)
}

func (r *Router) handleInvitationAction(conn *Conn, data json.RawMessage, status domain.InvitationStatus) {
	var payload protocol.InvitationActionPayload
	if !r.decode(conn, data, &payload) {
		return
	}
	invitation, err := r.invitations.Transition(payload.InvitationID, status)
	if err != nil {
		r.sendError(conn, err.Error())
		return
	}
	r.registry.Send(invitation.SenderID, protocol.NewFrame(protocol.TypeInvitationResponse,
		protocol.InvitationResponsePayload{
			InvitationID: invitation.ID,
			Status:       string(status),
		}))
	r.log.Info("Invitation resolved", "invitation_id", invitation.ID, "status", status)
}

func (r *Router) handleMessageSend(conn *Conn, data json.RawMessage) {
	var payload protocol.MessageSendPayload
	if !r.decode(conn, data, &payload) {
		return
	}
	content := payload.Content
	if r.moderator != nil {
		content = r.moderator.Censor(content)
	}
	info := whatlanggo.Detect(content)

	message := &domain.Message{
		ID:          payload.ID,
		SenderID:    payload.SenderID,
		RecipientID: payload.RecipientID,
		Content:     content,
		Type:        payload.Type,
		Status:      domain.MessageStatusSent,
		Outbound:    true,
		ReplyTo:     payload.ReplyTo,
		Mentions:    payload.Mentions,
		Language:    info.Lang.Iso6391(),
		Metadata:    payload.Metadata,
		CreatedAt:   time.Now().UTC(),
	}
	if message.Type == "" {
		message.Type = domain.DefaultMessageType
	}
	conversationID := r.conversations.Append(message)

	// The sender never gets an echo, delivery happens only through the
	// recipient's connection.
	delivered := r.registry.Send(payload.RecipientID, protocol.NewFrame(protocol.TypeMessageReceived,
		protocol.MessageReceivedPayload{
			ID:        message.ID,
			SenderID:  message.SenderID,
			Content:   message.Content,
			Type:      message.Type,
			ReplyTo:   message.ReplyTo,
			Mentions:  message.Mentions,
			Metadata:  message.Metadata,
			CreatedAt: message.CreatedAt,
		}))
	r.emit(event.MessageRouted{
		ID:             message.ID,
		ConversationID: conversationID,
		SenderID:       message.SenderID,
		RecipientID:    message.RecipientID,
		Content:        message.Content,
		Language:       message.Language,
		At:             message.CreatedAt,
	})
	r.log.Info("Message routed", "message_id", message.ID,
		"conversation_id", conversationID, "lang", message.Language, "delivered", delivered)
}

func (r *Router) handleTypingIndicator(conn *Conn, data json.RawMessage) {
	var payload protocol.TypingIndicatorPayload
	if !r.decode(conn, data, &payload) {
		return
	}
	// Nothing is stored, the flag is forwarded as-is with the caller's
	// session identifier attached.
	r.registry.Send(payload.RecipientID, protocol.NewFrame(protocol.TypeTypingIndicator,
		protocol.TypingIndicatorNotice{
			SessionID: conn.sessionID,
			IsTyping:  *payload.IsTyping,
		}))
}

func (r *Router) handleMessageRead(conn *Conn, data json.RawMessage) {
	var payload protocol.MessageReadPayload
	if !r.decode(conn, data, &payload) {
		return
	}
	message := r.conversations.FindMessage(payload.MessageID)
	if message == nil {
		// Unknown message identifiers are absorbed silently, unlike the
		// invitation handlers. Callers polling for a status event will
		// simply never see one.
		r.log.Debug("Read acknowledgment for unknown message", "message_id", payload.MessageID)
		return
	}
	if !message.MarkRead() {
		return
	}
	r.registry.Send(message.SenderID, protocol.NewFrame(protocol.TypeMessageStatus,
		protocol.MessageStatusPayload{
			MessageID: message.ID,
			Status:    string(domain.MessageStatusRead),
		}))
	r.log.Info("Message marked read", "message_id", message.ID, "sender_id", message.SenderID)
}

// decode unmarshals and validates an inbound payload. On failure it answers
// with a single error frame and reports false.
func (r *Router) decode(conn *Conn, data json.RawMessage, payload any) bool {
	if err := json.Unmarshal(data, payload); err != nil {
		r.sendError(conn, errors.ErrMalformedFrame.Error())
		return false
	}
	if err := r.validate.Struct(payload); err != nil {
		r.sendError(conn, fmt.Sprintf("invalid payload: %v", err))
		return false
	}
	return true
}

func (r *Router) sendError(conn *Conn, message string) {
	conn.sink.Deliver(protocol.NewFrame(protocol.TypeError, protocol.ErrorPayload{Message: message}))
}

// emit hands a routed event to the archive pipeline. Best effort, a full
// buffer drops the event rather than blocking a handler.
func (r *Router) emit(e event.DomainEvent) {
	select {
	case r.archive <- e:
	default:
		r.log.Debug("Archive buffer full, event lost")
	}
}
