package protocol

import "time"

// Inbound payloads. Validation tags encode the required fields of each
// event type, a failed validation is answered with a single error frame.

type AuthPayload struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type InvitationSendPayload struct {
	ID          string         `json:"id" validate:"required"`
	SenderID    string         `json:"senderId" validate:"required"`
	SenderName  string         `json:"senderName"`
	RecipientID string         `json:"recipientId" validate:"required"`
	Message     string         `json:"message" validate:"required"`
	Metadata    map[string]any `json:"metadata"`
}

type InvitationActionPayload struct {
	InvitationID string `json:"invitationId" validate:"required"`
}

type MessageSendPayload struct {
	ID          string         `json:"id" validate:"required"`
	SenderID    string         `json:"senderId" validate:"required"`
	RecipientID string         `json:"recipientId" validate:"required"`
	Content     string         `json:"content" validate:"required"`
	Type        string         `json:"type"`
	ReplyTo     string         `json:"replyTo"`
	Mentions    []string       `json:"mentions"`
	Metadata    map[string]any `json:"metadata"`
}

type TypingIndicatorPayload struct {
	RecipientID string `json:"recipientId" validate:"required"`
	IsTyping    *bool  `json:"isTyping" validate:"required"`
}

type MessageReadPayload struct {
	MessageID string `json:"messageId" validate:"required"`
}

// Outbound payloads.

type ErrorPayload struct {
	Message string `json:"message"`
}

type PongPayload struct {
	At time.Time `json:"at"`
}

type InvitationReceivedPayload struct {
	ID         string         `json:"id"`
	SenderID   string         `json:"senderId"`
	SenderName string         `json:"senderName"`
	Message    string         `json:"message"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	ExpiresAt  time.Time      `json:"expiresAt"`
}

type InvitationResponsePayload struct {
	InvitationID string `json:"invitationId"`
	Status       string `json:"status"`
}

type MessageReceivedPayload struct {
	ID        string         `json:"id"`
	SenderID  string         `json:"senderId"`
	Content   string         `json:"content"`
	Type      string         `json:"type"`
	ReplyTo   string         `json:"replyTo,omitempty"`
	Mentions  []string       `json:"mentions,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type MessageStatusPayload struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

type TypingIndicatorNotice struct {
	SessionID string `json:"sessionId"`
	IsTyping  bool   `json:"isTyping"`
}

type PresencePayload struct {
	SessionID string `json:"sessionId"`
}
