// Package protocol defines the wire contract: every inbound and outbound
// frame is a JSON object carrying a type string and a data object.
package protocol

import "encoding/json"

// Inbound frame types.
const (
	TypeAuth              = "auth"
	TypeInvitationSend    = "invitation_send"
	TypeInvitationAccept  = "invitation_accept"
	TypeInvitationDecline = "invitation_decline"
	TypeMessageSend       = "message_send"
	TypeTypingIndicator   = "typing_indicator"
	TypeMessageRead       = "message_read"
	TypePing              = "ping"
)

// Outbound frame types.
const (
	TypePong               = "pong"
	TypeError              = "error"
	TypeInvitationReceived = "invitation_received"
	TypeInvitationResponse = "invitation_response"
	TypeMessageReceived    = "message_received"
	TypeMessageStatus      = "message_status"
	TypeContactOnline      = "contact_online"
	TypeContactOffline     = "contact_offline"
)

// Frame is the envelope exchanged over the persistent connection.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode parses a raw inbound frame.
func Decode(raw []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(raw, &f)
	return f, err
}

// NewFrame builds an outbound frame, marshalling the payload into data.
// A payload that cannot be marshalled is a programming error, the frame is
// returned with empty data so delivery stays fire-and-forget.
func NewFrame(frameType string, payload any) Frame {
	if payload == nil {
		return Frame{Type: frameType}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{Type: frameType}
	}
	return Frame{Type: frameType, Data: data}
}
