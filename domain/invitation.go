// Package domain contains core concepts of the relay system.
// This file defines Invitations and their forward-only lifecycle.
package domain

import "time"

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// Invitation is a proposal from one session to another with a bounded
// validity window. Status only moves forward along
// pending -> accepted | declined | expired and never reverses.
// Records are retained in memory until process exit, never deleted.
type Invitation struct {
	ID          string
	SenderID    string
	SenderName  string
	RecipientID string
	Message     string
	Status      InvitationStatus
	Metadata    map[string]any
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func NewInvitation(id, senderID, senderName, recipientID, message string,
	metadata map[string]any, now time.Time, ttl time.Duration) *Invitation {
	return &Invitation{
		ID:          id,
		SenderID:    senderID,
		SenderName:  senderName,
		RecipientID: recipientID,
		Message:     message,
		Status:      InvitationStatusPending,
		Metadata:    metadata,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Pending reports whether the invitation can still transition.
func (i *Invitation) Pending() bool {
	return i.Status == InvitationStatusPending
}

// Overdue reports whether the validity window has elapsed.
func (i *Invitation) Overdue(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
