package runtime

import (
	"time"

	"relay-lab/domain"
	"relay-lab/errors"
)

// InvitationStore holds every invitation ever created in this process.
// Records are only mutated forward and never deleted, they stay around for
// audit until process exit.
//
// The store is not safe for concurrent use, all access is serialized by the
// Router's mutex.
type InvitationStore struct {
	invitations map[string]*domain.Invitation
}

func NewInvitationStore() *InvitationStore {
	return &InvitationStore{invitations: make(map[string]*domain.Invitation)}
}

func (s *InvitationStore) Put(invitation *domain.Invitation) error {
	if _, ok := s.invitations[invitation.ID]; ok {
		return errors.ErrDuplicateInvitation
	}
	s.invitations[invitation.ID] = invitation
	return nil
}

func (s *InvitationStore) Get(id string) (*domain.Invitation, bool) {
	invitation, ok := s.invitations[id]
	return invitation, ok
}

// Transition moves a pending invitation to a terminal status.
// A record that already left pending is rejected, transitions never reverse.
func (s *InvitationStore) Transition(id string, status domain.InvitationStatus) (*domain.Invitation, error) {
	invitation, ok := s.invitations[id]
	if !ok {
		return nil, errors.ErrInvitationNotFound
	}
	if !invitation.Pending() {
		return nil, errors.ErrInvitationNotPending
	}
	invitation.Status = status
	return invitation, nil
}

// Overdue returns every still-pending invitation whose expiry has elapsed.
func (s *InvitationStore) Overdue(now time.Time) []*domain.Invitation {
	var out []*domain.Invitation
	for _, invitation := range s.invitations {
		if invitation.Pending() && invitation.Overdue(now) {
			out = append(out, invitation)
		}
	}
	return out
}

func (s *InvitationStore) Count() int {
	return len(s.invitations)
}

func (s *InvitationStore) PendingCount() int {
	count := 0
	for _, invitation := range s.invitations {
		if invitation.Pending() {
			count++
		}
	}
	return count
}
