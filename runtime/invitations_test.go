package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"relay-lab/domain"
	"relay-lab/errors"
)

func pendingInvitation(id string, createdAt time.Time, ttl time.Duration) *domain.Invitation {
	return domain.NewInvitation(id, "alice", "Alice", "bob", "join me", nil, createdAt, ttl)
}

func TestInvitationStore_PutRejectsDuplicateID(t *testing.T) {
	req := require.New(t)
	store := NewInvitationStore()
	now := time.Now().UTC()

	req.NoError(store.Put(pendingInvitation("i1", now, time.Hour)))
	err := store.Put(pendingInvitation("i1", now, time.Hour))

	req.ErrorIs(err, errors.ErrDuplicateInvitation)
	req.Equal(1, store.Count())
}

func TestInvitationStore_TransitionIsForwardOnly(t *testing.T) {
	req := require.New(t)
	store := NewInvitationStore()
	req.NoError(store.Put(pendingInvitation("i1", time.Now().UTC(), time.Hour)))

	// When the invitation is declined
	declined, err := store.Transition("i1", domain.InvitationStatusDeclined)
	req.NoError(err)
	req.Equal(domain.InvitationStatusDeclined, declined.Status)

	// Then no further transition is possible
	_, err = store.Transition("i1", domain.InvitationStatusAccepted)
	req.ErrorIs(err, errors.ErrInvitationNotPending)
	stored, _ := store.Get("i1")
	req.Equal(domain.InvitationStatusDeclined, stored.Status)
}

func TestInvitationStore_TransitionUnknownID(t *testing.T) {
	req := require.New(t)
	store := NewInvitationStore()

	_, err := store.Transition("missing", domain.InvitationStatusAccepted)

	req.ErrorIs(err, errors.ErrInvitationNotFound)
}

func TestInvitationStore_OverdueSkipsResolvedRecords(t *testing.T) {
	req := require.New(t)
	store := NewInvitationStore()
	past := time.Now().UTC().Add(-2 * time.Hour)

	// Given two overdue invitations, one already accepted
	req.NoError(store.Put(pendingInvitation("stale", past, time.Hour)))
	req.NoError(store.Put(pendingInvitation("resolved", past, time.Hour)))
	_, err := store.Transition("resolved", domain.InvitationStatusAccepted)
	req.NoError(err)
	// And one pending but not yet due
	req.NoError(store.Put(pendingInvitation("fresh", time.Now().UTC(), time.Hour)))

	overdue := store.Overdue(time.Now().UTC())

	req.Len(overdue, 1)
	req.Equal("stale", overdue[0].ID)
	req.Equal(2, store.PendingCount())
}
