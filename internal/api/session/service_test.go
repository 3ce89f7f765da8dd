package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Conversly/support-orchestrator/internal/loaders"
	"github.com/Conversly/support-orchestrator/internal/types"
)

type fakeStore struct {
	session    *types.ChatSession
	sessionErr error
	messages   []types.ChatMessage

	statusWrites []types.SessionStatus
	lastReason   *string
}

func (f *fakeStore) GetSession(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeStore) UpdateSessionStatus(ctx context.Context, sessionID string, status types.SessionStatus, reason *string) error {
	f.statusWrites = append(f.statusWrites, status)
	f.lastReason = reason
	return nil
}

func (f *fakeStore) GetMessagesAfter(ctx context.Context, sessionID string, after time.Time) ([]types.ChatMessage, error) {
	var out []types.ChatMessage
	for _, m := range f.messages {
		if m.CreatedAt.After(after) {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestEscalateActiveSession(t *testing.T) {
	store := &fakeStore{session: &types.ChatSession{ID: "s1", Status: types.StatusActive}}
	svc := NewService(store)

	sess, err := svc.Escalate(context.Background(), "s1", "customer asked for a manager")

	assert.NoError(t, err)
	assert.Equal(t, types.StatusEscalated, sess.Status)
	assert.Equal(t, "customer asked for a manager", *sess.EscalationReason)
	assert.Equal(t, []types.SessionStatus{types.StatusEscalated}, store.statusWrites)
}

func TestEscalateRequiresReason(t *testing.T) {
	store := &fakeStore{session: &types.ChatSession{ID: "s1", Status: types.StatusActive}}
	svc := NewService(store)

	_, err := svc.Escalate(context.Background(), "s1", "   ")

	assert.Error(t, err)
	assert.Empty(t, store.statusWrites)
}

func TestEscalateIdempotent(t *testing.T) {
	reason := "original reason"
	store := &fakeStore{session: &types.ChatSession{
		ID:               "s1",
		Status:           types.StatusEscalated,
		EscalationReason: &reason,
	}}
	svc := NewService(store)

	sess, err := svc.Escalate(context.Background(), "s1", "new reason")

	assert.NoError(t, err)
	assert.Equal(t, "original reason", *sess.EscalationReason)
	assert.Empty(t, store.statusWrites, "re-escalation must not overwrite the recorded reason")
}

func TestEscalateResolvedSessionRejected(t *testing.T) {
	store := &fakeStore{session: &types.ChatSession{ID: "s1", Status: types.StatusResolved}}
	svc := NewService(store)

	_, err := svc.Escalate(context.Background(), "s1", "too late")

	assert.Error(t, err)
	assert.Empty(t, store.statusWrites)
}

func TestResolveFromActiveAndEscalated(t *testing.T) {
	for _, from := range []types.SessionStatus{types.StatusActive, types.StatusEscalated} {
		store := &fakeStore{session: &types.ChatSession{ID: "s1", Status: from}}
		svc := NewService(store)

		sess, err := svc.Resolve(context.Background(), "s1")

		assert.NoError(t, err)
		assert.Equal(t, types.StatusResolved, sess.Status)
	}
}

func TestResolveIdempotent(t *testing.T) {
	store := &fakeStore{session: &types.ChatSession{ID: "s1", Status: types.StatusResolved}}
	svc := NewService(store)

	sess, err := svc.Resolve(context.Background(), "s1")

	assert.NoError(t, err)
	assert.Equal(t, types.StatusResolved, sess.Status)
	assert.Empty(t, store.statusWrites)
}

func TestMessagesAfterUnknownSession(t *testing.T) {
	store := &fakeStore{sessionErr: loaders.ErrNotFound}
	svc := NewService(store)

	_, err := svc.MessagesAfter(context.Background(), "missing", time.Time{})

	assert.True(t, errors.Is(err, loaders.ErrNotFound))
}

func TestMessagesAfterFiltersByTime(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		session: &types.ChatSession{ID: "s1", Status: types.StatusActive},
		messages: []types.ChatMessage{
			{ID: "m1", CreatedAt: base},
			{ID: "m2", CreatedAt: base.Add(time.Minute)},
		},
	}
	svc := NewService(store)

	msgs, err := svc.MessagesAfter(context.Background(), "s1", base)

	assert.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "m2", msgs[0].ID)
}
