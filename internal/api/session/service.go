package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Conversly/support-orchestrator/internal/core"
	"github.com/Conversly/support-orchestrator/internal/types"
)

// Store is the storage surface for agent-side session actions.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (*types.ChatSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID string, status types.SessionStatus, reason *string) error
	GetMessagesAfter(ctx context.Context, sessionID string, after time.Time) ([]types.ChatMessage, error)
}

// Service applies agent-driven transitions (escalate, resolve) and serves
// the polling message feed. Transitions obey the same monotone state
// machine as the orchestrator.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Escalate transfers a session to human-served with a recorded reason.
func (s *Service) Escalate(ctx context.Context, sessionID, reason string) (*types.ChatSession, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("escalation reason must not be empty")
	}

	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Status == types.StatusEscalated {
		// Already human-served; keep the original reason.
		return sess, nil
	}
	if !core.CanTransition(sess.Status, types.StatusEscalated) {
		return nil, fmt.Errorf("cannot escalate session in status %q", sess.Status)
	}

	if err := s.store.UpdateSessionStatus(ctx, sessionID, types.StatusEscalated, &reason); err != nil {
		return nil, err
	}

	sess.Status = types.StatusEscalated
	sess.EscalationReason = &reason
	return sess, nil
}

// Resolve closes a conversation. Idempotent for already-resolved sessions.
func (s *Service) Resolve(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Status == types.StatusResolved {
		return sess, nil
	}
	if !core.CanTransition(sess.Status, types.StatusResolved) {
		return nil, fmt.Errorf("cannot resolve session in status %q", sess.Status)
	}

	if err := s.store.UpdateSessionStatus(ctx, sessionID, types.StatusResolved, nil); err != nil {
		return nil, err
	}

	sess.Status = types.StatusResolved
	return sess, nil
}

// MessagesAfter returns the ordered message log after the given instant.
// A zero time returns the full log.
func (s *Service) MessagesAfter(ctx context.Context, sessionID string, after time.Time) ([]types.ChatMessage, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.store.GetMessagesAfter(ctx, sessionID, after)
}
