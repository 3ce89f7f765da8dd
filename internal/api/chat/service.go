package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/core"
	"github.com/Conversly/support-orchestrator/internal/llm"
	"github.com/Conversly/support-orchestrator/internal/notify"
	"github.com/Conversly/support-orchestrator/internal/types"
	"github.com/Conversly/support-orchestrator/internal/utils"
)

// Store is the narrow storage surface the orchestrator consumes.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (*types.ChatSession, error)
	GetBusinessWithProducts(ctx context.Context, businessID string) (*types.Business, error)
	GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error)
	InsertMessage(ctx context.Context, m *types.ChatMessage) error
	UpdateSessionStatus(ctx context.Context, sessionID string, status types.SessionStatus, reason *string) error
}

// Replier produces the first acceptable provider answer, or reports
// exhaustion.
type Replier interface {
	Reply(ctx context.Context, req llm.Request) (string, bool)
}

// SnippetRetriever enriches the prompt with business knowledge. May be nil.
type SnippetRetriever interface {
	Retrieve(ctx context.Context, businessID, query string) ([]types.KnowledgeSnippet, error)
}

// Service sequences one orchestration cycle: session gate, context
// assembly, provider chain, local fallback, escalation decision,
// persistence.
type Service struct {
	store     Store
	chain     Replier
	assembler *core.Assembler
	decider   *core.Decider
	locks     *core.SessionLocks
	retriever SnippetRetriever
	hub       *notify.Hub
}

func NewService(store Store, chain Replier, assembler *core.Assembler, decider *core.Decider, retriever SnippetRetriever, hub *notify.Hub) *Service {
	return &Service{
		store:     store,
		chain:     chain,
		assembler: assembler,
		decider:   decider,
		locks:     core.NewSessionLocks(),
		retriever: retriever,
		hub:       hub,
	}
}

const (
	alreadyEscalatedReason = "Session already escalated to human agent"
	alreadyResolvedReason  = "Session already resolved"
)

// ErrBusinessMismatch reports that the named business does not own the
// session.
var ErrBusinessMismatch = errors.New("session does not belong to the given business")

// Respond runs one cycle. A non-nil error is a System error: the caller
// must assume the session is escalated and not retry the AI path.
func (s *Service) Respond(ctx context.Context, req *Request) (*Response, error) {
	release := s.locks.Lock(req.SessionID)
	defer release()

	// The cycle must survive client disconnects: once the customer's
	// message is accepted, provider calls and writes run to completion
	// under their own timeouts.
	ctx = context.WithoutCancel(ctx)

	session, err := s.store.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.BusinessID != req.BusinessID {
		return nil, fmt.Errorf("session %s: %w", req.SessionID, ErrBusinessMismatch)
	}

	// Session gate: a human owns this conversation. No provider calls,
	// no catalog assembly, no reply.
	if session.Status.HumanServed() {
		return &Response{Response: nil, Escalated: true, Reason: alreadyEscalatedReason}, nil
	}

	// A resolved conversation is closed for good: no reply, and never
	// reopened or escalated by an inbound message.
	if session.Status.Terminal() {
		return &Response{Response: nil, Escalated: false, Reason: alreadyResolvedReason}, nil
	}

	business, err := s.store.GetBusinessWithProducts(ctx, session.BusinessID)
	if err != nil {
		s.escalateOnSystemError(ctx, req.SessionID, err)
		return nil, fmt.Errorf("failed to load business: %w", err)
	}

	// The customer's message is durably recorded before any provider is
	// attempted; a total provider outage degrades to the local fallback,
	// never to data loss.
	customerMsg, err := s.appendMessage(ctx, req.SessionID, types.RoleCustomer, req.Message, optional(req.ImageURL))
	if err != nil {
		s.escalateOnSystemError(ctx, req.SessionID, err)
		return nil, fmt.Errorf("failed to record customer message: %w", err)
	}

	// Fetch one extra row: the message just stored above comes back in
	// this read and is stripped below, and the prompt window must still
	// hold a full HistoryWindow of prior turns.
	history, err := s.store.GetRecentMessages(ctx, req.SessionID, s.assembler.HistoryWindow+1)
	if err != nil {
		// Degrade to an empty window; the cycle can still answer.
		utils.Zlog.Warn("Failed to load conversation history",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		history = nil
	}
	history = excludeMessage(history, customerMsg.ID)

	var snippets []types.KnowledgeSnippet
	if s.retriever != nil {
		snippets, err = s.retriever.Retrieve(ctx, business.ID, req.Message)
		if err != nil {
			utils.Zlog.Debug("Knowledge retrieval failed",
				zap.String("business_id", business.ID),
				zap.Error(err))
			snippets = nil
		}
	}

	promptCtx := s.assembler.Assemble(business, history, req.Message, optional(req.ImageURL), snippets)

	reply, ok := s.chain.Reply(ctx, llm.Request{
		System:  promptCtx.SystemPrompt(),
		History: historyTurns(promptCtx.History),
		Message: req.Message,
	})
	if !ok {
		reply = core.ComposeFallback(promptCtx.Language, business.Name, promptCtx.Catalog)
	}

	decision := s.decider.Decide(core.CycleSignals{Message: req.Message, ChainExhausted: !ok})

	aiMsg, err := s.appendMessage(ctx, req.SessionID, types.RoleAI, reply, nil)
	if err != nil {
		s.escalateOnSystemError(ctx, req.SessionID, err)
		return nil, fmt.Errorf("failed to record reply: %w", err)
	}

	if decision.Escalate {
		if err := s.store.UpdateSessionStatus(ctx, req.SessionID, types.StatusEscalated, &decision.Reason); err != nil {
			return nil, fmt.Errorf("failed to escalate session: %w", err)
		}
		utils.Zlog.Info("Session escalated",
			zap.String("session_id", req.SessionID),
			zap.String("reason", decision.Reason))
	}

	s.publish(customerMsg)
	s.publish(aiMsg)

	return &Response{
		MessageID: aiMsg.ID,
		Response:  &reply,
		Escalated: decision.Escalate,
		Reason:    decision.Reason,
	}, nil
}

func (s *Service) appendMessage(ctx context.Context, sessionID string, role types.SenderRole, content string, imageURL *string) (*types.ChatMessage, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}
	msg := &types.ChatMessage{
		ID:        id.String(),
		SessionID: sessionID,
		Sender:    role,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// escalateOnSystemError is the safety default: when a cycle dies on a
// storage fault, the session is flipped to human-served best-effort so
// no customer message goes unanswered indefinitely.
func (s *Service) escalateOnSystemError(ctx context.Context, sessionID string, cause error) {
	reason := "System error: " + cause.Error()
	if err := s.store.UpdateSessionStatus(ctx, sessionID, types.StatusEscalated, &reason); err != nil {
		utils.Zlog.Error("Failed to escalate session after system error",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func (s *Service) publish(msg *types.ChatMessage) {
	if s.hub != nil && msg != nil {
		s.hub.Publish(*msg)
	}
}

func historyTurns(history []types.ChatMessage) []llm.Turn {
	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Sender == types.RoleAI {
			role = "assistant"
		}
		turns = append(turns, llm.Turn{Role: role, Content: m.Content})
	}
	return turns
}

// excludeMessage drops the just-inserted customer message from the
// history window so it is not duplicated in the prompt.
func excludeMessage(history []types.ChatMessage, id string) []types.ChatMessage {
	out := history[:0]
	for _, m := range history {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
