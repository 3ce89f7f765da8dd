package types

import "time"

// SessionStatus is the canonical lifecycle state of a chat session.
// Legacy rows may still carry "manual"; ParseSessionStatus folds it into
// StatusEscalated, which is the single human-served state.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusEscalated SessionStatus = "escalated"
	StatusResolved  SessionStatus = "resolved"
)

// ParseSessionStatus normalizes a stored status value.
func ParseSessionStatus(s string) SessionStatus {
	switch s {
	case "escalated", "manual":
		return StatusEscalated
	case "resolved":
		return StatusResolved
	default:
		return StatusActive
	}
}

// HumanServed reports whether a human agent owns the conversation.
// The orchestrator must not compose replies for human-served sessions.
func (s SessionStatus) HumanServed() bool {
	return s == StatusEscalated
}

// Terminal reports whether the conversation is closed.
func (s SessionStatus) Terminal() bool {
	return s == StatusResolved
}

// SenderRole identifies who authored a chat message.
type SenderRole string

const (
	RoleCustomer SenderRole = "customer"
	RoleAI       SenderRole = "ai"
	RoleHuman    SenderRole = "human"
)

type Product struct {
	ID          string
	Name        string
	Category    *string
	Price       *float64
	Description *string
}

type Business struct {
	ID             string
	Name           string
	Description    *string
	Policies       *string
	AIInstructions *string
	Products       []Product
}

type ChatSession struct {
	ID               string
	BusinessID       string
	CustomerName     *string
	CustomerEmail    *string
	Status           SessionStatus
	EscalationReason *string
	CreatedAt        time.Time
}

// ChatMessage rows are append-only; the conversation is the ordered
// sequence of messages for a session.
type ChatMessage struct {
	ID        string
	SessionID string
	Sender    SenderRole
	Content   string
	ImageURL  *string
	CreatedAt time.Time
}

// KnowledgeSnippet is a retrieved chunk of business knowledge used to
// enrich the prompt context. Citation is optional.
type KnowledgeSnippet struct {
	Text     string
	Citation *string
}
