package chat

// Request is the orchestration entry point contract. One request is one
// inbound customer message and triggers exactly one orchestration cycle.
// BusinessID must name the business that owns the session; a mismatch is
// rejected before any work happens.
type Request struct {
	SessionID  string `json:"sessionId" binding:"required"`
	BusinessID string `json:"businessId" binding:"required"`
	Message    string `json:"message" binding:"required"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// Response is the single external result shape. Response is null when the
// session was already human-served or resolved; Reason explains any
// escalation or early return.
type Response struct {
	RequestID string  `json:"request_id,omitempty"`
	MessageID string  `json:"message_id,omitempty"`
	Response  *string `json:"response"`
	Escalated bool    `json:"escalated"`
	Reason    string  `json:"reason,omitempty"`
}
