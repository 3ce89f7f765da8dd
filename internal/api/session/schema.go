package session

import "time"

// EscalateRequest records a manual takeover. Reason is mandatory: the
// operator dashboard surfaces it.
type EscalateRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type StatusResponse struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessagesResponse struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
}
