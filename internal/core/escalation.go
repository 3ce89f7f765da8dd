package core

import (
	"fmt"
	"strings"

	"github.com/Conversly/support-orchestrator/internal/types"
)

// validTransitions encodes the session lifecycle. Human takeover is
// monotone: nothing here leads from escalated or resolved back to active.
var validTransitions = map[types.SessionStatus][]types.SessionStatus{
	types.StatusActive:    {types.StatusEscalated, types.StatusResolved},
	types.StatusEscalated: {types.StatusResolved},
}

// CanTransition reports whether a status change is allowed.
func CanTransition(from, to types.SessionStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Phrases that signal an explicit request for a human agent, across the
// supported language set.
var humanRequestPhrases = []string{
	"talk to a human",
	"talk to a person",
	"speak to a human",
	"speak to someone",
	"real person",
	"human agent",
	"live agent",
	"customer service rep",
	"hablar con un humano",
	"hablar con una persona",
	"quiero un agente",
	"una persona real",
}

// Single words checked against whole tokens, not substrings, so e.g.
// "urgent" never matches "agent".
var humanRequestWords = []string{
	"human", "agent", "representative", "agente", "humano",
}

// CycleSignals are the inputs the decider inspects: signals from the
// current orchestration cycle only, never a scan of full history.
type CycleSignals struct {
	Message        string
	ChainExhausted bool
}

// Decision is the decider's verdict. Reason is non-empty iff Escalate.
type Decision struct {
	Escalate bool
	Reason   string
}

// Decider flips sessions to human-served when the conversation asks for
// it or a business policy trigger fires.
type Decider struct {
	policyTriggers []string
}

func NewDecider(policyTriggers []string) *Decider {
	return &Decider{policyTriggers: policyTriggers}
}

func (d *Decider) Decide(signals CycleSignals) Decision {
	lower := strings.ToLower(signals.Message)

	for _, phrase := range humanRequestPhrases {
		if strings.Contains(lower, phrase) {
			return Decision{Escalate: true, Reason: "Customer requested a human agent"}
		}
	}

	words := tokenize(lower)
	for _, w := range words {
		for _, signal := range humanRequestWords {
			if w == signal {
				return Decision{Escalate: true, Reason: "Customer requested a human agent"}
			}
		}
	}

	if trigger := matchTrigger(words, d.policyTriggers); trigger != "" {
		return Decision{Escalate: true, Reason: fmt.Sprintf("Policy trigger matched: %s", trigger)}
	}

	// Chain exhaustion is a signal only: the local fallback already
	// answered the customer, so the session stays AI-served.
	return Decision{}
}
