package llm

import "context"

// FailureKind classifies why a provider attempt produced no usable text.
type FailureKind string

const (
	FailUnconfigured FailureKind = "unconfigured"
	FailTimeout      FailureKind = "timeout"
	FailTransport    FailureKind = "transport"
	FailMalformed    FailureKind = "malformed"
	FailEmpty        FailureKind = "empty"
	FailRejected     FailureKind = "rejected"
)

// Result is the tagged outcome of one provider attempt. Failures are
// values, not errors; the chain absorbs them and moves on.
type Result struct {
	Text    string
	Kind    FailureKind
	Details string
}

func (r Result) OK() bool { return r.Kind == "" }

func Ok(text string) Result {
	return Result{Text: text}
}

func Fail(kind FailureKind, details string) Result {
	return Result{Kind: kind, Details: details}
}

// Turn is one prior exchange in the conversation window.
type Turn struct {
	Role    string // user | assistant
	Content string
}

// Request carries everything a provider needs for a single completion.
type Request struct {
	System  string
	History []Turn
	Message string
}

// Provider wraps one external completion backend behind a uniform,
// bounded-time contract.
type Provider interface {
	Name() string
	// Enabled is false when the backend has no credential; the chain
	// skips disabled providers without a network attempt.
	Enabled() bool
	Attempt(ctx context.Context, req Request) Result
}
