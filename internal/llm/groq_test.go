package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGroqProviderAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %s", got)
		}

		var req groqRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Messages[0].Role != "system" {
			t.Fatalf("expected system message first, got %s", req.Messages[0].Role)
		}
		if last := req.Messages[len(req.Messages)-1]; last.Role != "user" || last.Content != "any widgets?" {
			t.Fatalf("unexpected trailing message: %+v", last)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  Yes, Widgets are $9.99.  "}}]}`)
	}))
	defer server.Close()

	p := NewGroqProvider("test-key", "llama-3.1-8b-instant", time.Second)
	p.baseURL = server.URL

	res := p.Attempt(context.Background(), Request{
		System:  "You are a support assistant.",
		History: []Turn{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}},
		Message: "any widgets?",
	})

	if !res.OK() {
		t.Fatalf("unexpected failure: %s %s", res.Kind, res.Details)
	}
	if res.Text != "Yes, Widgets are $9.99." {
		t.Fatalf("expected trimmed content, got %q", res.Text)
	}
}

func TestGroqProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer server.Close()

	p := NewGroqProvider("test-key", "llama-3.1-8b-instant", time.Second)
	p.baseURL = server.URL

	res := p.Attempt(context.Background(), Request{Message: "hi"})
	if res.OK() || res.Kind != FailTransport {
		t.Fatalf("expected transport failure, got %+v", res)
	}
}

func TestGroqProviderEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	p := NewGroqProvider("test-key", "llama-3.1-8b-instant", time.Second)
	p.baseURL = server.URL

	res := p.Attempt(context.Background(), Request{Message: "hi"})
	if res.OK() || res.Kind != FailEmpty {
		t.Fatalf("expected empty failure, got %+v", res)
	}
}

func TestGroqProviderUnconfigured(t *testing.T) {
	p := NewGroqProvider("", "llama-3.1-8b-instant", time.Second)
	if p.Enabled() {
		t.Fatalf("provider without key must be disabled")
	}

	// no network attempt: baseURL points nowhere reachable
	p.baseURL = "http://127.0.0.1:1"
	res := p.Attempt(context.Background(), Request{Message: "hi"})
	if res.Kind != FailUnconfigured {
		t.Fatalf("expected unconfigured failure, got %+v", res)
	}
}

func TestGeminiProviderUnconfigured(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), nil, "gemini-2.0-flash-lite", time.Second)
	if err != nil {
		t.Fatalf("empty key list must not error: %v", err)
	}
	if p.Enabled() {
		t.Fatalf("provider without keys must be disabled")
	}

	res := p.Attempt(context.Background(), Request{Message: "hi"})
	if res.Kind != FailUnconfigured {
		t.Fatalf("expected unconfigured failure, got %+v", res)
	}
}
