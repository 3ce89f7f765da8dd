package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	groqTemperature = 0.3
	groqMaxTokens   = 450
)

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GroqProvider is the secondary backend: an OpenAI-compatible
// chat-completions endpoint.
type GroqProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGroqProvider(apiKey, model string, timeout time.Duration) *GroqProvider {
	return &GroqProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.groq.com/openai/v1",
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *GroqProvider) Name() string { return "groq" }

func (p *GroqProvider) Enabled() bool { return p.apiKey != "" }

func (p *GroqProvider) Attempt(ctx context.Context, req Request) Result {
	if !p.Enabled() {
		return Fail(FailUnconfigured, "no Groq API key configured")
	}

	messages := make([]groqMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, groqMessage{Role: "system", Content: req.System})
	}
	for _, turn := range req.History {
		messages = append(messages, groqMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, groqMessage{Role: "user", Content: req.Message})

	body, err := json.Marshal(groqRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   groqMaxTokens,
		Temperature: groqTemperature,
	})
	if err != nil {
		return Fail(FailMalformed, fmt.Sprintf("failed to marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Fail(FailTransport, fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return Fail(FailTimeout, err.Error())
		}
		return Fail(FailTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Fail(FailTransport, fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(detail)))
	}

	var out groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Fail(FailMalformed, fmt.Sprintf("failed to decode response: %v", err))
	}

	if len(out.Choices) == 0 {
		return Fail(FailEmpty, "no choices returned")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return Fail(FailEmpty, "Groq returned empty content")
	}
	return Ok(text)
}

func isTimeout(err error) bool {
	var nerr interface{ Timeout() bool }
	return errors.As(err, &nerr) && nerr.Timeout()
}
