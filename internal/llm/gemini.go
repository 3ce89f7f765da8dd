package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Conversly/support-orchestrator/internal/utils"
)

const (
	geminiTemperature = 0.25
	geminiMaxTokens   = 450
)

// GeminiProvider is the primary backend. It holds one chat model per API
// key and rotates between them round-robin to spread rate limits.
type GeminiProvider struct {
	models   []model.BaseChatModel
	timeout  time.Duration
	keyIndex uint64
}

// NewGeminiProvider builds a provider from the configured keys. An empty
// key list yields a disabled provider, not an error.
func NewGeminiProvider(ctx context.Context, apiKeys []string, modelName string, timeout time.Duration) (*GeminiProvider, error) {
	p := &GeminiProvider{timeout: timeout}
	if len(apiKeys) == 0 {
		return p, nil
	}

	temperature := float32(geminiTemperature)
	maxTokens := geminiMaxTokens

	models := make([]model.BaseChatModel, len(apiKeys))
	for i, key := range apiKeys {
		chatModel, err := newGeminiChatModel(ctx, key, modelName, &temperature, &maxTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model for key %d: %w", i+1, err)
		}
		models[i] = chatModel
	}

	utils.Zlog.Info("Created Gemini provider with round-robin key rotation",
		zap.Int("key_count", len(apiKeys)),
		zap.String("model", modelName))

	p.models = models
	return p, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Enabled() bool { return len(p.models) > 0 }

// getNextModel returns the next model using round-robin selection.
// Thread-safe: uses atomic operations to ensure fair distribution.
func (p *GeminiProvider) getNextModel() model.BaseChatModel {
	if len(p.models) == 1 {
		return p.models[0]
	}
	idx := atomic.AddUint64(&p.keyIndex, 1)
	return p.models[idx%uint64(len(p.models))]
}

func (p *GeminiProvider) Attempt(ctx context.Context, req Request) Result {
	if !p.Enabled() {
		return Fail(FailUnconfigured, "no Gemini API key configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	messages := buildSchemaMessages(req)

	out, err := p.getNextModel().Generate(ctx, messages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Fail(FailTimeout, err.Error())
		}
		return Fail(FailTransport, err.Error())
	}

	text := strings.TrimSpace(out.Content)
	if text == "" {
		return Fail(FailEmpty, "Gemini returned empty content")
	}
	return Ok(text)
}

func buildSchemaMessages(req Request) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, schema.SystemMessage(req.System))
	}
	for _, turn := range req.History {
		if turn.Role == "assistant" {
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		} else {
			messages = append(messages, schema.UserMessage(turn.Content))
		}
	}
	return append(messages, schema.UserMessage(req.Message))
}

// newGeminiChatModel is a package variable so tests can substitute a fake
// model without a real credential.
var newGeminiChatModel = func(ctx context.Context, apiKey, modelName string, temperature *float32, maxTokens *int) (model.BaseChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	return gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       modelName,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}
