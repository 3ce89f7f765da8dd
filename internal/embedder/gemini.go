package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync/atomic"
	"time"
)

const embeddingDimensions = 768

type embeddingRequest struct {
	Model                string           `json:"model"`
	Content              embeddingContent `json:"content"`
	TaskType             string           `json:"taskType,omitempty"`
	OutputDimensionality int              `json:"outputDimensionality,omitempty"`
}

type embeddingContent struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// GeminiEmbedder produces query embeddings for knowledge retrieval, with
// rotating API keys.
type GeminiEmbedder struct {
	apiKeys  []string
	client   *http.Client
	baseURL  string
	keyIndex uint64
}

func NewGeminiEmbedder(keys []string) (*GeminiEmbedder, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}

	return &GeminiEmbedder{
		apiKeys: keys,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
	}, nil
}

// getNextKey returns the next API key using round-robin selection.
// Thread-safe: uses atomic operations to distribute load across keys.
func (g *GeminiEmbedder) getNextKey() string {
	if len(g.apiKeys) == 1 {
		return g.apiKeys[0]
	}
	idx := atomic.AddUint64(&g.keyIndex, 1)
	return g.apiKeys[idx%uint64(len(g.apiKeys))]
}

// EmbedQuery embeds a customer message for similarity search against the
// business knowledge base.
func (g *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	reqBody := embeddingRequest{
		Model: "text-embedding-004",
		Content: embeddingContent{
			Parts: []part{{Text: text}},
		},
		TaskType:             "RETRIEVAL_QUERY",
		OutputDimensionality: embeddingDimensions,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-embedding-004:embedContent?key=%s", g.baseURL, g.getNextKey())

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var out embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(out.Embedding.Values) != embeddingDimensions {
		return nil, fmt.Errorf("expected %d dimensions, got %d", embeddingDimensions, len(out.Embedding.Values))
	}

	return normalize(out.Embedding.Values), nil
}

// normalize scales a vector to unit length so cosine distance behaves.
func normalize(vec []float64) []float64 {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return vec
	}

	normalized := make([]float64, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
