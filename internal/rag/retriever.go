package rag

import (
	"context"
	"fmt"

	"github.com/Conversly/support-orchestrator/internal/embedder"
	"github.com/Conversly/support-orchestrator/internal/loaders"
	"github.com/Conversly/support-orchestrator/internal/types"
)

// Retriever fetches knowledge snippets relevant to a customer message.
// Implementations must treat their own failures as recoverable; the
// orchestrator degrades to an empty snippet list.
type Retriever interface {
	Retrieve(ctx context.Context, businessID, query string) ([]types.KnowledgeSnippet, error)
}

// PgVectorRetriever embeds the query and searches the business's
// embeddings by cosine distance.
type PgVectorRetriever struct {
	db       *loaders.PostgresClient
	embedder *embedder.GeminiEmbedder
	topK     int
}

func NewPgVectorRetriever(db *loaders.PostgresClient, emb *embedder.GeminiEmbedder, topK int) *PgVectorRetriever {
	return &PgVectorRetriever{db: db, embedder: emb, topK: topK}
}

func (r *PgVectorRetriever) Retrieve(ctx context.Context, businessID, query string) ([]types.KnowledgeSnippet, error) {
	if r.embedder == nil || r.topK <= 0 {
		return nil, nil
	}

	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return r.db.SearchKnowledge(ctx, businessID, vec, r.topK)
}
