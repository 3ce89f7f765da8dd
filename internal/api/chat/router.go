package chat

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/config"
	"github.com/Conversly/support-orchestrator/internal/core"
	"github.com/Conversly/support-orchestrator/internal/embedder"
	"github.com/Conversly/support-orchestrator/internal/llm"
	"github.com/Conversly/support-orchestrator/internal/loaders"
	"github.com/Conversly/support-orchestrator/internal/notify"
	"github.com/Conversly/support-orchestrator/internal/rag"
	"github.com/Conversly/support-orchestrator/internal/utils"
)

// RegisterRoutes wires the provider chain and orchestrator and mounts
// the /chat endpoints.
func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient, cfg *config.Config, hub *notify.Hub) {
	ctx := context.Background()

	gemini, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKeys, cfg.GeminiModel, cfg.ProviderTimeout)
	if err != nil {
		utils.Zlog.Error("Failed to create Gemini provider, continuing without it", zap.Error(err))
		gemini, _ = llm.NewGeminiProvider(ctx, nil, cfg.GeminiModel, cfg.ProviderTimeout)
	}
	groq := llm.NewGroqProvider(cfg.GroqAPIKey, cfg.GroqModel, cfg.ProviderTimeout)

	// Fixed fallback order: primary generative backend first, then the
	// chat-completion backend.
	chain := llm.NewChain(llm.NewQualityFilter(), gemini, groq)

	var retriever SnippetRetriever
	if emb, err := embedder.NewGeminiEmbedder(cfg.GeminiAPIKeys); err == nil {
		retriever = rag.NewPgVectorRetriever(db, emb, cfg.KnowledgeTopK)
	} else {
		utils.Zlog.Info("Knowledge retrieval disabled", zap.Error(err))
	}

	svc := NewService(
		db,
		chain,
		core.NewAssembler(cfg.CatalogLimit, cfg.HistoryWindow),
		core.NewDecider(cfg.EscalationTriggers),
		retriever,
		hub,
	)

	ctrl := NewController(svc)
	router.POST("/chat/respond", ctrl.Respond)
}
