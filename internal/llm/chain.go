package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/utils"
)

// Chain tries a fixed, ordered list of providers until one produces an
// answer the quality filter accepts. Provider order is deployment
// configuration: first-configured-first-tried, always. Calls are strictly
// sequential so the first healthy backend wins and no two paid backends
// run concurrently.
type Chain struct {
	providers []Provider
	filter    *QualityFilter
}

func NewChain(filter *QualityFilter, providers ...Provider) *Chain {
	return &Chain{providers: providers, filter: filter}
}

// Reply returns the first accepted answer and true, or ("", false) when
// every provider failed or was rejected. Exhaustion is not an error: the
// caller falls through to the deterministic local reply.
func (c *Chain) Reply(ctx context.Context, req Request) (string, bool) {
	for _, p := range c.providers {
		if !p.Enabled() {
			utils.Zlog.Debug("Provider disabled, skipping", zap.String("provider", p.Name()))
			continue
		}

		res := p.Attempt(ctx, req)
		if !res.OK() {
			utils.Zlog.Warn("Provider attempt failed",
				zap.String("provider", p.Name()),
				zap.String("kind", string(res.Kind)),
				zap.String("details", res.Details))
			continue
		}

		if reason := c.filter.Check(res.Text); reason != "" {
			utils.Zlog.Warn("Provider answer rejected",
				zap.String("provider", p.Name()),
				zap.String("reason", reason))
			continue
		}

		utils.Zlog.Debug("Provider answer accepted", zap.String("provider", p.Name()))
		return res.Text, true
	}

	utils.Zlog.Info("Provider chain exhausted, falling back to local reply")
	return "", false
}
