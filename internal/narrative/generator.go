// Package narrative builds analysis prompts and runs them through a
// generative-text backend, caching the raw text per asset.
package narrative

import (
	"context"
	"fmt"
	"log"
	"time"

	"coinsight/internal/cache"
	"coinsight/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	technicalTTL = time.Hour
	// Fundamentals churn slowly; a day is fine.
	fundamentalTTL = 24 * time.Hour
	combinedTTL    = time.Hour
)

// Generator produces the three narrative kinds through one Backend, fronted
// by the cache. The Generate methods are the containment boundary for
// backend failures: they log and substitute a fixed sentinel string, never
// returning an error.
type Generator struct {
	tracer  trace.Tracer
	backend Backend
	store   cache.Store
}

func NewGenerator(tracer trace.Tracer, backend Backend, store cache.Store) *Generator {
	return &Generator{tracer: tracer, backend: backend, store: store}
}

// GenerateTechnical returns the technical narrative for the asset, cached
// per id and timeframe.
func (g *Generator) GenerateTechnical(ctx context.Context, crypto *domain.CryptocurrencyDetails, timeframe string) string {
	ctx, span := g.tracer.Start(ctx, "narrative.generate-technical")
	defer span.End()
	span.SetAttributes(attribute.String("crypto.symbol", crypto.Symbol))

	key := fmt.Sprintf("%s_technical_%s_%s", g.backend.Name(), crypto.ID, timeframe)
	return g.generate(ctx, key, "technical", technicalTTL, func() string {
		return buildTechnicalPrompt(crypto, timeframe)
	})
}

// GenerateFundamental returns the fundamental narrative, cached per id.
func (g *Generator) GenerateFundamental(ctx context.Context, crypto *domain.CryptocurrencyDetails) string {
	ctx, span := g.tracer.Start(ctx, "narrative.generate-fundamental")
	defer span.End()
	span.SetAttributes(attribute.String("crypto.symbol", crypto.Symbol))

	key := fmt.Sprintf("%s_fundamental_%s", g.backend.Name(), crypto.ID)
	return g.generate(ctx, key, "fundamental", fundamentalTTL, func() string {
		return buildFundamentalPrompt(crypto)
	})
}

// GenerateCombined returns the integrative narrative built from the two
// prior passes, cached per id.
func (g *Generator) GenerateCombined(ctx context.Context, technical, fundamental string, crypto *domain.CryptocurrencyDetails) string {
	ctx, span := g.tracer.Start(ctx, "narrative.generate-combined")
	defer span.End()
	span.SetAttributes(attribute.String("crypto.symbol", crypto.Symbol))

	key := fmt.Sprintf("%s_combined_%s", g.backend.Name(), crypto.ID)
	return g.generate(ctx, key, "combined", combinedTTL, func() string {
		return buildCombinedPrompt(technical, fundamental, crypto)
	})
}

func (g *Generator) generate(ctx context.Context, key, kind string, ttl time.Duration, buildPrompt func() string) string {
	if cached, ok := g.store.Get(ctx, key); ok {
		return string(cached)
	}

	text, err := g.backend.Complete(ctx, buildPrompt())
	if err != nil {
		log.Printf("error generating %s analysis: %v", kind, err)
		return fmt.Sprintf("Unable to generate %s analysis at this time due to an error.", kind)
	}

	if err := g.store.Set(ctx, key, []byte(text), ttl); err != nil {
		log.Printf("cache write error for %s: %v", key, err)
	}
	return text
}
