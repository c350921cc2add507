package job

import (
	"context"
	"log"
	"time"

	"coinsight/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// MarketWarmer is the slice of the market gateway the refresher drives.
// Each call repopulates its own cache entry; the refresher only has to keep
// calling.
type MarketWarmer interface {
	ListCryptocurrencies(ctx context.Context, start, limit int, sortBy, sortDir string) []domain.Cryptocurrency
	GetTrendingCoins(ctx context.Context) []domain.Cryptocurrency
	GetGlobalMetrics(ctx context.Context) domain.GlobalMetrics
}

// MarketRefresher keeps the hot cache entries warm so interactive requests
// rarely pay the upstream round trip.
type MarketRefresher struct {
	tracer   trace.Tracer
	market   MarketWarmer
	interval time.Duration
}

func NewMarketRefresher(tracer trace.Tracer, market MarketWarmer, intervalSecs int) *MarketRefresher {
	return &MarketRefresher{
		tracer:   tracer,
		market:   market,
		interval: time.Duration(intervalSecs) * time.Second,
	}
}

// Start launches the refresh loops. Blocks until ctx is cancelled.
func (r *MarketRefresher) Start(ctx context.Context) {
	log.Println("Market refresher starting...")

	go r.refreshLoop(ctx, "listings", r.interval, func(ctx context.Context) {
		r.market.ListCryptocurrencies(ctx, 1, 100, "market_cap", "desc")
		r.market.GetTrendingCoins(ctx)
	})

	// Global metrics change slowly; stagger them off the listings loop.
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
		r.refreshLoop(ctx, "global-metrics", r.interval*3, func(ctx context.Context) {
			r.market.GetGlobalMetrics(ctx)
		})
	}()

	<-ctx.Done()
	log.Println("Market refresher stopped")
}

func (r *MarketRefresher) refreshLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	// Run immediately on start
	fn(ctx)
	log.Printf("refresher %s warmed", name)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
