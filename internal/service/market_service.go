package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"coinsight/internal/cache"
	"coinsight/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	listingsCacheTTL = 5 * time.Minute
	detailsCacheTTL  = 10 * time.Minute
	historyCacheTTL  = 30 * time.Minute
	globalCacheTTL   = 15 * time.Minute

	maxPageSize = 100
)

// MarketProvider is the raw market-data client the gateway sits on top of.
type MarketProvider interface {
	Listings(ctx context.Context, start, limit int, sort, sortDir string) ([]domain.Cryptocurrency, error)
	CoinMetadata(ctx context.Context, id string) (*domain.CoinMetadata, error)
	CoinQuote(ctx context.Context, id string) (*domain.CoinQuote, error)
	GlobalMetrics(ctx context.Context) (*domain.GlobalMetrics, error)
}

// MarketService is the cache-aside gateway over the market data provider.
// Upstream failures never cross this boundary as errors: list operations
// degrade to empty slices, lookups to nil, and global metrics to a
// zero-valued struct, all logged.
type MarketService struct {
	tracer   trace.Tracer
	provider MarketProvider
	store    cache.Store
}

func NewMarketService(tracer trace.Tracer, provider MarketProvider, store cache.Store) *MarketService {
	return &MarketService{
		tracer:   tracer,
		provider: provider,
		store:    store,
	}
}

// mapSortField translates the API's sort vocabulary to the provider's.
// Unknown values fall back to market cap.
func mapSortField(sortBy string) string {
	switch strings.ToLower(sortBy) {
	case "market_cap", "price", "name":
		return strings.ToLower(sortBy)
	case "volume":
		return "volume_24h"
	case "change":
		return "percent_change_24h"
	default:
		return "market_cap"
	}
}

// ListPage returns one page of the latest listings. Page and size are
// normalized here so every caller shares the same bounds.
func (s *MarketService) ListPage(ctx context.Context, page, pageSize int, sortBy, sortDir string) []domain.Cryptocurrency {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	start := (page-1)*pageSize + 1
	return s.ListCryptocurrencies(ctx, start, pageSize, sortBy, sortDir)
}

// ListCryptocurrencies fetches a sorted slice of listings, cache-aside.
func (s *MarketService) ListCryptocurrencies(ctx context.Context, start, limit int, sortBy, sortDir string) []domain.Cryptocurrency {
	ctx, span := s.tracer.Start(ctx, "market-service.list-cryptocurrencies")
	defer span.End()

	sort := mapSortField(sortBy)
	dir := "desc"
	if strings.EqualFold(sortDir, "asc") {
		dir = "asc"
	}

	key := fmt.Sprintf("cmc_listings_%d_%d_%s_%s", start, limit, sort, dir)
	var coins []domain.Cryptocurrency
	if s.cacheGet(ctx, key, &coins) {
		return coins
	}

	coins, err := s.provider.Listings(ctx, start, limit, sort, dir)
	if err != nil {
		log.Printf("error fetching listings: %v", err)
		return []domain.Cryptocurrency{}
	}

	s.cachePut(ctx, key, coins, listingsCacheTTL)
	return coins
}

// GetDetails joins the info and quote lookups for one asset. Returns nil when
// the provider has no entry or either call fails.
func (s *MarketService) GetDetails(ctx context.Context, id string) *domain.CryptocurrencyDetails {
	ctx, span := s.tracer.Start(ctx, "market-service.get-details")
	defer span.End()

	key := "cmc_crypto_" + id
	var cached domain.CryptocurrencyDetails
	if s.cacheGet(ctx, key, &cached) {
		return &cached
	}

	meta, err := s.provider.CoinMetadata(ctx, id)
	if err != nil {
		log.Printf("error fetching metadata for %s: %v", id, err)
		return nil
	}
	quote, err := s.provider.CoinQuote(ctx, id)
	if err != nil {
		log.Printf("error fetching quote for %s: %v", id, err)
		return nil
	}
	if meta == nil || quote == nil {
		return nil
	}

	details := &domain.CryptocurrencyDetails{
		Cryptocurrency: domain.Cryptocurrency{
			ID:                  id,
			Name:                meta.Name,
			Symbol:              meta.Symbol,
			Price:               quote.Price,
			MarketCap:           quote.MarketCap,
			Volume24h:           quote.Volume24h,
			ChangePercentage24h: quote.PercentChange24h,
			ImageURL:            meta.Logo,
			Rank:                quote.Rank,
			LastUpdated:         quote.LastUpdated,
		},
		Description:       meta.Description,
		Algorithm:         meta.Algorithm,
		CirculatingSupply: quote.CirculatingSupply,
		TotalSupply:       quote.TotalSupply,
		MaxSupply:         quote.MaxSupply,
		PriceChange: map[string]float64{
			"1h":  quote.PercentChange1h,
			"24h": quote.PercentChange24h,
			"7d":  quote.PercentChange7d,
			"30d": quote.PercentChange30d,
		},
		Tags: meta.Tags,
	}

	s.cachePut(ctx, key, details, detailsCacheTTL)
	return details
}

// GetPriceHistory returns a daily price series for one asset. The upstream
// plan has no historical endpoint, so the series is synthesized as a random
// walk seeded from the current price. Returns nil when the asset is unknown.
func (s *MarketService) GetPriceHistory(ctx context.Context, id, interval string, days int) *domain.PriceHistory {
	ctx, span := s.tracer.Start(ctx, "market-service.get-price-history")
	defer span.End()

	if days < 1 {
		days = 30
	}

	key := fmt.Sprintf("cmc_history_%s_%s_%d", id, interval, days)
	var cached domain.PriceHistory
	if s.cacheGet(ctx, key, &cached) {
		return &cached
	}

	details := s.GetDetails(ctx, id)
	if details == nil {
		return nil
	}

	now := time.Now().UTC()
	price := details.Price
	points := make([]domain.PricePoint, 0, days+1)
	for i := days; i >= 0; i-- {
		points = append(points, domain.PricePoint{
			Timestamp: now.AddDate(0, 0, -i),
			Price:     price,
			Volume:    details.Volume24h * (0.7 + rand.Float64()*0.6),
		})
		// Walk the next day by at most ±5%.
		price *= 1 + (rand.Float64()*0.1 - 0.05)
		if price <= 0 {
			price = details.Price * 0.1
		}
	}

	history := &domain.PriceHistory{
		CryptoID: id,
		Interval: interval,
		Data:     points,
	}
	s.cachePut(ctx, key, history, historyCacheTTL)
	return history
}

// GetGlobalMetrics returns market-wide aggregates, zero-valued on failure.
func (s *MarketService) GetGlobalMetrics(ctx context.Context) domain.GlobalMetrics {
	ctx, span := s.tracer.Start(ctx, "market-service.get-global-metrics")
	defer span.End()

	const key = "cmc_global_metrics"
	var cached domain.GlobalMetrics
	if s.cacheGet(ctx, key, &cached) {
		return cached
	}

	metrics, err := s.provider.GlobalMetrics(ctx)
	if err != nil {
		log.Printf("error fetching global metrics: %v", err)
		return domain.GlobalMetrics{}
	}

	s.cachePut(ctx, key, metrics, globalCacheTTL)
	return *metrics
}

// Search filters the top 100 assets by market cap on a case-insensitive
// name or symbol substring. An empty query returns the full set.
func (s *MarketService) Search(ctx context.Context, query string) []domain.Cryptocurrency {
	ctx, span := s.tracer.Start(ctx, "market-service.search")
	defer span.End()

	coins := s.ListCryptocurrencies(ctx, 1, 100, "market_cap", "desc")

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return coins
	}

	matches := make([]domain.Cryptocurrency, 0)
	for _, coin := range coins {
		if strings.Contains(strings.ToLower(coin.Name), query) ||
			strings.Contains(strings.ToLower(coin.Symbol), query) {
			matches = append(matches, coin)
		}
	}
	return matches
}

// GetTrendingCoins returns the ten assets with the highest 24h volume.
func (s *MarketService) GetTrendingCoins(ctx context.Context) []domain.Cryptocurrency {
	ctx, span := s.tracer.Start(ctx, "market-service.get-trending-coins")
	defer span.End()

	coins := s.ListCryptocurrencies(ctx, 1, 100, "volume", "desc")
	if len(coins) > 10 {
		coins = coins[:10]
	}
	return coins
}

// GetMarketOverview combines global metrics with the trending set.
func (s *MarketService) GetMarketOverview(ctx context.Context) *domain.MarketOverview {
	ctx, span := s.tracer.Start(ctx, "market-service.get-market-overview")
	defer span.End()

	return &domain.MarketOverview{
		GlobalMetrics: s.GetGlobalMetrics(ctx),
		TrendingCoins: s.GetTrendingCoins(ctx),
		LastUpdated:   time.Now().UTC(),
	}
}

func (s *MarketService) cacheGet(ctx context.Context, key string, v any) bool {
	data, ok := s.store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("cache decode error for %s: %v", key, err)
		return false
	}
	return true
}

func (s *MarketService) cachePut(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache encode error for %s: %v", key, err)
		return
	}
	if err := s.store.Set(ctx, key, data, ttl); err != nil {
		log.Printf("cache write error for %s: %v", key, err)
	}
}
