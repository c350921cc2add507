package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"coinsight/internal/cache"
	"coinsight/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type mockMarketProvider struct {
	listings   []domain.Cryptocurrency
	listingErr error
	meta       map[string]*domain.CoinMetadata
	metaErr    error
	quotes     map[string]*domain.CoinQuote
	quoteErr   error
	metrics    *domain.GlobalMetrics
	metricsErr error

	listingCalls int
	metricsCalls int
	lastStart    int
	lastLimit    int
	lastSort     string
	lastSortDir  string
}

func (m *mockMarketProvider) Listings(ctx context.Context, start, limit int, sort, sortDir string) ([]domain.Cryptocurrency, error) {
	m.listingCalls++
	m.lastStart = start
	m.lastLimit = limit
	m.lastSort = sort
	m.lastSortDir = sortDir
	if m.listingErr != nil {
		return nil, m.listingErr
	}
	return m.listings, nil
}

func (m *mockMarketProvider) CoinMetadata(ctx context.Context, id string) (*domain.CoinMetadata, error) {
	if m.metaErr != nil {
		return nil, m.metaErr
	}
	return m.meta[id], nil
}

func (m *mockMarketProvider) CoinQuote(ctx context.Context, id string) (*domain.CoinQuote, error) {
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return m.quotes[id], nil
}

func (m *mockMarketProvider) GlobalMetrics(ctx context.Context) (*domain.GlobalMetrics, error) {
	m.metricsCalls++
	if m.metricsErr != nil {
		return nil, m.metricsErr
	}
	return m.metrics, nil
}

func bitcoinProvider() *mockMarketProvider {
	return &mockMarketProvider{
		listings: []domain.Cryptocurrency{
			{ID: "1", Name: "Bitcoin", Symbol: "BTC", Price: 97000, Volume24h: 4.5e10},
			{ID: "1027", Name: "Ethereum", Symbol: "ETH", Price: 3500, Volume24h: 2.1e10},
		},
		meta: map[string]*domain.CoinMetadata{
			"1": {Name: "Bitcoin", Symbol: "BTC", Description: "digital gold", Logo: "https://img/1.png", Algorithm: "SHA-256", Tags: []string{"pow"}},
		},
		quotes: map[string]*domain.CoinQuote{
			"1": {
				Price: 97000, MarketCap: 1.9e12, Volume24h: 4.5e10,
				PercentChange1h: 0.1, PercentChange24h: 2.3, PercentChange7d: 5.0, PercentChange30d: 11.5,
				CirculatingSupply: 19600000, TotalSupply: 19600000, MaxSupply: 21000000,
				Rank: 1, LastUpdated: time.Now().UTC(),
			},
		},
		metrics: &domain.GlobalMetrics{TotalMarketCap: 3.4e12, BitcoinDominance: 55.2},
	}
}

func TestMarketService_ListPageNormalizesArgs(t *testing.T) {
	t.Parallel()

	provider := bitcoinProvider()
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	svc.ListPage(context.Background(), 3, 500, "volume", "ASC")

	if provider.lastStart != 201 || provider.lastLimit != 100 {
		t.Fatalf("unexpected pagination args: start=%d limit=%d", provider.lastStart, provider.lastLimit)
	}
	if provider.lastSort != "volume_24h" || provider.lastSortDir != "asc" {
		t.Fatalf("unexpected sort args: %s %s", provider.lastSort, provider.lastSortDir)
	}
}

func TestMarketService_ListDefaultsUnknownSort(t *testing.T) {
	t.Parallel()

	provider := bitcoinProvider()
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	svc.ListCryptocurrencies(context.Background(), 1, 20, "bogus", "sideways")

	if provider.lastSort != "market_cap" || provider.lastSortDir != "desc" {
		t.Fatalf("unexpected sort args: %s %s", provider.lastSort, provider.lastSortDir)
	}
}

func TestMarketService_ListCachesPerParams(t *testing.T) {
	t.Parallel()

	provider := bitcoinProvider()
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	first := svc.ListCryptocurrencies(context.Background(), 1, 20, "market_cap", "desc")
	second := svc.ListCryptocurrencies(context.Background(), 1, 20, "market_cap", "desc")
	if provider.listingCalls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.listingCalls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("unexpected result sizes: %d %d", len(first), len(second))
	}

	// Different params miss the cache.
	svc.ListCryptocurrencies(context.Background(), 21, 20, "market_cap", "desc")
	if provider.listingCalls != 2 {
		t.Fatalf("expected 2 provider calls, got %d", provider.listingCalls)
	}
}

func TestMarketService_ListDegradesToEmptyOnError(t *testing.T) {
	t.Parallel()

	provider := &mockMarketProvider{listingErr: errors.New("upstream down")}
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	coins := svc.ListCryptocurrencies(context.Background(), 1, 20, "market_cap", "desc")
	if coins == nil || len(coins) != 0 {
		t.Fatalf("expected empty slice, got %#v", coins)
	}

	// Failures are not cached.
	svc.ListCryptocurrencies(context.Background(), 1, 20, "market_cap", "desc")
	if provider.listingCalls != 2 {
		t.Fatalf("expected retry on next call, got %d provider calls", provider.listingCalls)
	}
}

func TestMarketService_GetDetailsJoinsInfoAndQuote(t *testing.T) {
	t.Parallel()

	provider := bitcoinProvider()
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	details := svc.GetDetails(context.Background(), "1")
	if details == nil {
		t.Fatal("expected details")
	}
	if details.Name != "Bitcoin" || details.Symbol != "BTC" {
		t.Fatalf("unexpected identity: %s %s", details.Name, details.Symbol)
	}
	if details.Price != 97000 || details.MarketCap != 1.9e12 || details.Rank != 1 {
		t.Fatalf("unexpected quote fields: %+v", details.Cryptocurrency)
	}
	if details.Algorithm != "SHA-256" || details.ImageURL != "https://img/1.png" {
		t.Fatalf("unexpected metadata fields: %s %s", details.Algorithm, details.ImageURL)
	}
	want := map[string]float64{"1h": 0.1, "24h": 2.3, "7d": 5.0, "30d": 11.5}
	for period, pct := range want {
		if details.PriceChange[period] != pct {
			t.Fatalf("price change %s = %v, want %v", period, details.PriceChange[period], pct)
		}
	}
}

func TestMarketService_GetDetailsUnknownID(t *testing.T) {
	t.Parallel()

	svc := NewMarketService(testTracer, bitcoinProvider(), cache.NewMemoryStore())
	if details := svc.GetDetails(context.Background(), "99999"); details != nil {
		t.Fatalf("expected nil for unknown id, got %+v", details)
	}
}

func TestMarketService_GetDetailsNilOnProviderError(t *testing.T) {
	t.Parallel()

	provider := bitcoinProvider()
	provider.quoteErr = errors.New("timeout")
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	if details := svc.GetDetails(context.Background(), "1"); details != nil {
		t.Fatalf("expected nil on provider error, got %+v", details)
	}
}

func TestMarketService_GetPriceHistoryShape(t *testing.T) {
	t.Parallel()

	svc := NewMarketService(testTracer, bitcoinProvider(), cache.NewMemoryStore())

	days := 30
	history := svc.GetPriceHistory(context.Background(), "1", "1d", days)
	if history == nil {
		t.Fatal("expected history")
	}
	if history.CryptoID != "1" || history.Interval != "1d" {
		t.Fatalf("unexpected identity: %s %s", history.CryptoID, history.Interval)
	}
	if len(history.Data) != days+1 {
		t.Fatalf("expected %d points, got %d", days+1, len(history.Data))
	}
	for i, point := range history.Data {
		if point.Price <= 0 {
			t.Fatalf("point %d has non-positive price %v", i, point.Price)
		}
		if point.Volume < 4.5e10*0.7 || point.Volume > 4.5e10*1.3 {
			t.Fatalf("point %d volume %v outside 70%%-130%% band", i, point.Volume)
		}
		if i > 0 && !point.Timestamp.After(history.Data[i-1].Timestamp) {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestMarketService_GetPriceHistoryCached(t *testing.T) {
	t.Parallel()

	svc := NewMarketService(testTracer, bitcoinProvider(), cache.NewMemoryStore())

	first := svc.GetPriceHistory(context.Background(), "1", "1d", 7)
	second := svc.GetPriceHistory(context.Background(), "1", "1d", 7)
	if first == nil || second == nil {
		t.Fatal("expected history")
	}
	// The walk is random, so identical series prove a cache hit.
	for i := range first.Data {
		if first.Data[i].Price != second.Data[i].Price {
			t.Fatalf("point %d differs across calls: %v vs %v", i, first.Data[i].Price, second.Data[i].Price)
		}
	}
}

func TestMarketService_GetPriceHistoryUnknownID(t *testing.T) {
	t.Parallel()

	svc := NewMarketService(testTracer, bitcoinProvider(), cache.NewMemoryStore())
	if history := svc.GetPriceHistory(context.Background(), "99999", "1d", 7); history != nil {
		t.Fatalf("expected nil for unknown id, got %+v", history)
	}
}

func TestMarketService_GetGlobalMetricsCachesAndDegrades(t *testing.T) {
	t.Parallel()

	provider := bitcoinProvider()
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	metrics := svc.GetGlobalMetrics(context.Background())
	if metrics.TotalMarketCap != 3.4e12 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	svc.GetGlobalMetrics(context.Background())
	if provider.metricsCalls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.metricsCalls)
	}

	failing := &mockMarketProvider{metricsErr: errors.New("upstream down")}
	svc = NewMarketService(testTracer, failing, cache.NewMemoryStore())
	if got := svc.GetGlobalMetrics(context.Background()); got != (domain.GlobalMetrics{}) {
		t.Fatalf("expected zero metrics on failure, got %+v", got)
	}
}

func TestMarketService_SearchFiltersNameAndSymbol(t *testing.T) {
	t.Parallel()

	svc := NewMarketService(testTracer, bitcoinProvider(), cache.NewMemoryStore())

	if got := svc.Search(context.Background(), "bit"); len(got) != 1 || got[0].Symbol != "BTC" {
		t.Fatalf("unexpected name match: %+v", got)
	}
	if got := svc.Search(context.Background(), "eth"); len(got) != 1 || got[0].Symbol != "ETH" {
		t.Fatalf("unexpected symbol match: %+v", got)
	}
	if got := svc.Search(context.Background(), "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
	if got := svc.Search(context.Background(), "   "); len(got) != 2 {
		t.Fatalf("expected unfiltered set for blank query, got %d", len(got))
	}
}

func TestMarketService_GetTrendingCoinsTopTenByVolume(t *testing.T) {
	t.Parallel()

	provider := &mockMarketProvider{}
	for i := 0; i < 25; i++ {
		provider.listings = append(provider.listings, domain.Cryptocurrency{
			ID:     strconv.Itoa(i + 1),
			Symbol: fmt.Sprintf("C%d", i+1),
		})
	}
	svc := NewMarketService(testTracer, provider, cache.NewMemoryStore())

	trending := svc.GetTrendingCoins(context.Background())
	if len(trending) != 10 {
		t.Fatalf("expected 10 coins, got %d", len(trending))
	}
	if provider.lastSort != "volume_24h" || provider.lastSortDir != "desc" {
		t.Fatalf("unexpected sort args: %s %s", provider.lastSort, provider.lastSortDir)
	}
}

func TestMarketService_GetMarketOverview(t *testing.T) {
	t.Parallel()

	svc := NewMarketService(testTracer, bitcoinProvider(), cache.NewMemoryStore())

	overview := svc.GetMarketOverview(context.Background())
	if overview.GlobalMetrics.BitcoinDominance != 55.2 {
		t.Fatalf("unexpected metrics: %+v", overview.GlobalMetrics)
	}
	if len(overview.TrendingCoins) != 2 {
		t.Fatalf("expected 2 trending coins, got %d", len(overview.TrendingCoins))
	}
	if overview.LastUpdated.IsZero() {
		t.Fatal("expected timestamp")
	}
}
