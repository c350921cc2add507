package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coinsight/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defaultCMCBaseURL = "https://pro-api.coinmarketcap.com/v1"

// CoinMarketCapClient is the raw HTTP client for the CoinMarketCap pro API.
// It only speaks the wire protocol; caching and failure policy live in the
// market service.
type CoinMarketCapClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinMarketCapClient creates a client with built-in rate limiting.
// The free tier allows ~30 requests per minute (one token every 2 seconds).
func NewCoinMarketCapClient(apiKey, baseURL string, tracer trace.Tracer) *CoinMarketCapClient {
	if baseURL == "" {
		baseURL = defaultCMCBaseURL
	}
	return &CoinMarketCapClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: NewRateLimiter(30, 2*time.Second),
	}
}

type cmcUSD struct {
	Price            float64 `json:"price"`
	Volume24h        float64 `json:"volume_24h"`
	MarketCap        float64 `json:"market_cap"`
	PercentChange1h  float64 `json:"percent_change_1h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	PercentChange7d  float64 `json:"percent_change_7d"`
	PercentChange30d float64 `json:"percent_change_30d"`
}

type cmcQuote struct {
	USD cmcUSD `json:"USD"`
}

type cmcCoin struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Symbol            string    `json:"symbol"`
	CmcRank           int       `json:"cmc_rank"`
	CirculatingSupply float64   `json:"circulating_supply"`
	TotalSupply       float64   `json:"total_supply"`
	MaxSupply         float64   `json:"max_supply"`
	LastUpdated       time.Time `json:"last_updated"`
	Quote             cmcQuote  `json:"quote"`
}

type cmcInfo struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description"`
	Logo        string   `json:"logo"`
	Tags        []string `json:"tags"`
	Algorithm   string   `json:"algorithm"`
}

type cmcGlobalData struct {
	ActiveCryptocurrencies int     `json:"active_cryptocurrencies"`
	ActiveExchanges        int     `json:"active_exchanges"`
	BtcDominance           float64 `json:"btc_dominance"`
	Quote                  struct {
		USD struct {
			TotalMarketCap               float64 `json:"total_market_cap"`
			TotalVolume24h               float64 `json:"total_volume_24h"`
			TotalMarketCapYesterdayPctCh float64 `json:"total_market_cap_yesterday_percentage_change"`
		} `json:"USD"`
	} `json:"quote"`
}

// Listings fetches a page of the latest market listings, already sorted by
// the provider.
func (c *CoinMarketCapClient) Listings(ctx context.Context, start, limit int, sort, sortDir string) ([]domain.Cryptocurrency, error) {
	_, span := c.tracer.Start(ctx, "coinmarketcap.listings")
	defer span.End()

	endpoint := fmt.Sprintf("%s/cryptocurrency/listings/latest?start=%d&limit=%d&sort=%s&sort_dir=%s",
		c.baseURL, start, limit, url.QueryEscape(sort), url.QueryEscape(sortDir))

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}

	var raw struct {
		Data []cmcCoin `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse listings: %w", err)
	}

	coins := make([]domain.Cryptocurrency, 0, len(raw.Data))
	for _, item := range raw.Data {
		coins = append(coins, domain.Cryptocurrency{
			ID:                  strconv.FormatInt(item.ID, 10),
			Name:                item.Name,
			Symbol:              item.Symbol,
			Price:               item.Quote.USD.Price,
			MarketCap:           item.Quote.USD.MarketCap,
			Volume24h:           item.Quote.USD.Volume24h,
			ChangePercentage24h: item.Quote.USD.PercentChange24h,
			Rank:                item.CmcRank,
			LastUpdated:         item.LastUpdated,
		})
	}
	return coins, nil
}

// CoinMetadata fetches static info for one asset. Returns (nil, nil) when the
// provider has no entry for the id.
func (c *CoinMarketCapClient) CoinMetadata(ctx context.Context, id string) (*domain.CoinMetadata, error) {
	_, span := c.tracer.Start(ctx, "coinmarketcap.coin-metadata")
	defer span.End()

	body, err := c.doRequest(ctx, fmt.Sprintf("%s/cryptocurrency/info?id=%s", c.baseURL, url.QueryEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("fetch coin info for %s: %w", id, err)
	}

	var raw struct {
		Data map[string]cmcInfo `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse coin info for %s: %w", id, err)
	}

	info, ok := raw.Data[id]
	if !ok {
		return nil, nil
	}

	algorithm := info.Algorithm
	if algorithm == "" {
		algorithm = "N/A"
	}
	tags := info.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.CoinMetadata{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Description: info.Description,
		Logo:        info.Logo,
		Algorithm:   algorithm,
		Tags:        tags,
	}, nil
}

// CoinQuote fetches the live quote for one asset. Returns (nil, nil) when the
// provider has no entry for the id.
func (c *CoinMarketCapClient) CoinQuote(ctx context.Context, id string) (*domain.CoinQuote, error) {
	_, span := c.tracer.Start(ctx, "coinmarketcap.coin-quote")
	defer span.End()

	body, err := c.doRequest(ctx, fmt.Sprintf("%s/cryptocurrency/quotes/latest?id=%s", c.baseURL, url.QueryEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", id, err)
	}

	var raw struct {
		Data map[string]cmcCoin `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse quote for %s: %w", id, err)
	}

	coin, ok := raw.Data[id]
	if !ok {
		return nil, nil
	}
	return &domain.CoinQuote{
		Price:             coin.Quote.USD.Price,
		MarketCap:         coin.Quote.USD.MarketCap,
		Volume24h:         coin.Quote.USD.Volume24h,
		PercentChange1h:   coin.Quote.USD.PercentChange1h,
		PercentChange24h:  coin.Quote.USD.PercentChange24h,
		PercentChange7d:   coin.Quote.USD.PercentChange7d,
		PercentChange30d:  coin.Quote.USD.PercentChange30d,
		CirculatingSupply: coin.CirculatingSupply,
		TotalSupply:       coin.TotalSupply,
		MaxSupply:         coin.MaxSupply,
		Rank:              coin.CmcRank,
		LastUpdated:       coin.LastUpdated,
	}, nil
}

// GlobalMetrics fetches the market-wide aggregates.
func (c *CoinMarketCapClient) GlobalMetrics(ctx context.Context) (*domain.GlobalMetrics, error) {
	_, span := c.tracer.Start(ctx, "coinmarketcap.global-metrics")
	defer span.End()

	body, err := c.doRequest(ctx, c.baseURL+"/global-metrics/quotes/latest")
	if err != nil {
		return nil, fmt.Errorf("fetch global metrics: %w", err)
	}

	var raw struct {
		Data cmcGlobalData `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse global metrics: %w", err)
	}

	return &domain.GlobalMetrics{
		TotalMarketCap:               raw.Data.Quote.USD.TotalMarketCap,
		TotalVolume24h:               raw.Data.Quote.USD.TotalVolume24h,
		BitcoinDominance:             raw.Data.BtcDominance,
		ActiveCryptocurrencies:       raw.Data.ActiveCryptocurrencies,
		ActiveExchanges:              raw.Data.ActiveExchanges,
		MarketCapChangePercentage24h: raw.Data.Quote.USD.TotalMarketCapYesterdayPctCh,
	}, nil
}

func (c *CoinMarketCapClient) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coinmarketcap API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
