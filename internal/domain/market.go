package domain

import "time"

// Cryptocurrency is an immutable market snapshot of a single asset.
// Snapshots are replaced wholesale on refresh, never mutated in place.
type Cryptocurrency struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Symbol              string    `json:"symbol"`
	Price               float64   `json:"price"`
	MarketCap           float64   `json:"marketCap"`
	Volume24h           float64   `json:"volume24h"`
	ChangePercentage24h float64   `json:"changePercentage24h"`
	ImageURL            string    `json:"imageUrl,omitempty"`
	Rank                int       `json:"rank"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// CryptocurrencyDetails extends Cryptocurrency with metadata that only the
// info endpoint provides. Constructed fresh per fetch and cached by id.
type CryptocurrencyDetails struct {
	Cryptocurrency

	Description       string             `json:"description"`
	Algorithm         string             `json:"algorithm"`
	CirculatingSupply float64            `json:"circulatingSupply"`
	TotalSupply       float64            `json:"totalSupply"`
	MaxSupply         float64            `json:"maxSupply"`
	PriceChange       map[string]float64 `json:"priceChange"`
	Tags              []string           `json:"tags"`
}

// CoinMetadata is the static half of a details lookup (the info endpoint).
type CoinMetadata struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description"`
	Logo        string   `json:"logo"`
	Algorithm   string   `json:"algorithm"`
	Tags        []string `json:"tags"`
}

// CoinQuote is the live half of a details lookup (the quotes endpoint).
type CoinQuote struct {
	Price             float64   `json:"price"`
	MarketCap         float64   `json:"marketCap"`
	Volume24h         float64   `json:"volume24h"`
	PercentChange1h   float64   `json:"percentChange1h"`
	PercentChange24h  float64   `json:"percentChange24h"`
	PercentChange7d   float64   `json:"percentChange7d"`
	PercentChange30d  float64   `json:"percentChange30d"`
	CirculatingSupply float64   `json:"circulatingSupply"`
	TotalSupply       float64   `json:"totalSupply"`
	MaxSupply         float64   `json:"maxSupply"`
	Rank              int       `json:"rank"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// PricePoint is a single (timestamp, price, volume) sample.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
}

// PriceHistory holds an ordered price series for one asset, oldest first.
type PriceHistory struct {
	CryptoID string       `json:"cryptoId"`
	Interval string       `json:"interval"`
	Data     []PricePoint `json:"data"`
}

// GlobalMetrics summarizes the whole market.
type GlobalMetrics struct {
	TotalMarketCap               float64 `json:"totalMarketCap"`
	TotalVolume24h               float64 `json:"totalVolume24h"`
	BitcoinDominance             float64 `json:"bitcoinDominance"`
	ActiveCryptocurrencies       int     `json:"activeCryptocurrencies"`
	ActiveExchanges              int     `json:"activeExchanges"`
	MarketCapChangePercentage24h float64 `json:"marketCapChangePercentage24h"`
}

// MarketOverview combines global metrics with the current trending set.
type MarketOverview struct {
	GlobalMetrics GlobalMetrics    `json:"globalMetrics"`
	TrendingCoins []Cryptocurrency `json:"trendingCoins"`
	LastUpdated   time.Time        `json:"lastUpdated"`
}
