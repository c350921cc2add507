package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound marks a crypto id the provider has no data for. It is the only
// failure the analysis layer surfaces distinctly; everything else degrades
// into default-valued results.
var ErrNotFound = errors.New("cryptocurrency not found")

type AnalysisType string

const (
	AnalysisTypeTechnical   AnalysisType = "Technical"
	AnalysisTypeFundamental AnalysisType = "Fundamental"
	AnalysisTypeCombined    AnalysisType = "Combined"
)

// Recommendation labels form a closed set; extraction guarantees every
// analysis carries one of these.
const (
	RecommendationStrongBuy  = "Strong Buy"
	RecommendationBuy        = "Buy"
	RecommendationHold       = "Hold"
	RecommendationSell       = "Sell"
	RecommendationStrongSell = "Strong Sell"
)

// Trend direction labels, also a closed set.
const (
	TrendBullish = "Bullish"
	TrendBearish = "Bearish"
	TrendNeutral = "Neutral"
)

// Analysis is the base record shared by all three analysis types.
type Analysis struct {
	ID             string            `json:"id"`
	CryptoID       string            `json:"cryptoId"`
	CryptoName     string            `json:"cryptoName"`
	CryptoSymbol   string            `json:"cryptoSymbol"`
	Type           AnalysisType      `json:"type"`
	Summary        string            `json:"summary"`
	Indicators     map[string]string `json:"indicators"`
	Recommendation string            `json:"recommendation"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// NewAnalysis stamps a fresh base record for the given asset.
func NewAnalysis(t AnalysisType, d *CryptocurrencyDetails) Analysis {
	return Analysis{
		ID:           uuid.NewString(),
		CryptoID:     d.ID,
		CryptoName:   d.Name,
		CryptoSymbol: d.Symbol,
		Type:         t,
		Indicators:   make(map[string]string),
		CreatedAt:    time.Now().UTC(),
	}
}

type TechnicalAnalysis struct {
	Analysis

	Timeframe        string             `json:"timeframe"`
	SupportLevels    map[string]float64 `json:"supportLevels"`
	ResistanceLevels map[string]float64 `json:"resistanceLevels"`
	TrendDirection   string             `json:"trendDirection"`
	RSI              float64            `json:"rsi"`
	MACD             float64            `json:"macd"`
	Volume           float64            `json:"volume"`
}

type FundamentalAnalysis struct {
	Analysis

	TeamAssessment       string   `json:"teamAssessment"`
	TechnologyAssessment string   `json:"technologyAssessment"`
	CommunityAssessment  string   `json:"communityAssessment"`
	MarketSentiment      string   `json:"marketSentiment"`
	RecentNews           []string `json:"recentNews"`
	CompetitiveAnalysis  string   `json:"competitiveAnalysis"`
}

// CombinedAnalysis embeds full technical and fundamental passes plus the
// integrative narrative. OverallScore is always within [0,100].
type CombinedAnalysis struct {
	Analysis

	TechnicalData     *TechnicalAnalysis   `json:"technicalData"`
	FundamentalData   *FundamentalAnalysis `json:"fundamentalData"`
	IntegratedOutlook string               `json:"integratedOutlook"`
	OverallScore      int                  `json:"overallScore"`
}

// AnalysisRequest identifies the asset (and optional timeframe) to analyze.
type AnalysisRequest struct {
	CryptoID  string
	Timeframe string
}
