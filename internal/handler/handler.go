package handler

import (
	"context"

	"coinsight/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// MarketDataService is the market gateway surface the handlers consume.
type MarketDataService interface {
	ListPage(ctx context.Context, page, pageSize int, sortBy, sortDir string) []domain.Cryptocurrency
	GetDetails(ctx context.Context, id string) *domain.CryptocurrencyDetails
	GetPriceHistory(ctx context.Context, id, interval string, days int) *domain.PriceHistory
	GetGlobalMetrics(ctx context.Context) domain.GlobalMetrics
	Search(ctx context.Context, query string) []domain.Cryptocurrency
	GetTrendingCoins(ctx context.Context) []domain.Cryptocurrency
	GetMarketOverview(ctx context.Context) *domain.MarketOverview
}

// AnalysisProvider assembles structured analyses on demand.
type AnalysisProvider interface {
	GetTechnical(ctx context.Context, req domain.AnalysisRequest) (*domain.TechnicalAnalysis, error)
	GetFundamental(ctx context.Context, req domain.AnalysisRequest) (*domain.FundamentalAnalysis, error)
	GetCombined(ctx context.Context, req domain.AnalysisRequest) (*domain.CombinedAnalysis, error)
}

// AnalysisHistory reads back persisted analyses. Optional; the history
// endpoint answers 503 when persistence is not configured.
type AnalysisHistory interface {
	RecentByCrypto(ctx context.Context, cryptoID string, limit int) ([]domain.Analysis, error)
}

type Handler struct {
	tracer          trace.Tracer
	market          MarketDataService
	analysis        AnalysisProvider
	analysisHistory AnalysisHistory
}

func New(tracer trace.Tracer, market MarketDataService, analysis AnalysisProvider) *Handler {
	return &Handler{
		tracer:   tracer,
		market:   market,
		analysis: analysis,
	}
}

// SetAnalysisHistory wires the optional persisted-analysis reader.
func (h *Handler) SetAnalysisHistory(history AnalysisHistory) {
	h.analysisHistory = history
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	crypto := r.Group("/api/crypto")
	{
		crypto.GET("/list", h.ListCryptocurrencies)
		crypto.GET("/details/:id", h.GetCryptocurrencyDetails)
		crypto.GET("/price-history/:id", h.GetPriceHistory)
		crypto.GET("/search", h.SearchCryptocurrencies)
	}

	market := r.Group("/api/market")
	{
		market.GET("/overview", h.GetMarketOverview)
		market.GET("/trending", h.GetTrendingCoins)
		market.GET("/global-metrics", h.GetGlobalMetrics)
	}

	analysis := r.Group("/api/analysis")
	{
		analysis.GET("/technical/:cryptoId", h.GetTechnicalAnalysis)
		analysis.GET("/fundamental/:cryptoId", h.GetFundamentalAnalysis)
		analysis.GET("/combined/:cryptoId", h.GetCombinedAnalysis)
		analysis.GET("/history/:cryptoId", h.GetAnalysisHistory)
	}
}
