package service

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"coinsight/internal/analysis"
	"coinsight/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DetailsProvider is the slice of the market gateway the analysis layer needs.
type DetailsProvider interface {
	GetDetails(ctx context.Context, id string) *domain.CryptocurrencyDetails
}

// NarrativeGenerator produces the raw analysis text for each kind. The
// methods never fail; degraded text is a sentinel string.
type NarrativeGenerator interface {
	GenerateTechnical(ctx context.Context, crypto *domain.CryptocurrencyDetails, timeframe string) string
	GenerateFundamental(ctx context.Context, crypto *domain.CryptocurrencyDetails) string
	GenerateCombined(ctx context.Context, technical, fundamental string, crypto *domain.CryptocurrencyDetails) string
}

// AnalysisRecorder persists assembled analyses. Optional; persistence is
// best effort and never fails a request.
type AnalysisRecorder interface {
	SaveAnalysis(ctx context.Context, base domain.Analysis, payload any) error
}

// AnalysisService assembles structured analyses from generated narrative.
// The only error it surfaces distinctly is domain.ErrNotFound for unknown
// crypto ids; extraction defaults absorb everything else.
type AnalysisService struct {
	tracer    trace.Tracer
	market    DetailsProvider
	generator NarrativeGenerator
	recorder  AnalysisRecorder
}

func NewAnalysisService(
	tracer trace.Tracer,
	market DetailsProvider,
	generator NarrativeGenerator,
	recorder AnalysisRecorder,
) *AnalysisService {
	return &AnalysisService{
		tracer:    tracer,
		market:    market,
		generator: generator,
		recorder:  recorder,
	}
}

// GetTechnical builds a technical analysis for the requested asset.
func (s *AnalysisService) GetTechnical(ctx context.Context, req domain.AnalysisRequest) (*domain.TechnicalAnalysis, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.get-technical")
	defer span.End()
	span.SetAttributes(attribute.String("crypto.id", req.CryptoID))

	timeframe := req.Timeframe
	if timeframe == "" {
		timeframe = "24h"
	}
	log.Printf("Generating technical analysis for crypto ID: %s with timeframe: %s", req.CryptoID, timeframe)

	crypto := s.market.GetDetails(ctx, req.CryptoID)
	if crypto == nil {
		return nil, fmt.Errorf("cryptocurrency with ID %s: %w", req.CryptoID, domain.ErrNotFound)
	}

	text := s.generator.GenerateTechnical(ctx, crypto, timeframe)

	support := analysis.ExtractDecimal(text, "support", crypto.Price*0.9)
	resistance := analysis.ExtractDecimal(text, "resistance", crypto.Price*1.1)
	rsi := analysis.ExtractDecimal(text, "RSI", 50)
	macd := analysis.ExtractDecimal(text, "MACD", 0)
	trend := analysis.ExtractTrend(text)

	result := &domain.TechnicalAnalysis{
		Analysis:         domain.NewAnalysis(domain.AnalysisTypeTechnical, crypto),
		Timeframe:        timeframe,
		SupportLevels:    map[string]float64{"key": support},
		ResistanceLevels: map[string]float64{"key": resistance},
		TrendDirection:   trend,
		RSI:              rsi,
		MACD:             macd,
		Volume:           crypto.Volume24h,
	}
	result.Summary = text
	result.Recommendation = analysis.ExtractRecommendation(text)
	result.Indicators["RSI"] = strconv.FormatFloat(rsi, 'f', 2, 64)
	result.Indicators["MACD"] = strconv.FormatFloat(macd, 'f', 2, 64)
	result.Indicators["Trend"] = trend

	s.record(ctx, result.Analysis, result)
	return result, nil
}

// GetFundamental builds a fundamental analysis for the requested asset.
func (s *AnalysisService) GetFundamental(ctx context.Context, req domain.AnalysisRequest) (*domain.FundamentalAnalysis, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.get-fundamental")
	defer span.End()
	span.SetAttributes(attribute.String("crypto.id", req.CryptoID))

	log.Printf("Generating fundamental analysis for crypto ID: %s", req.CryptoID)

	crypto := s.market.GetDetails(ctx, req.CryptoID)
	if crypto == nil {
		return nil, fmt.Errorf("cryptocurrency with ID %s: %w", req.CryptoID, domain.ErrNotFound)
	}

	text := s.generator.GenerateFundamental(ctx, crypto)

	team := analysis.ExtractSection(text, "Team")
	technology := analysis.ExtractSection(text, "Technology")
	community := analysis.ExtractSection(text, "Community")
	sentiment := analysis.ExtractSentiment(text)

	result := &domain.FundamentalAnalysis{
		Analysis:             domain.NewAnalysis(domain.AnalysisTypeFundamental, crypto),
		TeamAssessment:       team,
		TechnologyAssessment: technology,
		CommunityAssessment:  community,
		MarketSentiment:      sentiment,
		RecentNews:           []string{},
		CompetitiveAnalysis:  analysis.ExtractSection(text, "Competition"),
	}
	result.Summary = text
	result.Recommendation = analysis.ExtractRecommendation(text)
	result.Indicators["Team"] = truncate(team, 100)
	result.Indicators["Technology"] = truncate(technology, 100)
	result.Indicators["Community"] = truncate(community, 100)
	result.Indicators["Sentiment"] = sentiment

	s.record(ctx, result.Analysis, result)
	return result, nil
}

// GetCombined builds the integrative analysis. The technical and fundamental
// passes run first; their caches make the reuse cheap.
func (s *AnalysisService) GetCombined(ctx context.Context, req domain.AnalysisRequest) (*domain.CombinedAnalysis, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.get-combined")
	defer span.End()
	span.SetAttributes(attribute.String("crypto.id", req.CryptoID))

	log.Printf("Generating combined analysis for crypto ID: %s", req.CryptoID)

	crypto := s.market.GetDetails(ctx, req.CryptoID)
	if crypto == nil {
		return nil, fmt.Errorf("cryptocurrency with ID %s: %w", req.CryptoID, domain.ErrNotFound)
	}

	technical, err := s.GetTechnical(ctx, req)
	if err != nil {
		return nil, err
	}
	fundamental, err := s.GetFundamental(ctx, req)
	if err != nil {
		return nil, err
	}

	text := s.generator.GenerateCombined(ctx, technical.Summary, fundamental.Summary, crypto)

	score := analysis.ExtractScore(text)

	result := &domain.CombinedAnalysis{
		Analysis:          domain.NewAnalysis(domain.AnalysisTypeCombined, crypto),
		TechnicalData:     technical,
		FundamentalData:   fundamental,
		IntegratedOutlook: analysis.ExtractSection(text, "Outlook"),
		OverallScore:      score,
	}
	result.Summary = text
	result.Recommendation = analysis.ExtractRecommendation(text)
	result.Indicators["Technical"] = technical.Recommendation
	result.Indicators["Fundamental"] = fundamental.Recommendation
	result.Indicators["Score"] = strconv.Itoa(score)

	s.record(ctx, result.Analysis, result)
	return result, nil
}

func (s *AnalysisService) record(ctx context.Context, base domain.Analysis, payload any) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveAnalysis(ctx, base, payload); err != nil {
		log.Printf("error persisting %s analysis for %s: %v", base.Type, base.CryptoID, err)
	}
}

func truncate(text string, max int) string {
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
