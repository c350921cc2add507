package handler

import (
	"errors"
	"log"
	"net/http"

	"coinsight/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetTechnicalAnalysis godoc
// @Summary      Get technical analysis
// @Description  Returns an AI-generated technical analysis with extracted indicators
// @Tags         analysis
// @Produce      json
// @Param        cryptoId   path   string  true   "CoinMarketCap asset id"
// @Param        timeframe  query  string  false  "Analysis timeframe"  default(24h)
// @Success      200  {object}  domain.Response
// @Failure      404  {object}  domain.ErrorResponse
// @Failure      500  {object}  domain.ErrorResponse
// @Router       /api/analysis/technical/{cryptoId} [get]
func (h *Handler) GetTechnicalAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-technical-analysis")
	defer span.End()

	cryptoID := c.Param("cryptoId")
	span.SetAttributes(attribute.String("crypto.id", cryptoID))

	req := domain.AnalysisRequest{
		CryptoID:  cryptoID,
		Timeframe: c.DefaultQuery("timeframe", "24h"),
	}
	result, err := h.analysis.GetTechnical(ctx, req)
	if err != nil {
		h.analysisError(c, cryptoID, "technical", err)
		return
	}

	c.JSON(http.StatusOK, domain.OK("Technical analysis retrieved successfully", result))
}

// GetFundamentalAnalysis godoc
// @Summary      Get fundamental analysis
// @Description  Returns an AI-generated fundamental analysis with extracted assessments
// @Tags         analysis
// @Produce      json
// @Param        cryptoId  path  string  true  "CoinMarketCap asset id"
// @Success      200  {object}  domain.Response
// @Failure      404  {object}  domain.ErrorResponse
// @Failure      500  {object}  domain.ErrorResponse
// @Router       /api/analysis/fundamental/{cryptoId} [get]
func (h *Handler) GetFundamentalAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-fundamental-analysis")
	defer span.End()

	cryptoID := c.Param("cryptoId")
	span.SetAttributes(attribute.String("crypto.id", cryptoID))

	result, err := h.analysis.GetFundamental(ctx, domain.AnalysisRequest{CryptoID: cryptoID})
	if err != nil {
		h.analysisError(c, cryptoID, "fundamental", err)
		return
	}

	c.JSON(http.StatusOK, domain.OK("Fundamental analysis retrieved successfully", result))
}

// GetCombinedAnalysis godoc
// @Summary      Get combined analysis
// @Description  Returns an integrated analysis built from the technical and fundamental passes
// @Tags         analysis
// @Produce      json
// @Param        cryptoId   path   string  true   "CoinMarketCap asset id"
// @Param        timeframe  query  string  false  "Analysis timeframe"  default(24h)
// @Success      200  {object}  domain.Response
// @Failure      404  {object}  domain.ErrorResponse
// @Failure      500  {object}  domain.ErrorResponse
// @Router       /api/analysis/combined/{cryptoId} [get]
func (h *Handler) GetCombinedAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-combined-analysis")
	defer span.End()

	cryptoID := c.Param("cryptoId")
	span.SetAttributes(attribute.String("crypto.id", cryptoID))

	req := domain.AnalysisRequest{
		CryptoID:  cryptoID,
		Timeframe: c.DefaultQuery("timeframe", "24h"),
	}
	result, err := h.analysis.GetCombined(ctx, req)
	if err != nil {
		h.analysisError(c, cryptoID, "combined", err)
		return
	}

	c.JSON(http.StatusOK, domain.OK("Combined analysis retrieved successfully", result))
}

// GetAnalysisHistory godoc
// @Summary      Get persisted analysis history
// @Description  Returns recently generated analyses for one asset, newest first
// @Tags         analysis
// @Produce      json
// @Param        cryptoId  path   string  true   "CoinMarketCap asset id"
// @Param        limit     query  int     false  "Maximum records"  default(20)
// @Success      200  {object}  domain.Response
// @Failure      503  {object}  domain.ErrorResponse
// @Router       /api/analysis/history/{cryptoId} [get]
func (h *Handler) GetAnalysisHistory(c *gin.Context) {
	if h.analysisHistory == nil {
		c.JSON(http.StatusServiceUnavailable, domain.Error("Analysis history is not available"))
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analysis-history")
	defer span.End()

	cryptoID := c.Param("cryptoId")
	span.SetAttributes(attribute.String("crypto.id", cryptoID))

	records, err := h.analysisHistory.RecentByCrypto(ctx, cryptoID, intQuery(c, "limit", 20))
	if err != nil {
		log.Printf("error reading analysis history for %s: %v", cryptoID, err)
		c.JSON(http.StatusInternalServerError, domain.Error("Failed to retrieve analysis history for "+cryptoID))
		return
	}
	if records == nil {
		records = []domain.Analysis{}
	}

	c.JSON(http.StatusOK, domain.OK("Analysis history retrieved successfully", records))
}

// analysisError maps an analysis failure to a response without leaking
// internals: unknown ids are 404, everything else is a generic 500.
func (h *Handler) analysisError(c *gin.Context, cryptoID, kind string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, domain.Error("Cryptocurrency with ID "+cryptoID+" not found"))
		return
	}
	log.Printf("error retrieving %s analysis for %s: %v", kind, cryptoID, err)
	c.JSON(http.StatusInternalServerError, domain.Error("Failed to retrieve "+kind+" analysis for "+cryptoID))
}
