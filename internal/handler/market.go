package handler

import (
	"net/http"

	"coinsight/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetMarketOverview godoc
// @Summary      Get market overview
// @Description  Returns global metrics together with the current trending coins
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.Response
// @Router       /api/market/overview [get]
func (h *Handler) GetMarketOverview(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-market-overview")
	defer span.End()

	overview := h.market.GetMarketOverview(ctx)
	c.JSON(http.StatusOK, domain.OK("Market overview retrieved successfully", overview))
}

// GetTrendingCoins godoc
// @Summary      Get trending coins
// @Description  Returns the ten assets with the highest 24h trading volume
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.Response
// @Router       /api/market/trending [get]
func (h *Handler) GetTrendingCoins(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-trending-coins")
	defer span.End()

	coins := h.market.GetTrendingCoins(ctx)
	c.JSON(http.StatusOK, domain.OK("Trending coins retrieved successfully", coins))
}

// GetGlobalMetrics godoc
// @Summary      Get global market metrics
// @Description  Returns market-wide aggregates (total cap, volume, dominance)
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.Response
// @Router       /api/market/global-metrics [get]
func (h *Handler) GetGlobalMetrics(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-global-metrics")
	defer span.End()

	metrics := h.market.GetGlobalMetrics(ctx)
	c.JSON(http.StatusOK, domain.OK("Global metrics retrieved successfully", metrics))
}
