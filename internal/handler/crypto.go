package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"coinsight/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// listTotalItems approximates the provider's active listing count; the
// upstream plan exposes no exact total for a sorted page walk.
const listTotalItems = 5000

// ListCryptocurrencies godoc
// @Summary      List cryptocurrencies
// @Description  Returns one sorted page of the latest market listings
// @Tags         crypto
// @Produce      json
// @Param        page      query  int     false  "Page number"  default(1)
// @Param        pageSize  query  int     false  "Items per page (max 100)"  default(50)
// @Param        sortBy    query  string  false  "Sort field (market_cap, price, volume, change, name)"  default(market_cap)
// @Param        order     query  string  false  "Sort direction (asc, desc)"  default(desc)
// @Success      200  {object}  domain.PaginatedResponse
// @Failure      500  {object}  domain.ErrorResponse
// @Router       /api/crypto/list [get]
func (h *Handler) ListCryptocurrencies(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-cryptocurrencies")
	defer span.End()

	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 50)
	if pageSize > 100 {
		pageSize = 100
	}
	sortBy := c.DefaultQuery("sortBy", "market_cap")
	order := c.DefaultQuery("order", "desc")

	log.Printf("Retrieving crypto list with page=%d, pageSize=%d", page, pageSize)
	coins := h.market.ListPage(ctx, page, pageSize, sortBy, order)

	c.JSON(http.StatusOK, domain.PaginatedResponse{
		Response:   domain.OK("Cryptocurrencies retrieved successfully", coins),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (listTotalItems + pageSize - 1) / pageSize,
		TotalItems: listTotalItems,
	})
}

// GetCryptocurrencyDetails godoc
// @Summary      Get cryptocurrency details
// @Description  Returns full metadata and the latest quote for one asset
// @Tags         crypto
// @Produce      json
// @Param        id  path  string  true  "CoinMarketCap asset id"
// @Success      200  {object}  domain.Response
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /api/crypto/details/{id} [get]
func (h *Handler) GetCryptocurrencyDetails(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-cryptocurrency-details")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("crypto.id", id))

	details := h.market.GetDetails(ctx, id)
	if details == nil {
		c.JSON(http.StatusNotFound, domain.Error("Cryptocurrency with ID "+id+" not found"))
		return
	}

	c.JSON(http.StatusOK, domain.OK("Cryptocurrency details retrieved successfully", details))
}

// GetPriceHistory godoc
// @Summary      Get price history
// @Description  Returns a daily price series for one asset
// @Tags         crypto
// @Produce      json
// @Param        id        path   string  true   "CoinMarketCap asset id"
// @Param        interval  query  string  false  "Series interval"  default(1d)
// @Param        days      query  int     false  "Number of days"  default(30)
// @Success      200  {object}  domain.Response
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /api/crypto/price-history/{id} [get]
func (h *Handler) GetPriceHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price-history")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("crypto.id", id))

	interval := c.DefaultQuery("interval", "1d")
	days := intQuery(c, "days", 30)

	history := h.market.GetPriceHistory(ctx, id, interval, days)
	if history == nil || len(history.Data) == 0 {
		c.JSON(http.StatusNotFound, domain.Error("Price history for cryptocurrency "+id+" not found"))
		return
	}

	c.JSON(http.StatusOK, domain.OK("Price history retrieved successfully", history))
}

// SearchCryptocurrencies godoc
// @Summary      Search cryptocurrencies
// @Description  Case-insensitive name or symbol search over the top assets
// @Tags         crypto
// @Produce      json
// @Param        query  query  string  true  "Search term (minimum 2 characters)"
// @Success      200  {object}  domain.Response
// @Failure      400  {object}  domain.ErrorResponse
// @Router       /api/crypto/search [get]
func (h *Handler) SearchCryptocurrencies(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search-cryptocurrencies")
	defer span.End()

	query := c.Query("query")
	if len(strings.TrimSpace(query)) < 2 {
		c.JSON(http.StatusBadRequest, domain.Error("Search query must be at least 2 characters long"))
		return
	}
	span.SetAttributes(attribute.String("query", query))

	results := h.market.Search(ctx, query)
	c.JSON(http.StatusOK, domain.OK("Search completed successfully", results))
}

func intQuery(c *gin.Context, name string, def int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return def
}
