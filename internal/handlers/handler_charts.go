package handlers

import (
	"net/http"

	portssvc "github.com/currensee/currency_converter_app/internal/core/ports/services"
	"github.com/currensee/currency_converter_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chartHandler handles HTTP requests for chart payloads.
type chartHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newChartHandler creates a new chartHandler.
func newChartHandler(cs portssvc.ChartSvcFacade) *chartHandler {
	return &chartHandler{
		chartService: cs,
	}
}

// registerChartRoutes registers routes related to charts.
func registerChartRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newChartHandler(chartService)

	charts := rg.Group("/charts")
	{
		charts.GET("/history/:source/:target", h.seriesForPair)
		charts.GET("/distribution/currencies", h.distributionByCurrency)
		charts.GET("/distribution/kinds", h.distributionByKind)
	}
}

// seriesForPair godoc
// @Summary Rate series for a currency pair
// @Description Returns a 7-point chronological rate series; missing days are filled with synthesized placeholder values
// @Tags charts
// @Produce json
// @Param source path string true "Source currency code"
// @Param target path string true "Target currency code"
// @Success 200 {object} dto.RateSeriesResponse
// @Router /charts/history/{source}/{target} [get]
func (h *chartHandler) seriesForPair(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	series, err := h.chartService.SeriesForPair(c.Request.Context(), c.Param("source"), c.Param("target"))
	if err != nil {
		respondError(c, logger, err, "Failed to build rate series")
		return
	}

	c.JSON(http.StatusOK, series)
}

// distributionByCurrency godoc
// @Summary Conversion counts per source currency
// @Description Returns the ten most converted source currencies by occurrence count, descending
// @Tags charts
// @Produce json
// @Success 200 {object} dto.DistributionResponse
// @Router /charts/distribution/currencies [get]
func (h *chartHandler) distributionByCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	distribution, err := h.chartService.DistributionByCurrency(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build distribution")
		return
	}

	c.JSON(http.StatusOK, distribution)
}

// distributionByKind godoc
// @Summary Conversion counts per kind
// @Description Returns how many conversions were fiat-to-fiat and how many crypto-to-fiat
// @Tags charts
// @Produce json
// @Success 200 {object} dto.DistributionResponse
// @Router /charts/distribution/kinds [get]
func (h *chartHandler) distributionByKind(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	distribution, err := h.chartService.DistributionByKind(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build distribution")
		return
	}

	c.JSON(http.StatusOK, distribution)
}
