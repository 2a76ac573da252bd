package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/currensee/currency_converter_app/internal/core/domain"
	portssvc "github.com/currensee/currency_converter_app/internal/core/ports/services"
	"github.com/currensee/currency_converter_app/internal/dto"
	"github.com/currensee/currency_converter_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler handles HTTP requests that perform conversions or read
// the conversion history.
type conversionHandler struct {
	converterService portssvc.ConverterSvcFacade
}

// newConversionHandler creates a new conversionHandler.
func newConversionHandler(cs portssvc.ConverterSvcFacade) *conversionHandler {
	return &conversionHandler{
		converterService: cs,
	}
}

// registerConversionRoutes registers routes related to conversions. The
// write endpoints share a rate limiter since each one triggers an upstream
// provider call.
func registerConversionRoutes(rg *gin.RouterGroup, converterService portssvc.ConverterSvcFacade, limit gin.HandlerFunc) {
	h := newConversionHandler(converterService)

	conversions := rg.Group("/conversions")
	{
		conversions.POST("/fiat", limit, h.convertFiat)
		conversions.POST("/crypto", limit, h.convertCrypto)
		conversions.GET("", h.listConversions)
		conversions.GET("/recent", h.listRecentConversions)
		conversions.GET("/pair/:source/:target", h.listConversionsForPair)
	}
}

// convertFiat godoc
// @Summary Convert between two fiat currencies
// @Description Converts an amount using the fiat rate provider, recording the conversion in the history
// @Tags conversions
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertFiatRequest true "Conversion details"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 502 {object} map[string]string "Rate provider unavailable"
// @Router /conversions/fiat [post]
func (h *conversionHandler) convertFiat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertFiatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertFiat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.converterService.ConvertFiat(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to convert")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// convertCrypto godoc
// @Summary Convert a cryptocurrency amount into a fiat currency
// @Description Converts an amount using the crypto quote provider, recording the conversion in the history
// @Tags conversions
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertCryptoRequest true "Conversion details"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 502 {object} map[string]string "Quote provider unavailable"
// @Router /conversions/crypto [post]
func (h *conversionHandler) convertCrypto(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertCryptoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertCrypto", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.converterService.ConvertCrypto(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to convert")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listConversions godoc
// @Summary List the conversion history
// @Description Returns all conversions, optionally filtered by kind (FIAT or CRYPTO), newest first
// @Tags conversions
// @Produce json
// @Param kind query string false "Conversion kind filter" Enums(FIAT, CRYPTO)
// @Success 200 {array} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Unknown kind"
// @Router /conversions [get]
func (h *conversionHandler) listConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var conversions []domain.Conversion
	var err error

	if kind := c.Query("kind"); kind != "" {
		conversions, err = h.converterService.ListConversionsByKind(c.Request.Context(), domain.ConversionKind(strings.ToUpper(kind)))
	} else {
		conversions, err = h.converterService.ListAllConversions(c.Request.Context())
	}
	if err != nil {
		respondError(c, logger, err, "Failed to list conversions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListConversionResponse(conversions))
}

// listRecentConversions godoc
// @Summary List the ten most recent conversions
// @Tags conversions
// @Produce json
// @Success 200 {array} dto.ConversionResponse
// @Router /conversions/recent [get]
func (h *conversionHandler) listRecentConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	conversions, err := h.converterService.ListRecentConversions(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list recent conversions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListConversionResponse(conversions))
}

// listConversionsForPair godoc
// @Summary List the history for a currency pair
// @Description Returns direct and direction-inverted conversions for the pair, newest first
// @Tags conversions
// @Produce json
// @Param source path string true "Source currency code"
// @Param target path string true "Target currency code"
// @Success 200 {array} dto.ConversionResponse
// @Router /conversions/pair/{source}/{target} [get]
func (h *conversionHandler) listConversionsForPair(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	conversions, err := h.converterService.ListConversionsForPair(
		c.Request.Context(), c.Param("source"), c.Param("target"))
	if err != nil {
		respondError(c, logger, err, "Failed to list pair history")
		return
	}

	c.JSON(http.StatusOK, dto.ToListConversionResponse(conversions))
}
