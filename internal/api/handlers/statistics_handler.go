package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/internal/service"
)

type StatisticsHandler struct {
	service *service.StatisticsService
}

func NewStatisticsHandler(service *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// statisticsFailure answers every statistics error, malformed filters
// included, with the generic message and 500.
func statisticsFailure(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("statistics request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": StatisticsErrorMessage})
}

func (h *StatisticsHandler) GetAssort(c *gin.Context) {
	filter, err := parseStatisticsFilter(c)
	if err != nil {
		statisticsFailure(c, err)
		return
	}

	result, err := h.service.Assort(c.Request.Context(), filter)
	if err != nil {
		statisticsFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *StatisticsHandler) GetChannels(c *gin.Context) {
	filter, err := parseStatisticsFilter(c)
	if err != nil {
		statisticsFailure(c, err)
		return
	}

	result, err := h.service.Channels(c.Request.Context(), filter)
	if err != nil {
		statisticsFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *StatisticsHandler) GetProductSales(c *gin.Context) {
	filter, err := parseStatisticsFilter(c)
	if err != nil {
		statisticsFailure(c, err)
		return
	}

	result, err := h.service.ProductSales(c.Request.Context(), filter)
	if err != nil {
		statisticsFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
