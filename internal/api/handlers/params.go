package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/statistics"
)

// StatisticsErrorMessage is the only error text the statistics endpoints expose.
const StatisticsErrorMessage = "통계 데이터를 불러오는 중 오류가 발생했습니다."

func parseStatisticsFilter(c *gin.Context) (domain.StatisticsFilter, error) {
	filter := domain.StatisticsFilter{Period: domain.ParsePeriod(c.Query("period"))}

	start, err := statistics.ParseCalendarDate(c.Query("startDate"))
	if err != nil {
		return filter, domain.NewValidationError("startDate", "must be YYYY-MM-DD")
	}
	end, err := statistics.ParseCalendarDate(c.Query("endDate"))
	if err != nil {
		return filter, domain.NewValidationError("endDate", "must be YYYY-MM-DD")
	}

	filter.StartDate = start
	filter.EndDate = end
	return filter, nil
}

func parseSalesPlanFilter(c *gin.Context) (domain.SalesPlanFilter, error) {
	var filter domain.SalesPlanFilter

	for _, p := range []struct {
		name string
		dest *string
	}{
		{"startDate", &filter.StartDate},
		{"endDate", &filter.EndDate},
	} {
		value := strings.TrimSpace(c.Query(p.name))
		if value == "" {
			continue
		}
		if _, err := statistics.ParseCalendarDate(value); err != nil {
			return filter, domain.NewValidationError(p.name, "must be YYYY-MM-DD")
		}
		*p.dest = value
	}

	if raw := strings.TrimSpace(c.Query("channelId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, domain.NewValidationError("channelId", "must be a positive integer")
		}
		filter.ChannelID = &id
	}

	return filter, nil
}

func parseCatalogSearch(c *gin.Context) domain.CatalogSearch {
	search := domain.CatalogSearch{Search: strings.TrimSpace(c.Query("search"))}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		search.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		search.Offset = offset
	}
	return search
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// respondError maps domain errors onto status codes. Anything unexpected is
// logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
