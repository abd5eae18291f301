// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/salesdash/backend-go/internal/api/handlers"
	"github.com/salesdash/backend-go/internal/api/middleware"
	"github.com/salesdash/backend-go/internal/service"
)

type Services struct {
	StatisticsService *service.StatisticsService
	SalesService      *service.SalesService
	CatalogService    *service.CatalogService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery(handlers.StatisticsErrorMessage))
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")

	if services != nil {
		if services.StatisticsService != nil {
			statisticsHandler := handlers.NewStatisticsHandler(services.StatisticsService)
			statisticsGroup := apiGroup.Group("/statistics")
			{
				statisticsGroup.GET("/assort", statisticsHandler.GetAssort)
				statisticsGroup.GET("/channels", statisticsHandler.GetChannels)
				statisticsGroup.GET("/sales", statisticsHandler.GetProductSales)
			}
		}

		if services.SalesService != nil {
			salesHandler := handlers.NewSalesHandler(services.SalesService)
			plansGroup := apiGroup.Group("/sales-plans")
			{
				plansGroup.GET("", salesHandler.ListPlans)
				plansGroup.GET("/options", salesHandler.GetPlanOptions)
				plansGroup.POST("", salesHandler.CreatePlan)
				plansGroup.PUT("/:id", salesHandler.UpdatePlan)
				plansGroup.DELETE("/:id", salesHandler.DeletePlan)
			}

			performanceGroup := apiGroup.Group("/sales-performance")
			{
				performanceGroup.GET("", salesHandler.ListPerformance)
				performanceGroup.POST("", salesHandler.SavePerformance)
				performanceGroup.DELETE("/:id", salesHandler.DeletePerformance)
			}
		}

		if services.CatalogService != nil {
			catalogHandler := handlers.NewCatalogHandler(services.CatalogService)
			channelsGroup := apiGroup.Group("/sales-channels")
			{
				channelsGroup.GET("", catalogHandler.ListChannels)
				channelsGroup.POST("", catalogHandler.CreateChannel)
				channelsGroup.PUT("/:id", catalogHandler.UpdateChannel)
			}

			apiGroup.GET("/set-products", catalogHandler.ListSetProducts)
			apiGroup.GET("/products", catalogHandler.ListProducts)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
