// backend-go/internal/repository/statistics_repository.go
package repository

import (
	"context"

	"github.com/salesdash/backend-go/internal/domain"
)

// StatisticsRepository reads the joined performance rows the statistics are built from.
type StatisticsRepository interface {
	GetPerformanceRows(ctx context.Context, bounds domain.DateBounds) ([]domain.PerformanceRow, error)
}

// CatalogRepository covers channels, set products and products.
type CatalogRepository interface {
	ListChannels(ctx context.Context) ([]*domain.SalesChannel, error)
	GetChannel(ctx context.Context, id int64) (*domain.SalesChannel, error)
	CreateChannel(ctx context.Context, in domain.SalesChannelInput) (*domain.SalesChannel, error)
	UpdateChannel(ctx context.Context, id int64, in domain.SalesChannelInput) (*domain.SalesChannel, error)

	ListSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, error)
	ListProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, error)
	ListAllProducts(ctx context.Context) ([]*domain.Product, error)
	ListProductCategories(ctx context.Context) ([]string, error)
}

// SalesRepository covers sales plans and their performance records.
type SalesRepository interface {
	ListSalesPlans(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPlan, error)
	GetSalesPlan(ctx context.Context, id int64) (*domain.SalesPlan, error)
	CreateSalesPlan(ctx context.Context, in domain.SalesPlanInput) (*domain.SalesPlan, error)
	UpdateSalesPlan(ctx context.Context, id int64, in domain.SalesPlanInput) (*domain.SalesPlan, error)
	DeactivateSalesPlan(ctx context.Context, id int64) error

	ListSalesPerformance(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPerformance, error)
	SaveSalesPerformance(ctx context.Context, in domain.SalesPerformanceInput, achievementRate float64) (*domain.SalesPerformance, error)
	DeactivateSalesPerformance(ctx context.Context, id int64) error
}
