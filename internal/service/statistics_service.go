package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/repository"
	"github.com/salesdash/backend-go/internal/statistics"
	"golang.org/x/sync/errgroup"
)

type StatisticsService struct {
	repo    repository.StatisticsRepository
	catalog repository.CatalogRepository
	zone    statistics.Zone
}

func NewStatisticsService(repo repository.StatisticsRepository, catalog repository.CatalogRepository, zone statistics.Zone) *StatisticsService {
	return &StatisticsService{repo: repo, catalog: catalog, zone: zone}
}

// emptyRange reports a start date after the end date. Such a filter matches
// nothing, so the store is not queried.
func emptyRange(filter domain.StatisticsFilter) bool {
	return filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate)
}

func (s *StatisticsService) rows(ctx context.Context, filter domain.StatisticsFilter) ([]domain.PerformanceRow, error) {
	if emptyRange(filter) {
		log.Debug().
			Time("start_date", *filter.StartDate).
			Time("end_date", *filter.EndDate).
			Msg("statistics: start date after end date, returning empty result")
		return nil, nil
	}
	return s.repo.GetPerformanceRows(ctx, s.zone.QueryBounds(filter))
}

// Assort returns size assortment shares per set product and period bucket.
func (s *StatisticsService) Assort(ctx context.Context, filter domain.StatisticsFilter) (domain.AssortStatistics, error) {
	rows, err := s.rows(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.zone.AggregateAssort(rows, filter.Period), nil
}

// Channels returns quantity, amount and achievement per channel and period bucket.
func (s *StatisticsService) Channels(ctx context.Context, filter domain.StatisticsFilter) (domain.ChannelStatistics, error) {
	rows, err := s.rows(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.zone.AggregateChannels(rows, filter), nil
}

// ProductSales explodes set products into catalog products and reports sales
// per product and size. Performance rows and the catalog are loaded concurrently.
func (s *StatisticsService) ProductSales(ctx context.Context, filter domain.StatisticsFilter) (domain.ProductSalesStatistics, error) {
	if emptyRange(filter) {
		return domain.ProductSalesStatistics{}, nil
	}

	var (
		rows     []domain.PerformanceRow
		products []*domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.rows(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.catalog.ListAllProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.zone.AggregateProductSales(rows, statistics.ProductIndex(products), filter.Period), nil
}
