package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/repository"
	"github.com/salesdash/backend-go/internal/statistics"
	"golang.org/x/sync/errgroup"
)

type SalesService struct {
	repo    repository.SalesRepository
	catalog repository.CatalogRepository
}

func NewSalesService(repo repository.SalesRepository, catalog repository.CatalogRepository) *SalesService {
	return &SalesService{repo: repo, catalog: catalog}
}

func (s *SalesService) ListPlans(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPlan, error) {
	plans, err := s.repo.ListSalesPlans(ctx, filter)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = make([]*domain.SalesPlan, 0)
	}
	return plans, nil
}

func (s *SalesService) GetPlan(ctx context.Context, id int64) (*domain.SalesPlan, error) {
	return s.repo.GetSalesPlan(ctx, id)
}

func (s *SalesService) CreatePlan(ctx context.Context, in domain.SalesPlanInput) (*domain.SalesPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireChannel(ctx, in.ChannelID); err != nil {
		return nil, err
	}

	plan, err := s.repo.CreateSalesPlan(ctx, in)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("plan_id", plan.ID).Str("plan_date", plan.PlanDate).Msg("sales: plan created")
	return plan, nil
}

func (s *SalesService) UpdatePlan(ctx context.Context, id int64, in domain.SalesPlanInput) (*domain.SalesPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireChannel(ctx, in.ChannelID); err != nil {
		return nil, err
	}
	return s.repo.UpdateSalesPlan(ctx, id, in)
}

func (s *SalesService) DeletePlan(ctx context.Context, id int64) error {
	if err := s.repo.DeactivateSalesPlan(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("plan_id", id).Msg("sales: plan deactivated")
	return nil
}

// requireChannel rejects plans pointing at an unknown or inactive channel.
func (s *SalesService) requireChannel(ctx context.Context, channelID *int64) error {
	if channelID == nil {
		return domain.NewValidationError("channel_id", "required")
	}
	if _, err := s.catalog.GetChannel(ctx, *channelID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("channel_id", "unknown channel")
		}
		return err
	}
	return nil
}

// Options loads everything the plan form needs in parallel.
func (s *SalesService) Options(ctx context.Context) (*domain.SalesPlanOptions, error) {
	opts := &domain.SalesPlanOptions{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opts.Channels, err = s.catalog.ListChannels(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		opts.SetProducts, err = s.catalog.ListSetProducts(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		opts.Categories, err = s.catalog.ListProductCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Channels == nil {
		opts.Channels = make([]*domain.SalesChannel, 0)
	}
	if opts.SetProducts == nil {
		opts.SetProducts = make([]*domain.SetProduct, 0)
	}
	if opts.Categories == nil {
		opts.Categories = make([]string, 0)
	}
	return opts, nil
}

func (s *SalesService) ListPerformance(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPerformance, error) {
	records, err := s.repo.ListSalesPerformance(ctx, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = make([]*domain.SalesPerformance, 0)
	}
	return records, nil
}

// SavePerformance stores the realized result of a plan. When no explicit
// performance is given, the size total is used. The achievement rate is
// recomputed against the plan's target on every save.
func (s *SalesService) SavePerformance(ctx context.Context, in domain.SalesPerformanceInput) (*domain.SalesPerformance, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.repo.GetSalesPlan(ctx, in.SalesPlanID)
	if err != nil {
		return nil, err
	}

	if in.Performance == 0 {
		in.Performance = in.Sizes.Total()
	}
	rate := statistics.AchievementRate(in.Performance, plan.TargetQuantity)

	record, err := s.repo.SaveSalesPerformance(ctx, in, rate)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("plan_id", plan.ID).
		Int("performance", record.Performance).
		Float64("achievement_rate", record.AchievementRate).
		Msg("sales: performance saved")
	return record, nil
}

func (s *SalesService) DeletePerformance(ctx context.Context, id int64) error {
	return s.repo.DeactivateSalesPerformance(ctx, id)
}
