package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/salesdash/backend-go/internal/cache"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/repository"
)

type CatalogService struct {
	repo  repository.CatalogRepository
	cache cache.CatalogCache
}

func NewCatalogService(repo repository.CatalogRepository, cacheImpl cache.CatalogCache) *CatalogService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopCatalogCache()
	}
	return &CatalogService{repo: repo, cache: cacheImpl}
}

func (s *CatalogService) ListChannels(ctx context.Context) ([]*domain.SalesChannel, error) {
	if channels, ok, err := s.cache.GetChannels(ctx); err == nil && ok {
		return channels, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("catalog: cache get channels failed")
	}

	channels, err := s.repo.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = make([]*domain.SalesChannel, 0)
	}

	if err := s.cache.SetChannels(ctx, channels); err != nil {
		log.Warn().Err(err).Msg("catalog: cache set channels failed")
	}
	return channels, nil
}

func (s *CatalogService) CreateChannel(ctx context.Context, in domain.SalesChannelInput) (*domain.SalesChannel, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	channel, err := s.repo.CreateChannel(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.KindChannels)

	log.Info().Int64("channel_id", channel.ID).Str("channel_name", channel.ChannelName).Msg("catalog: channel created")
	return channel, nil
}

func (s *CatalogService) UpdateChannel(ctx context.Context, id int64, in domain.SalesChannelInput) (*domain.SalesChannel, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	channel, err := s.repo.UpdateChannel(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.KindChannels)
	return channel, nil
}

func (s *CatalogService) ListSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, error) {
	search = strings.TrimSpace(search)

	if sets, ok, err := s.cache.GetSetProducts(ctx, search); err == nil && ok {
		return sets, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("catalog: cache get set products failed")
	}

	sets, err := s.repo.ListSetProducts(ctx, search)
	if err != nil {
		return nil, err
	}
	if sets == nil {
		sets = make([]*domain.SetProduct, 0)
	}

	if err := s.cache.SetSetProducts(ctx, search, sets); err != nil {
		log.Warn().Err(err).Msg("catalog: cache set set products failed")
	}
	return sets, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, error) {
	search.Search = strings.TrimSpace(search.Search)

	if products, ok, err := s.cache.GetProducts(ctx, search); err == nil && ok {
		return products, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("catalog: cache get products failed")
	}

	products, err := s.repo.ListProducts(ctx, search)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]*domain.Product, 0)
	}

	if err := s.cache.SetProducts(ctx, search, products); err != nil {
		log.Warn().Err(err).Msg("catalog: cache set products failed")
	}
	return products, nil
}

func (s *CatalogService) invalidate(ctx context.Context, kinds ...cache.CatalogKind) {
	if err := s.cache.Invalidate(ctx, kinds...); err != nil {
		log.Warn().Err(err).Msg("catalog: cache invalidation failed")
	}
}
