package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/salesdash/backend-go/internal/cache"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/statistics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatisticsRepo struct {
	rows   []domain.PerformanceRow
	err    error
	calls  int
	bounds domain.DateBounds
}

func (f *fakeStatisticsRepo) GetPerformanceRows(ctx context.Context, bounds domain.DateBounds) ([]domain.PerformanceRow, error) {
	f.calls++
	f.bounds = bounds
	return f.rows, f.err
}

type fakeCatalogRepo struct {
	mu         sync.Mutex
	channels   map[int64]*domain.SalesChannel
	sets       []*domain.SetProduct
	products   []*domain.Product
	categories []string
	listCalls  int
	err        error
}

func (f *fakeCatalogRepo) ListChannels(ctx context.Context) ([]*domain.SalesChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.SalesChannel, 0, len(f.channels))
	for _, ch := range f.channels {
		out = append(out, ch)
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetChannel(ctx context.Context, id int64) (*domain.SalesChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ch, nil
}

func (f *fakeCatalogRepo) CreateChannel(ctx context.Context, in domain.SalesChannelInput) (*domain.SalesChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := int64(len(f.channels) + 1)
	ch := &domain.SalesChannel{ID: id, ChannelCode: in.ChannelCode, ChannelName: in.ChannelName, ChannelDetails: in.ChannelDetails, IsActive: true}
	f.channels[id] = ch
	return ch, nil
}

func (f *fakeCatalogRepo) UpdateChannel(ctx context.Context, id int64, in domain.SalesChannelInput) (*domain.SalesChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ch.ChannelCode, ch.ChannelName, ch.ChannelDetails = in.ChannelCode, in.ChannelName, in.ChannelDetails
	return ch, nil
}

func (f *fakeCatalogRepo) ListSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, error) {
	return f.sets, f.err
}

func (f *fakeCatalogRepo) ListProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalogRepo) ListAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalogRepo) ListProductCategories(ctx context.Context) ([]string, error) {
	return f.categories, f.err
}

type fakeSalesRepo struct {
	plans     map[int64]*domain.SalesPlan
	saved     *domain.SalesPerformanceInput
	savedRate float64
}

func (f *fakeSalesRepo) ListSalesPlans(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPlan, error) {
	return nil, nil
}

func (f *fakeSalesRepo) GetSalesPlan(ctx context.Context, id int64) (*domain.SalesPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func (f *fakeSalesRepo) CreateSalesPlan(ctx context.Context, in domain.SalesPlanInput) (*domain.SalesPlan, error) {
	id := int64(len(f.plans) + 1)
	plan := &domain.SalesPlan{ID: id, PlanDate: in.PlanDate, ChannelID: in.ChannelID, ProductName: in.ProductName, TargetQuantity: in.TargetQuantity, IsActive: true}
	f.plans[id] = plan
	return plan, nil
}

func (f *fakeSalesRepo) UpdateSalesPlan(ctx context.Context, id int64, in domain.SalesPlanInput) (*domain.SalesPlan, error) {
	return f.GetSalesPlan(ctx, id)
}

func (f *fakeSalesRepo) DeactivateSalesPlan(ctx context.Context, id int64) error {
	if _, ok := f.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.plans, id)
	return nil
}

func (f *fakeSalesRepo) ListSalesPerformance(ctx context.Context, filter domain.SalesPlanFilter) ([]*domain.SalesPerformance, error) {
	return nil, nil
}

func (f *fakeSalesRepo) SaveSalesPerformance(ctx context.Context, in domain.SalesPerformanceInput, achievementRate float64) (*domain.SalesPerformance, error) {
	f.saved = &in
	f.savedRate = achievementRate
	return &domain.SalesPerformance{ID: 1, SalesPlanID: in.SalesPlanID, Performance: in.Performance, AchievementRate: achievementRate, Sizes: in.Sizes, IsActive: true}, nil
}

func (f *fakeSalesRepo) DeactivateSalesPerformance(ctx context.Context, id int64) error {
	return nil
}

type memoryCatalogCache struct {
	channels    []*domain.SalesChannel
	invalidated []cache.CatalogKind
}

func (m *memoryCatalogCache) GetChannels(ctx context.Context) ([]*domain.SalesChannel, bool, error) {
	return m.channels, m.channels != nil, nil
}

func (m *memoryCatalogCache) SetChannels(ctx context.Context, channels []*domain.SalesChannel) error {
	m.channels = channels
	return nil
}

func (m *memoryCatalogCache) GetSetProducts(ctx context.Context, search string) ([]*domain.SetProduct, bool, error) {
	return nil, false, nil
}

func (m *memoryCatalogCache) SetSetProducts(ctx context.Context, search string, sets []*domain.SetProduct) error {
	return nil
}

func (m *memoryCatalogCache) GetProducts(ctx context.Context, search domain.CatalogSearch) ([]*domain.Product, bool, error) {
	return nil, false, nil
}

func (m *memoryCatalogCache) SetProducts(ctx context.Context, search domain.CatalogSearch, products []*domain.Product) error {
	return nil
}

func (m *memoryCatalogCache) Invalidate(ctx context.Context, kinds ...cache.CatalogKind) error {
	m.invalidated = append(m.invalidated, kinds...)
	for _, kind := range kinds {
		if kind == cache.KindChannels {
			m.channels = nil
		}
	}
	return nil
}

func date(t *testing.T, value string) *time.Time {
	t.Helper()
	d, err := statistics.ParseCalendarDate(value)
	require.NoError(t, err)
	return d
}

func TestStatisticsServiceSkipsInvertedRange(t *testing.T) {
	repo := &fakeStatisticsRepo{}
	svc := NewStatisticsService(repo, &fakeCatalogRepo{}, statistics.KST)

	filter := domain.StatisticsFilter{StartDate: date(t, "2024-03-10"), EndDate: date(t, "2024-03-01"), Period: domain.PeriodDaily}

	assort, err := svc.Assort(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, assort)

	channels, err := svc.Channels(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, channels)

	sales, err := svc.ProductSales(context.Background(), filter)
	require.NoError(t, err)
	assert.NotNil(t, sales)
	assert.Empty(t, sales)

	assert.Equal(t, 0, repo.calls)
}

func TestStatisticsServicePassesShiftedBounds(t *testing.T) {
	repo := &fakeStatisticsRepo{}
	svc := NewStatisticsService(repo, &fakeCatalogRepo{}, statistics.KST)

	filter := domain.StatisticsFilter{StartDate: date(t, "2024-03-01"), EndDate: date(t, "2024-03-31"), Period: domain.PeriodMonthly}
	_, err := svc.Assort(context.Background(), filter)
	require.NoError(t, err)

	require.NotNil(t, repo.bounds.From)
	require.NotNil(t, repo.bounds.To)
	assert.Equal(t, "2024-03-01T09:00:00Z", repo.bounds.From.Format(time.RFC3339))
	assert.Equal(t, "2024-03-31T23:59:59.999Z", repo.bounds.To.Format("2006-01-02T15:04:05.000Z07:00"))
}

func TestStatisticsServiceProductSalesJoinsCatalog(t *testing.T) {
	planDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	repo := &fakeStatisticsRepo{rows: []domain.PerformanceRow{{
		ID:    1,
		Sizes: domain.SizeSet{S: 4, M: 6},
		Plan: &domain.SalesPlanSnapshot{
			ID:         10,
			PlanDate:   &planDate,
			SalePrice:  decimal.NewFromInt(1000),
			SetProduct: &domain.SetProductSnapshot{ID: 3, SetID: "SET-1", IndividualProductIDs: "P-S,P-M"},
		},
	}}}
	catalog := &fakeCatalogRepo{products: []*domain.Product{
		{ProductCode: "P-S", ProductName: "Tee", Specification: "S"},
		{ProductCode: "P-M", ProductName: "Tee", Specification: "M"},
	}}

	svc := NewStatisticsService(repo, catalog, statistics.KST)
	result, err := svc.ProductSales(context.Background(), domain.StatisticsFilter{Period: domain.PeriodDaily})
	require.NoError(t, err)

	entries := result["2024-03-05"]
	require.Len(t, entries, 2)
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	assert.Equal(t, 10, total)
}

func TestStatisticsServicePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewStatisticsService(&fakeStatisticsRepo{err: boom}, &fakeCatalogRepo{}, statistics.KST)

	_, err := svc.Channels(context.Background(), domain.StatisticsFilter{Period: domain.PeriodDaily})
	assert.ErrorIs(t, err, boom)

	_, err = svc.ProductSales(context.Background(), domain.StatisticsFilter{Period: domain.PeriodDaily})
	assert.ErrorIs(t, err, boom)
}

func TestCatalogServiceCachesChannelsUntilWrite(t *testing.T) {
	repo := &fakeCatalogRepo{channels: map[int64]*domain.SalesChannel{1: {ID: 1, ChannelName: "GS샵"}}}
	memory := &memoryCatalogCache{}
	svc := NewCatalogService(repo, memory)
	ctx := context.Background()

	_, err := svc.ListChannels(ctx)
	require.NoError(t, err)
	_, err = svc.ListChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.CreateChannel(ctx, domain.SalesChannelInput{ChannelCode: "CJ", ChannelName: "CJ온스타일"})
	require.NoError(t, err)
	assert.Equal(t, []cache.CatalogKind{cache.KindChannels}, memory.invalidated)

	channels, err := svc.ListChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, channels, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestCatalogServiceRejectsInvalidChannel(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogRepo{channels: map[int64]*domain.SalesChannel{}}, nil)

	_, err := svc.CreateChannel(context.Background(), domain.SalesChannelInput{ChannelCode: " ", ChannelName: "x"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "channel_code", verr.Field)
}

func TestSalesServiceCreatePlanRequiresKnownChannel(t *testing.T) {
	catalog := &fakeCatalogRepo{channels: map[int64]*domain.SalesChannel{1: {ID: 1}}}
	svc := NewSalesService(&fakeSalesRepo{plans: map[int64]*domain.SalesPlan{}}, catalog)

	unknown := int64(9)
	_, err := svc.CreatePlan(context.Background(), domain.SalesPlanInput{PlanDate: "2024-03-01", ChannelID: &unknown, ProductName: "Tee"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "channel_id", verr.Field)

	known := int64(1)
	plan, err := svc.CreatePlan(context.Background(), domain.SalesPlanInput{PlanDate: "2024-03-01", ChannelID: &known, ProductName: "Tee", TargetQuantity: 40})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", plan.PlanDate)
}

func TestSalesServiceSavePerformanceComputesRate(t *testing.T) {
	repo := &fakeSalesRepo{plans: map[int64]*domain.SalesPlan{7: {ID: 7, TargetQuantity: 40}}}
	svc := NewSalesService(repo, &fakeCatalogRepo{})

	record, err := svc.SavePerformance(context.Background(), domain.SalesPerformanceInput{
		SalesPlanID: 7,
		Sizes:       domain.SizeSet{S: 10, M: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, record.Performance)
	assert.Equal(t, 75.0, repo.savedRate)

	_, err = svc.SavePerformance(context.Background(), domain.SalesPerformanceInput{SalesPlanID: 8})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesServiceSavePerformanceZeroTarget(t *testing.T) {
	repo := &fakeSalesRepo{plans: map[int64]*domain.SalesPlan{1: {ID: 1}}}
	svc := NewSalesService(repo, &fakeCatalogRepo{})

	_, err := svc.SavePerformance(context.Background(), domain.SalesPerformanceInput{SalesPlanID: 1, Performance: 12})
	require.NoError(t, err)
	assert.Equal(t, 0.0, repo.savedRate)
}

func TestSalesServiceOptions(t *testing.T) {
	catalog := &fakeCatalogRepo{
		channels: map[int64]*domain.SalesChannel{1: {ID: 1}},
		sets:     []*domain.SetProduct{{ID: 1, SetID: "SET-1"}},
	}
	svc := NewSalesService(&fakeSalesRepo{}, catalog)

	opts, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Len(t, opts.Channels, 1)
	assert.Len(t, opts.SetProducts, 1)
	assert.NotNil(t, opts.Categories)
	assert.Empty(t, opts.Categories)

	catalog.err = errors.New("db down")
	_, err = svc.Options(context.Background())
	assert.Error(t, err)
}
