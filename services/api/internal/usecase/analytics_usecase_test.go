package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"loyalty-hub/pkg/cache"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	analyticsRepo *MockAnalyticsRepository
	customerRepo  *MockCustomerRepository
	store         *MockKeyValueStore
	uc            AnalyticsUseCase
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		analyticsRepo: new(MockAnalyticsRepository),
		customerRepo:  new(MockCustomerRepository),
		store:         new(MockKeyValueStore),
	}
	f.uc = NewAnalyticsUseCase(f.analyticsRepo, f.customerRepo, f.store, logger.New())
	return f
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 42, 0, 0, time.UTC)

	period, err := resolvePeriod(nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 14, 16, 0, 0, 0, time.UTC), period.To)
	assert.Equal(t, time.Date(2026, 9, 14, 16, 0, 0, 0, time.UTC), period.From)

	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)
	period, err = resolvePeriod(&from, &to, now)
	require.NoError(t, err)
	assert.Equal(t, from, period.From)
	assert.Equal(t, to, period.To)

	_, err = resolvePeriod(&to, &from, now)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestDashboard_CacheMissBuildsAndStores(t *testing.T) {
	f := newAnalyticsFixture()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	period := entity.DateRange{From: from, To: to}
	previous := period.Previous()
	key := fmt.Sprintf("analytics:dashboard:%d:%d", from.Unix(), to.Unix())

	f.store.On("Get", mock.Anything, key).Return("", cache.ErrMiss)
	f.analyticsRepo.On("CustomerKPIs", mock.Anything, period, from).Return(entity.CustomerKPIs{Total: 40, NewInPeriod: 15}, nil)
	f.analyticsRepo.On("CustomerKPIs", mock.Anything, previous, previous.From).Return(entity.CustomerKPIs{NewInPeriod: 10}, nil)
	f.customerRepo.On("TierDistribution", mock.Anything).Return(map[entity.Tier]int64{entity.TierBronze: 30, entity.TierSilver: 10}, nil)
	f.analyticsRepo.On("LoyaltyKPIs", mock.Anything, period).Return(entity.LoyaltyKPIs{PointsEarned: 500, PointsRedeemed: 100}, nil)
	f.analyticsRepo.On("LoyaltyKPIs", mock.Anything, previous).Return(entity.LoyaltyKPIs{PointsEarned: 1000, PointsRedeemed: 0}, nil)
	f.analyticsRepo.On("AffiliateKPIs", mock.Anything, period).Return(entity.AffiliateKPIs{Referrals: 4, CommissionsPaid: decimal.NewFromInt(20)}, nil)
	f.analyticsRepo.On("AffiliateKPIs", mock.Anything, previous).Return(entity.AffiliateKPIs{Referrals: 4}, nil)
	f.analyticsRepo.On("WhatsAppKPIs", mock.Anything, period).Return(entity.WhatsAppKPIs{Sent: 12}, nil)
	f.analyticsRepo.On("FinancialKPIs", mock.Anything, period).Return(entity.FinancialKPIs{}, nil)
	f.store.On("Set", mock.Anything, key, mock.AnythingOfType("string"), dashboardCacheTTL).Return(nil)

	dashboard, err := f.uc.Dashboard(context.Background(), &from, &to)

	require.NoError(t, err)
	assert.Equal(t, int64(40), dashboard.Customers.Total)
	assert.Equal(t, int64(10), dashboard.Customers.TierDistribution[entity.TierSilver])
	assert.InDelta(t, 50.0, dashboard.Trends.CustomerGrowth, 0.001)
	assert.InDelta(t, -50.0, dashboard.Trends.PointsEarnedGrowth, 0.001)
	assert.InDelta(t, 100.0, dashboard.Trends.RedemptionGrowth, 0.001)
	assert.InDelta(t, 0.0, dashboard.Trends.ReferralGrowth, 0.001)
	f.store.AssertExpectations(t)
}

func TestDashboard_CacheHit(t *testing.T) {
	f := newAnalyticsFixture()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	body, err := json.Marshal(entity.Dashboard{Customers: entity.CustomerKPIs{Total: 99}})
	require.NoError(t, err)
	f.store.On("Get", mock.Anything, mock.Anything).Return(string(body), nil)

	dashboard, err := f.uc.Dashboard(context.Background(), &from, &to)

	require.NoError(t, err)
	assert.Equal(t, int64(99), dashboard.Customers.Total)
	f.analyticsRepo.AssertNotCalled(t, "CustomerKPIs", mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard_RepositoryFailure(t *testing.T) {
	f := newAnalyticsFixture()
	f.store.On("Get", mock.Anything, mock.Anything).Return("", errors.New("redis down"))
	f.analyticsRepo.On("CustomerKPIs", mock.Anything, mock.Anything, mock.Anything).Return(entity.CustomerKPIs{}, errors.New("db down"))

	_, err := f.uc.Dashboard(context.Background(), nil, nil)

	assert.Error(t, err)
	f.store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerAnalytics(t *testing.T) {
	f := newAnalyticsFixture()
	f.customerRepo.On("Segments", mock.Anything, mock.Anything).Return(entity.CustomerSegments{}, nil)
	f.customerRepo.On("TierDistribution", mock.Anything).Return(map[entity.Tier]int64{entity.TierGold: 2}, nil)
	f.customerRepo.On("TopByLifetime", mock.Anything, topCustomersLimit).Return(nil, nil)

	report, err := f.uc.CustomerAnalytics(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, report.TopCustomers)
	assert.Empty(t, report.TopCustomers)
	assert.Equal(t, int64(2), report.TierDistribution[entity.TierGold])
}

func TestGrowthPercent(t *testing.T) {
	assert.Equal(t, 0.0, entity.GrowthPercent(0, 0))
	assert.Equal(t, 100.0, entity.GrowthPercent(7, 0))
	assert.InDelta(t, 25.0, entity.GrowthPercent(125, 100), 0.001)
}
