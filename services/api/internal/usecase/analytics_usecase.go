package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loyalty-hub/pkg/cache"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"
)

const (
	dashboardCachePrefix = "analytics:dashboard:"
	dashboardCacheTTL    = 5 * time.Minute
	defaultPeriodDays    = 30
	topCustomersLimit    = 10
)

type AnalyticsUseCase interface {
	Dashboard(ctx context.Context, from, to *time.Time) (*entity.Dashboard, error)
	CustomerAnalytics(ctx context.Context) (*entity.CustomerAnalyticsReport, error)
	LoyaltyAnalytics(ctx context.Context, from, to *time.Time) (*entity.LoyaltyAnalyticsReport, error)
}

type analyticsUseCase struct {
	analyticsRepo persistent.AnalyticsRepository
	customerRepo  persistent.CustomerRepository
	store         KeyValueStore
	logger        *logger.Logger
}

func NewAnalyticsUseCase(
	analyticsRepo persistent.AnalyticsRepository,
	customerRepo persistent.CustomerRepository,
	store KeyValueStore,
	logger *logger.Logger,
) AnalyticsUseCase {
	return &analyticsUseCase{
		analyticsRepo: analyticsRepo,
		customerRepo:  customerRepo,
		store:         store,
		logger:        logger,
	}
}

func (uc *analyticsUseCase) Dashboard(ctx context.Context, from, to *time.Time) (*entity.Dashboard, error) {
	period, err := resolvePeriod(from, to, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s%d:%d", dashboardCachePrefix, period.From.Unix(), period.To.Unix())

	if cached := uc.cachedDashboard(ctx, key); cached != nil {
		return cached, nil
	}

	dashboard, err := uc.buildDashboard(ctx, period)
	if err != nil {
		return nil, err
	}

	if uc.store != nil {
		if body, err := json.Marshal(dashboard); err == nil {
			if err := uc.store.Set(ctx, key, string(body), dashboardCacheTTL); err != nil {
				uc.logger.Warn("Failed to cache dashboard: %v", err)
			}
		}
	}
	return dashboard, nil
}

func (uc *analyticsUseCase) cachedDashboard(ctx context.Context, key string) *entity.Dashboard {
	if uc.store == nil {
		return nil
	}
	body, err := uc.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("Failed to read cached dashboard: %v", err)
		}
		return nil
	}
	var dashboard entity.Dashboard
	if err := json.Unmarshal([]byte(body), &dashboard); err != nil {
		uc.logger.Warn("Discarding unreadable cached dashboard: %v", err)
		return nil
	}
	return &dashboard
}

func (uc *analyticsUseCase) buildDashboard(ctx context.Context, period entity.DateRange) (*entity.Dashboard, error) {
	fail := func(what string, err error) error {
		uc.logger.Error("Failed to load %s KPIs: %v", what, err)
		return fmt.Errorf("failed to load %s kpis: %w", what, err)
	}

	customers, err := uc.analyticsRepo.CustomerKPIs(ctx, period, period.From)
	if err != nil {
		return nil, fail("customer", err)
	}
	distribution, err := uc.customerRepo.TierDistribution(ctx)
	if err != nil {
		return nil, fail("tier", err)
	}
	customers.TierDistribution = distribution

	loyalty, err := uc.analyticsRepo.LoyaltyKPIs(ctx, period)
	if err != nil {
		return nil, fail("loyalty", err)
	}
	affiliates, err := uc.analyticsRepo.AffiliateKPIs(ctx, period)
	if err != nil {
		return nil, fail("affiliate", err)
	}
	messages, err := uc.analyticsRepo.WhatsAppKPIs(ctx, period)
	if err != nil {
		return nil, fail("whatsapp", err)
	}
	financial, err := uc.analyticsRepo.FinancialKPIs(ctx, period)
	if err != nil {
		return nil, fail("financial", err)
	}

	previous := period.Previous()
	prevCustomers, err := uc.analyticsRepo.CustomerKPIs(ctx, previous, previous.From)
	if err != nil {
		return nil, fail("customer", err)
	}
	prevLoyalty, err := uc.analyticsRepo.LoyaltyKPIs(ctx, previous)
	if err != nil {
		return nil, fail("loyalty", err)
	}
	prevAffiliates, err := uc.analyticsRepo.AffiliateKPIs(ctx, previous)
	if err != nil {
		return nil, fail("affiliate", err)
	}

	return &entity.Dashboard{
		Period:     period,
		Customers:  customers,
		Loyalty:    loyalty,
		Affiliates: affiliates,
		WhatsApp:   messages,
		Financial:  financial,
		Trends: entity.Trends{
			CustomerGrowth:     entity.GrowthPercent(customers.NewInPeriod, prevCustomers.NewInPeriod),
			PointsEarnedGrowth: entity.GrowthPercent(loyalty.PointsEarned, prevLoyalty.PointsEarned),
			RedemptionGrowth:   entity.GrowthPercent(loyalty.PointsRedeemed, prevLoyalty.PointsRedeemed),
			ReferralGrowth:     entity.GrowthPercent(affiliates.Referrals, prevAffiliates.Referrals),
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (uc *analyticsUseCase) CustomerAnalytics(ctx context.Context) (*entity.CustomerAnalyticsReport, error) {
	segments, err := uc.customerRepo.Segments(ctx, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to load customer segments: %v", err)
		return nil, fmt.Errorf("failed to load segments: %w", err)
	}
	distribution, err := uc.customerRepo.TierDistribution(ctx)
	if err != nil {
		uc.logger.Error("Failed to load tier distribution: %v", err)
		return nil, fmt.Errorf("failed to load tier distribution: %w", err)
	}
	top, err := uc.customerRepo.TopByLifetime(ctx, topCustomersLimit)
	if err != nil {
		uc.logger.Error("Failed to load top customers: %v", err)
		return nil, fmt.Errorf("failed to load top customers: %w", err)
	}
	if top == nil {
		top = []entity.TopCustomer{}
	}
	return &entity.CustomerAnalyticsReport{Segments: segments, TierDistribution: distribution, TopCustomers: top}, nil
}

func (uc *analyticsUseCase) LoyaltyAnalytics(ctx context.Context, from, to *time.Time) (*entity.LoyaltyAnalyticsReport, error) {
	period, err := resolvePeriod(from, to, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	byType, err := uc.analyticsRepo.PointsByType(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to group points by type: %w", err)
	}
	bySource, err := uc.analyticsRepo.PointsBySource(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to group points by source: %w", err)
	}
	byTier, err := uc.analyticsRepo.PointsByTier(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to group points by tier: %w", err)
	}
	return &entity.LoyaltyAnalyticsReport{Period: period, ByType: byType, BySource: bySource, ByTier: byTier}, nil
}

// resolvePeriod defaults to the last 30 days, truncated to the hour so repeated
// default requests share a cache entry.
func resolvePeriod(from, to *time.Time, now time.Time) (entity.DateRange, error) {
	period := entity.DateRange{To: now.Truncate(time.Hour).Add(time.Hour)}
	if to != nil {
		period.To = to.UTC()
	}
	period.From = period.To.AddDate(0, 0, -defaultPeriodDays)
	if from != nil {
		period.From = from.UTC()
	}
	if !period.From.Before(period.To) {
		return entity.DateRange{}, errs.Validation("from must be before to")
	}
	return period, nil
}
