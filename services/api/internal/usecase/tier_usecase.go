package usecase

import (
	"context"
	"fmt"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/metrics"
	"loyalty-hub/pkg/queue"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"
)

type TierUseCase interface {
	Evaluate(ctx context.Context, customer *entity.Customer) (*entity.TierHistory, error)
	Progress(customer *entity.Customer) *entity.TierProgress
	ListTiers(ctx context.Context) []entity.TierInfo
	ListBenefits(ctx context.Context) ([]*entity.TierBenefit, error)
	CustomerTier(ctx context.Context, customerID string) (*entity.TierProgress, error)
	ManualUpgrade(ctx context.Context, customerID string, target entity.Tier, reason, actorID string) (*entity.TierHistory, error)
}

type tierUseCase struct {
	customerRepo persistent.CustomerRepository
	benefitRepo  persistent.TierBenefitRepository
	policy       *config.TierPolicy
	publisher    EventPublisher
	logger       *logger.Logger
}

func NewTierUseCase(
	customerRepo persistent.CustomerRepository,
	benefitRepo persistent.TierBenefitRepository,
	policy *config.TierPolicy,
	publisher EventPublisher,
	logger *logger.Logger,
) TierUseCase {
	return &tierUseCase{
		customerRepo: customerRepo,
		benefitRepo:  benefitRepo,
		policy:       policy,
		publisher:    publisher,
		logger:       logger,
	}
}

// Evaluate upgrades the customer to the highest tier their balance qualifies
// for. It never downgrades. A nil history means nothing changed, including the
// case where another writer moved the tier first.
func (uc *tierUseCase) Evaluate(ctx context.Context, customer *entity.Customer) (*entity.TierHistory, error) {
	qualifying := tierForPoints(uc.policy, customer.TotalPoints)
	if qualifying.Rank() <= customer.Tier.Rank() {
		return nil, nil
	}

	previous := customer.Tier
	history := &entity.TierHistory{
		CustomerID:      customer.ID,
		PreviousTier:    &previous,
		NewTier:         qualifying,
		PointsAtUpgrade: customer.TotalPoints,
		Reason:          entity.TierReasonThreshold,
	}

	changed, err := uc.customerRepo.ChangeTier(ctx, previous, history)
	if err != nil {
		uc.logger.Error("Failed to change tier for customer %s: %v", customer.ID, err)
		return nil, fmt.Errorf("failed to change tier: %w", err)
	}
	if !changed {
		uc.logger.Debug("Tier of customer %s changed concurrently, skipping", customer.ID)
		return nil, nil
	}

	customer.Tier = qualifying
	metrics.RecordTierUpgrade(string(qualifying))
	uc.logger.Info("Customer %s upgraded from %s to %s", customer.ID, previous, qualifying)

	publishEvent(ctx, uc.publisher, uc.logger, queue.Event{
		Type:         queue.EventTierUpgraded,
		CustomerID:   customer.ID,
		TotalPoints:  customer.TotalPoints,
		PreviousTier: string(previous),
		NewTier:      string(qualifying),
		Priority:     3,
	})
	return history, nil
}

func (uc *tierUseCase) Progress(customer *entity.Customer) *entity.TierProgress {
	progress := &entity.TierProgress{
		CustomerID:      customer.ID,
		CurrentTier:     customer.Tier,
		TotalPoints:     customer.TotalPoints,
		ProgressPercent: 100,
		Benefits:        benefitsFor(uc.policy, customer.Tier),
	}

	next, ok := nextTier(customer.Tier)
	if !ok {
		return progress
	}
	progress.NextTier = &next

	floor := tierThreshold(uc.policy, customer.Tier)
	ceiling := tierThreshold(uc.policy, next)
	progress.PointsToNext = ceiling - customer.TotalPoints
	if progress.PointsToNext < 0 {
		progress.PointsToNext = 0
	}

	span := ceiling - floor
	if span <= 0 {
		return progress
	}
	percent := float64(customer.TotalPoints-floor) / float64(span) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress.ProgressPercent = percent
	return progress
}

func (uc *tierUseCase) ListTiers(ctx context.Context) []entity.TierInfo {
	tiers := make([]entity.TierInfo, 0, len(entity.Tiers))
	for _, tier := range entity.Tiers {
		tiers = append(tiers, entity.TierInfo{
			Tier:      tier,
			Name:      tier.Title(),
			Threshold: tierThreshold(uc.policy, tier),
			Benefits:  benefitsFor(uc.policy, tier),
		})
	}
	return tiers
}

func (uc *tierUseCase) ListBenefits(ctx context.Context) ([]*entity.TierBenefit, error) {
	benefits, err := uc.benefitRepo.ListActive(ctx, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to list tier benefits: %v", err)
		return nil, fmt.Errorf("failed to list tier benefits: %w", err)
	}
	return benefits, nil
}

func (uc *tierUseCase) CustomerTier(ctx context.Context, customerID string) (*entity.TierProgress, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return uc.Progress(customer), nil
}

// ManualUpgrade is an admin override and may move the tier in either direction.
func (uc *tierUseCase) ManualUpgrade(ctx context.Context, customerID string, target entity.Tier, reason, actorID string) (*entity.TierHistory, error) {
	if !target.Valid() {
		return nil, errs.Validation("invalid tier: %s", target)
	}

	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Tier == target {
		return nil, errs.Validation("customer is already %s", target)
	}
	if reason == "" {
		reason = entity.TierReasonManualUpgrade
	}

	previous := customer.Tier
	history := &entity.TierHistory{
		CustomerID:      customer.ID,
		PreviousTier:    &previous,
		NewTier:         target,
		PointsAtUpgrade: customer.TotalPoints,
		Reason:          reason,
	}
	if actorID != "" {
		history.ChangedBy = &actorID
	}

	changed, err := uc.customerRepo.ChangeTier(ctx, previous, history)
	if err != nil {
		uc.logger.Error("Failed to upgrade tier for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to upgrade tier: %w", err)
	}
	if !changed {
		return nil, errs.Conflict("tier of customer %s changed concurrently", customerID)
	}

	if target.Rank() > previous.Rank() {
		metrics.RecordTierUpgrade(string(target))
		publishEvent(ctx, uc.publisher, uc.logger, queue.Event{
			Type:         queue.EventTierUpgraded,
			CustomerID:   customer.ID,
			TotalPoints:  customer.TotalPoints,
			PreviousTier: string(previous),
			NewTier:      string(target),
			Reason:       reason,
			Priority:     3,
		})
	}
	return history, nil
}

func tierThreshold(policy *config.TierPolicy, tier entity.Tier) int {
	switch tier {
	case entity.TierSilver:
		return policy.Thresholds.Silver
	case entity.TierGold:
		return policy.Thresholds.Gold
	case entity.TierPlatinum:
		return policy.Thresholds.Platinum
	}
	return 0
}

// tierForPoints scans thresholds ascending and keeps the highest one reached.
func tierForPoints(policy *config.TierPolicy, points int) entity.Tier {
	result := entity.TierBronze
	for _, tier := range entity.Tiers {
		if points >= tierThreshold(policy, tier) {
			result = tier
		}
	}
	return result
}

func nextTier(tier entity.Tier) (entity.Tier, bool) {
	rank := tier.Rank()
	if rank < 0 {
		return entity.TierSilver, true
	}
	if rank+1 >= len(entity.Tiers) {
		return "", false
	}
	return entity.Tiers[rank+1], true
}

func benefitsFor(policy *config.TierPolicy, tier entity.Tier) entity.TierBenefits {
	set := policy.Benefits[string(tier)]
	return entity.TierBenefits{
		PointsMultiplier:   set.PointsMultiplier,
		DiscountPercentage: set.DiscountPercentage,
		PrioritySupport:    set.PrioritySupport,
		FreeShipping:       set.FreeShipping,
		ExclusiveAccess:    set.ExclusiveAccess,
	}
}
