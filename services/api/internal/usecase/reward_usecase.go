package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/metrics"
	"loyalty-hub/pkg/queue"
	"loyalty-hub/pkg/s3"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"
)

const (
	redemptionCodeLength   = 10
	codeGenerationAttempts = 5
	defaultFeaturedLimit   = 6
	topRewardsLimit        = 10
)

type RewardUseCase interface {
	Create(ctx context.Context, reward entity.Reward) (*entity.Reward, error)
	Get(ctx context.Context, id string) (*entity.Reward, error)
	Update(ctx context.Context, id string, update entity.RewardUpdate) (*entity.Reward, error)
	UpdateStock(ctx context.Context, id string, quantity int) (*entity.Reward, error)
	UploadImage(ctx context.Context, id string, file io.Reader, filename, contentType string) (*entity.Reward, error)
	List(ctx context.Context, filter entity.RewardFilter, page entity.Page) (*entity.PageResult[*entity.Reward], error)
	Available(ctx context.Context, customerID string) ([]*entity.AvailableReward, error)
	Categories(ctx context.Context) ([]string, error)
	Featured(ctx context.Context, limit int) ([]*entity.Reward, error)
	Redeem(ctx context.Context, customerID, rewardID string, quantity int) (*entity.RedemptionResult, error)
	Fulfill(ctx context.Context, redemptionID, actorID, notes string) (*entity.RewardRedemption, error)
	Cancel(ctx context.Context, redemptionID, reason string) (*entity.RedemptionResult, error)
	History(ctx context.Context, customerID string, page entity.Page) (*entity.PageResult[*entity.RewardRedemption], error)
	Statistics(ctx context.Context, rewardID string) (*entity.RewardStatistics, error)
	Analytics(ctx context.Context) (*entity.RewardAnalytics, error)
}

type rewardUseCase struct {
	rewardRepo   persistent.RewardRepository
	customerRepo persistent.CustomerRepository
	files        FileStore
	publisher    EventPublisher
	logger       *logger.Logger
}

func NewRewardUseCase(
	rewardRepo persistent.RewardRepository,
	customerRepo persistent.CustomerRepository,
	files FileStore,
	publisher EventPublisher,
	logger *logger.Logger,
) RewardUseCase {
	return &rewardUseCase{
		rewardRepo:   rewardRepo,
		customerRepo: customerRepo,
		files:        files,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *rewardUseCase) Create(ctx context.Context, reward entity.Reward) (*entity.Reward, error) {
	reward.ID = ""
	reward.Name = strings.TrimSpace(reward.Name)
	if reward.MaxPerCustomer == 0 {
		reward.MaxPerCustomer = 1
	}
	if reward.ValidFrom.IsZero() {
		reward.ValidFrom = time.Now().UTC()
	}
	if reward.Status == "" {
		reward.Status = entity.RewardActive
	}
	if reward.StockQuantity == 0 && reward.Status == entity.RewardActive {
		reward.Status = entity.RewardOutOfStock
	}
	if err := validateReward(&reward); err != nil {
		return nil, err
	}

	if err := uc.rewardRepo.Create(ctx, &reward); err != nil {
		uc.logger.Error("Failed to create reward: %v", err)
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return &reward, nil
}

func (uc *rewardUseCase) Get(ctx context.Context, id string) (*entity.Reward, error) {
	return uc.rewardRepo.GetByID(ctx, id)
}

func (uc *rewardUseCase) Update(ctx context.Context, id string, update entity.RewardUpdate) (*entity.Reward, error) {
	reward, err := uc.rewardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		reward.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		reward.Description = *update.Description
	}
	if update.PointsRequired != nil {
		reward.PointsRequired = *update.PointsRequired
	}
	if update.Category != nil {
		reward.Category = *update.Category
	}
	if update.Status != nil {
		reward.Status = *update.Status
	}
	if update.MaxPerCustomer != nil {
		reward.MaxPerCustomer = *update.MaxPerCustomer
	}
	if update.ValidFrom != nil {
		reward.ValidFrom = *update.ValidFrom
	}
	if update.ValidUntil != nil {
		reward.ValidUntil = update.ValidUntil
	}
	if update.TermsConditions != nil {
		reward.TermsConditions = *update.TermsConditions
	}
	if update.IsFeatured != nil {
		reward.IsFeatured = *update.IsFeatured
	}
	if err := validateReward(reward); err != nil {
		return nil, err
	}

	if err := uc.rewardRepo.Update(ctx, reward); err != nil {
		uc.logger.Error("Failed to update reward %s: %v", id, err)
		return nil, fmt.Errorf("failed to update reward: %w", err)
	}
	return reward, nil
}

// UpdateStock sets an absolute stock level. Zero marks the reward out of stock
// and restocking an out-of-stock reward reactivates it.
func (uc *rewardUseCase) UpdateStock(ctx context.Context, id string, quantity int) (*entity.Reward, error) {
	if quantity < entity.UnlimitedStock {
		return nil, errs.Validation("stock_quantity must be -1 (unlimited) or >= 0")
	}
	reward, err := uc.rewardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := reward.Status
	switch {
	case quantity == 0 && status == entity.RewardActive:
		status = entity.RewardOutOfStock
	case quantity != 0 && status == entity.RewardOutOfStock:
		status = entity.RewardActive
	}

	if err := uc.rewardRepo.SetStock(ctx, id, quantity, status); err != nil {
		uc.logger.Error("Failed to update stock for reward %s: %v", id, err)
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	reward.StockQuantity = quantity
	reward.Status = status
	return reward, nil
}

func (uc *rewardUseCase) UploadImage(ctx context.Context, id string, file io.Reader, filename, contentType string) (*entity.Reward, error) {
	if uc.files == nil {
		return nil, errs.Validation("file storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errs.Validation("file must be an image")
	}
	reward, err := uc.rewardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := uc.files.UploadFile(s3.ObjectKey("rewards/"+id, filename), file, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload image for reward %s: %v", id, err)
		return nil, errs.External("object storage", err)
	}
	if err := uc.rewardRepo.SetImage(ctx, id, url); err != nil {
		uc.logger.Error("Failed to save image for reward %s: %v", id, err)
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	reward.ImageURL = url
	return reward, nil
}

func (uc *rewardUseCase) List(ctx context.Context, filter entity.RewardFilter, page entity.Page) (*entity.PageResult[*entity.Reward], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errs.Validation("invalid status: %s", filter.Status)
	}
	page = page.Normalize()
	rewards, total, err := uc.rewardRepo.List(ctx, filter, page)
	if err != nil {
		uc.logger.Error("Failed to list rewards: %v", err)
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	return entity.NewPageResult(rewards, total, page), nil
}

func (uc *rewardUseCase) Available(ctx context.Context, customerID string) ([]*entity.AvailableReward, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	rewards, err := uc.rewardRepo.ListRedeemable(ctx, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to list redeemable rewards: %v", err)
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	counts, err := uc.rewardRepo.CustomerRedemptionCounts(ctx, customerID)
	if err != nil {
		uc.logger.Error("Failed to count redemptions for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to count redemptions: %w", err)
	}

	available := make([]*entity.AvailableReward, 0, len(rewards))
	for _, reward := range rewards {
		item := &entity.AvailableReward{Reward: reward, RedeemedCount: counts[reward.ID], CanRedeem: true}
		switch {
		case reward.MaxPerCustomer > 0 && item.RedeemedCount >= int64(reward.MaxPerCustomer):
			item.CanRedeem = false
			item.Reason = "redemption limit reached"
		case customer.TotalPoints < reward.PointsRequired:
			item.CanRedeem = false
			item.Reason = "insufficient points"
		}
		available = append(available, item)
	}
	return available, nil
}

func (uc *rewardUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.rewardRepo.Categories(ctx)
}

func (uc *rewardUseCase) Featured(ctx context.Context, limit int) ([]*entity.Reward, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	if limit > entity.MaxPageLimit {
		limit = entity.MaxPageLimit
	}
	return uc.rewardRepo.Featured(ctx, time.Now().UTC(), limit)
}

// Redeem checks eligibility up front for clear errors; stock and balance are
// enforced again by the conditional updates inside the repository transaction.
func (uc *rewardUseCase) Redeem(ctx context.Context, customerID, rewardID string, quantity int) (*entity.RedemptionResult, error) {
	if quantity <= 0 {
		return nil, errs.Validation("quantity must be positive")
	}

	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Status != entity.CustomerStatusActive {
		return nil, errs.Validation("customer account is %s", customer.Status)
	}
	reward, err := uc.rewardRepo.GetByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if reward.Status != entity.RewardActive && reward.Status != entity.RewardOutOfStock {
		return nil, errs.Validation("reward is not active")
	}
	if !reward.ValidAt(now) {
		return nil, errs.Validation("reward is not currently valid")
	}
	if reward.Status == entity.RewardOutOfStock || !reward.HasStock(quantity) {
		return nil, errs.InsufficientStock(reward.Name)
	}

	counts, err := uc.rewardRepo.CustomerRedemptionCounts(ctx, customerID)
	if err != nil {
		uc.logger.Error("Failed to count redemptions for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to count redemptions: %w", err)
	}
	if reward.MaxPerCustomer > 0 && counts[reward.ID]+int64(quantity) > int64(reward.MaxPerCustomer) {
		return nil, errs.Validation("redemption limit of %d reached for %s", reward.MaxPerCustomer, reward.Name)
	}

	cost := reward.PointsRequired * quantity
	if cost/quantity != reward.PointsRequired {
		return nil, errs.Validation("quantity %d is too large for %s", quantity, reward.Name)
	}
	if customer.TotalPoints < cost {
		return nil, errs.InsufficientBalance(customer.TotalPoints, cost)
	}

	code, err := uc.uniqueRedemptionCode(ctx)
	if err != nil {
		return nil, err
	}

	debit := &entity.LoyaltyTransaction{
		UserID:      customer.UserID,
		CustomerID:  customer.ID,
		Points:      -cost,
		Type:        entity.TransactionRedeemed,
		Source:      entity.SourceRedemption,
		Description: "Reward redemption: " + reward.Name,
		ReferenceID: reward.ID,
		Metadata:    entity.TransactionMetadata{RewardID: reward.ID},
	}

	result, err := uc.rewardRepo.Redeem(ctx, entity.RedeemRequest{
		Customer: customer,
		Reward:   reward,
		Quantity: quantity,
		Code:     code,
	}, debit)
	if err != nil {
		uc.logger.Error("Failed to redeem reward %s for customer %s: %v", rewardID, customerID, err)
		return nil, fmt.Errorf("failed to redeem reward: %w", err)
	}

	metrics.RecordRedemption(string(entity.RedemptionPending))
	metrics.RecordPoints(string(entity.TransactionRedeemed), cost)
	uc.logger.Info("Customer %s redeemed %d x %s (code %s)", customerID, quantity, reward.Name, code)

	publishEvent(ctx, uc.publisher, uc.logger, queue.Event{
		Type:           queue.EventRewardRedeemed,
		CustomerID:     customer.ID,
		Points:         cost,
		TotalPoints:    result.Customer.TotalPoints,
		RewardName:     reward.Name,
		RedemptionCode: code,
		Priority:       4,
	})
	return result, nil
}

func (uc *rewardUseCase) Fulfill(ctx context.Context, redemptionID, actorID, notes string) (*entity.RewardRedemption, error) {
	redemption, err := uc.rewardRepo.Fulfill(ctx, redemptionID, actorID, notes, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to fulfill redemption %s: %v", redemptionID, err)
		return nil, fmt.Errorf("failed to fulfill redemption: %w", err)
	}
	metrics.RecordRedemption(string(entity.RedemptionFulfilled))
	return redemption, nil
}

func (uc *rewardUseCase) Cancel(ctx context.Context, redemptionID, reason string) (*entity.RedemptionResult, error) {
	redemption, err := uc.rewardRepo.GetRedemption(ctx, redemptionID)
	if err != nil {
		return nil, err
	}
	if !redemption.Status.Open() {
		return nil, errs.Validation("redemption is %s and can no longer be cancelled", redemption.Status)
	}
	customer, err := uc.customerRepo.GetByID(ctx, redemption.CustomerID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "Cancelled"
	}

	refund := &entity.LoyaltyTransaction{
		UserID:      customer.UserID,
		CustomerID:  customer.ID,
		Points:      redemption.PointsSpent,
		Type:        entity.TransactionAdjustment,
		Source:      entity.SourceRedemption,
		Description: "Refund for cancelled redemption " + redemption.RedemptionCode,
		ReferenceID: redemption.ID,
		Metadata: entity.TransactionMetadata{
			RewardID:     redemption.RewardID,
			RedemptionID: redemption.ID,
			Note:         reason,
		},
	}

	result, err := uc.rewardRepo.Cancel(ctx, redemption, refund, reason)
	if err != nil {
		uc.logger.Error("Failed to cancel redemption %s: %v", redemptionID, err)
		return nil, fmt.Errorf("failed to cancel redemption: %w", err)
	}
	metrics.RecordRedemption(string(entity.RedemptionCancelled))
	return result, nil
}

func (uc *rewardUseCase) History(ctx context.Context, customerID string, page entity.Page) (*entity.PageResult[*entity.RewardRedemption], error) {
	page = page.Normalize()
	redemptions, total, err := uc.rewardRepo.ListRedemptions(ctx, customerID, page)
	if err != nil {
		uc.logger.Error("Failed to list redemptions for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	return entity.NewPageResult(redemptions, total, page), nil
}

func (uc *rewardUseCase) Statistics(ctx context.Context, rewardID string) (*entity.RewardStatistics, error) {
	return uc.rewardRepo.Statistics(ctx, rewardID)
}

func (uc *rewardUseCase) Analytics(ctx context.Context) (*entity.RewardAnalytics, error) {
	analytics, err := uc.rewardRepo.Analytics(ctx, topRewardsLimit)
	if err != nil {
		uc.logger.Error("Failed to compute reward analytics: %v", err)
		return nil, fmt.Errorf("failed to compute reward analytics: %w", err)
	}
	return analytics, nil
}

func (uc *rewardUseCase) uniqueRedemptionCode(ctx context.Context) (string, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		code, err := randomCode(redemptionCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate redemption code: %w", err)
		}
		exists, err := uc.rewardRepo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check redemption code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errs.Conflict("could not generate a unique redemption code")
}

func validateReward(reward *entity.Reward) error {
	switch {
	case reward.Name == "":
		return errs.Validation("name is required")
	case len(reward.Name) > 200:
		return errs.Validation("name must be at most 200 characters")
	case reward.PointsRequired <= 0:
		return errs.Validation("points_required must be positive")
	case reward.StockQuantity < entity.UnlimitedStock:
		return errs.Validation("stock_quantity must be -1 (unlimited) or >= 0")
	case reward.MaxPerCustomer < 1:
		return errs.Validation("max_per_customer must be at least 1")
	case !reward.Status.Valid():
		return errs.Validation("invalid status: %s", reward.Status)
	case reward.ValidUntil != nil && reward.ValidUntil.Before(reward.ValidFrom):
		return errs.Validation("valid_until must be after valid_from")
	}
	return nil
}
