package persistent

import (
	"context"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
)

type RewardRepository interface {
	Create(ctx context.Context, reward *entity.Reward) error
	GetByID(ctx context.Context, id string) (*entity.Reward, error)
	Update(ctx context.Context, reward *entity.Reward) error
	SetStock(ctx context.Context, id string, quantity int, status entity.RewardStatus) error
	SetImage(ctx context.Context, id, url string) error
	List(ctx context.Context, filter entity.RewardFilter, page entity.Page) ([]*entity.Reward, int64, error)
	ListRedeemable(ctx context.Context, now time.Time) ([]*entity.Reward, error)
	Categories(ctx context.Context) ([]string, error)
	Featured(ctx context.Context, now time.Time, limit int) ([]*entity.Reward, error)

	Redeem(ctx context.Context, req entity.RedeemRequest, debit *entity.LoyaltyTransaction) (*entity.RedemptionResult, error)
	Fulfill(ctx context.Context, redemptionID, actorID, notes string, now time.Time) (*entity.RewardRedemption, error)
	Cancel(ctx context.Context, redemption *entity.RewardRedemption, refund *entity.LoyaltyTransaction, reason string) (*entity.RedemptionResult, error)
	GetRedemption(ctx context.Context, id string) (*entity.RewardRedemption, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CustomerRedemptionCounts(ctx context.Context, customerID string) (map[string]int64, error)
	ListRedemptions(ctx context.Context, customerID string, page entity.Page) ([]*entity.RewardRedemption, int64, error)

	Statistics(ctx context.Context, rewardID string) (*entity.RewardStatistics, error)
	Analytics(ctx context.Context, top int) (*entity.RewardAnalytics, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Create(ctx context.Context, reward *entity.Reward) error {
	rewardModel := ToRewardModel(reward)
	if err := r.db.WithContext(ctx).Create(rewardModel).Error; err != nil {
		return translate(err, "reward")
	}
	*reward = *ToRewardEntity(rewardModel)
	return nil
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*entity.Reward, error) {
	var rewardModel model.RewardModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rewardModel).Error; err != nil {
		return nil, translate(err, "reward")
	}
	return ToRewardEntity(&rewardModel), nil
}

// Update writes catalog fields. Stock moves only through SetStock, Redeem and Cancel.
func (r *rewardRepository) Update(ctx context.Context, reward *entity.Reward) error {
	rewardModel := ToRewardModel(reward)
	rewardModel.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(rewardModel).
		Select("name", "description", "points_required", "category", "status", "max_per_customer",
			"valid_from", "valid_until", "terms_conditions", "is_featured", "updated_at").
		Updates(rewardModel).Error
	if err != nil {
		return translate(err, "reward")
	}
	reward.UpdatedAt = rewardModel.UpdatedAt
	return nil
}

func (r *rewardRepository) SetStock(ctx context.Context, id string, quantity int, status entity.RewardStatus) error {
	res := r.db.WithContext(ctx).Model(&model.RewardModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{"stock_quantity": quantity, "status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("reward")
	}
	return nil
}

func (r *rewardRepository) SetImage(ctx context.Context, id, url string) error {
	res := r.db.WithContext(ctx).Model(&model.RewardModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{"image_url": url, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("reward")
	}
	return nil
}

func (r *rewardRepository) List(ctx context.Context, filter entity.RewardFilter, page entity.Page) ([]*entity.Reward, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.RewardModel{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rewardModels []model.RewardModel
	if err := paginate(query.Order("points_required ASC, name ASC"), page).Find(&rewardModels).Error; err != nil {
		return nil, 0, err
	}
	return toRewards(rewardModels), total, nil
}

func (r *rewardRepository) redeemable(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("status = ?", entity.RewardActive).
		Where("valid_from <= ? AND (valid_until IS NULL OR valid_until >= ?)", now, now).
		Where("stock_quantity = ? OR stock_quantity > 0", entity.UnlimitedStock)
}

func (r *rewardRepository) ListRedeemable(ctx context.Context, now time.Time) ([]*entity.Reward, error) {
	var rewardModels []model.RewardModel
	if err := r.redeemable(ctx, now).Order("points_required ASC").Find(&rewardModels).Error; err != nil {
		return nil, err
	}
	return toRewards(rewardModels), nil
}

func (r *rewardRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.RewardModel{}).
		Where("status = ? AND category IS NOT NULL AND category <> ''", entity.RewardActive).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *rewardRepository) Featured(ctx context.Context, now time.Time, limit int) ([]*entity.Reward, error) {
	var rewardModels []model.RewardModel
	err := r.redeemable(ctx, now).
		Where("is_featured = ?", true).
		Order("points_required ASC").
		Limit(limit).
		Find(&rewardModels).Error
	if err != nil {
		return nil, err
	}
	return toRewards(rewardModels), nil
}

// Redeem takes stock, debits the points and writes the redemption row in one
// transaction. Stock is taken with a conditional update, so two redemptions of
// the last unit cannot both succeed.
func (r *rewardRepository) Redeem(ctx context.Context, req entity.RedeemRequest, debit *entity.LoyaltyTransaction) (*entity.RedemptionResult, error) {
	var result *entity.RedemptionResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		res := tx.Model(&model.RewardModel{}).
			Where("id = ? AND (stock_quantity = ? OR stock_quantity >= ?)", req.Reward.ID, entity.UnlimitedStock, req.Quantity).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("CASE WHEN stock_quantity = ? THEN stock_quantity ELSE stock_quantity - ? END", entity.UnlimitedStock, req.Quantity),
				"status":         gorm.Expr("CASE WHEN stock_quantity <> ? AND stock_quantity - ? = 0 THEN ? ELSE status END", entity.UnlimitedStock, req.Quantity, entity.RewardOutOfStock),
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.InsufficientStock(req.Reward.Name)
		}

		customerModel, err := applyDelta(tx, debit, now)
		if err != nil {
			return err
		}

		redemptionModel := &model.RewardRedemptionModel{
			TransactionID:  debit.ID,
			RewardID:       req.Reward.ID,
			CustomerID:     req.Customer.ID,
			Quantity:       req.Quantity,
			PointsSpent:    -debit.Points,
			RedemptionCode: req.Code,
			Status:         string(entity.RedemptionPending),
		}
		if err := tx.Create(redemptionModel).Error; err != nil {
			return translate(err, "redemption")
		}

		redemption := ToRedemptionEntity(redemptionModel)
		redemption.Reward = req.Reward
		result = &entity.RedemptionResult{
			Redemption:  redemption,
			Transaction: debit,
			Customer:    ToCustomerEntity(customerModel),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var openRedemptionStatuses = []entity.RedemptionStatus{entity.RedemptionPending, entity.RedemptionApproved}

func (r *rewardRepository) Fulfill(ctx context.Context, redemptionID, actorID, notes string, now time.Time) (*entity.RewardRedemption, error) {
	updates := map[string]interface{}{
		"status":       entity.RedemptionFulfilled,
		"fulfilled_at": now,
		"updated_at":   now,
	}
	if actorID != "" {
		updates["fulfilled_by"] = actorID
	}
	if notes != "" {
		updates["notes"] = notes
	}

	res := r.db.WithContext(ctx).Model(&model.RewardRedemptionModel{}).
		Where("id = ? AND status IN ?", redemptionID, openRedemptionStatuses).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetRedemption(ctx, redemptionID); err != nil {
			return nil, err
		}
		return nil, errs.Validation("redemption can no longer be fulfilled")
	}
	return r.GetRedemption(ctx, redemptionID)
}

// Cancel refunds an open redemption and returns its stock in one transaction.
func (r *rewardRepository) Cancel(ctx context.Context, redemption *entity.RewardRedemption, refund *entity.LoyaltyTransaction, reason string) (*entity.RedemptionResult, error) {
	var result *entity.RedemptionResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		res := tx.Model(&model.RewardRedemptionModel{}).
			Where("id = ? AND status IN ?", redemption.ID, openRedemptionStatuses).
			Updates(map[string]interface{}{"status": entity.RedemptionCancelled, "notes": reason, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Validation("redemption can no longer be cancelled")
		}

		if err := tx.Model(&model.LoyaltyTransactionModel{}).
			Where("id = ?", redemption.TransactionID).
			Update("is_active", false).Error; err != nil {
			return err
		}

		customerModel, err := applyDelta(tx, refund, now)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.RewardModel{}).
			Where("id = ? AND stock_quantity <> ?", redemption.RewardID, entity.UnlimitedStock).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity + ?", redemption.Quantity),
				"status":         gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END", entity.RewardOutOfStock, entity.RewardActive),
				"updated_at":     now,
			}).Error; err != nil {
			return err
		}

		cancelled := *redemption
		cancelled.Status = entity.RedemptionCancelled
		cancelled.Notes = reason
		cancelled.UpdatedAt = now
		result = &entity.RedemptionResult{
			Redemption:  &cancelled,
			Transaction: refund,
			Customer:    ToCustomerEntity(customerModel),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *rewardRepository) GetRedemption(ctx context.Context, id string) (*entity.RewardRedemption, error) {
	var redemptionModel model.RewardRedemptionModel
	if err := r.db.WithContext(ctx).Preload("Reward").Where("id = ?", id).First(&redemptionModel).Error; err != nil {
		return nil, translate(err, "redemption")
	}
	return ToRedemptionEntity(&redemptionModel), nil
}

func (r *rewardRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RewardRedemptionModel{}).
		Where("redemption_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// CustomerRedemptionCounts returns, per reward, the units the customer holds
// in statuses that count against max_per_customer.
func (r *rewardRepository) CustomerRedemptionCounts(ctx context.Context, customerID string) (map[string]int64, error) {
	var rows []struct {
		RewardID string
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.RewardRedemptionModel{}).
		Select("reward_id, COALESCE(SUM(quantity), 0) AS total").
		Where("customer_id = ? AND status IN ?", customerID, entity.CountedStatuses).
		Group("reward_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.RewardID] = row.Total
	}
	return counts, nil
}

func (r *rewardRepository) ListRedemptions(ctx context.Context, customerID string, page entity.Page) ([]*entity.RewardRedemption, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.RewardRedemptionModel{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var redemptionModels []model.RewardRedemptionModel
	if err := paginate(query.Preload("Reward").Order("created_at DESC"), page).Find(&redemptionModels).Error; err != nil {
		return nil, 0, err
	}

	redemptions := make([]*entity.RewardRedemption, len(redemptionModels))
	for i := range redemptionModels {
		redemptions[i] = ToRedemptionEntity(&redemptionModels[i])
	}
	return redemptions, total, nil
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *rewardRepository) Statistics(ctx context.Context, rewardID string) (*entity.RewardStatistics, error) {
	reward, err := r.GetByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	stats := &entity.RewardStatistics{
		RewardID:       rewardID,
		ByStatus:       map[entity.RedemptionStatus]int64{},
		RemainingStock: reward.StockQuantity,
	}

	err = db.Model(&model.RewardRedemptionModel{}).
		Select(`COUNT(*) AS total_redemptions,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(SUM(points_spent) FILTER (WHERE status <> ?), 0) AS points_spent,
			COUNT(DISTINCT customer_id) AS unique_customers`, entity.RedemptionCancelled).
		Where("reward_id = ?", rewardID).
		Scan(stats).Error
	if err != nil {
		return nil, err
	}
	stats.RewardID = rewardID
	stats.RemainingStock = reward.StockQuantity

	var rows []statusCount
	if err := db.Model(&model.RewardRedemptionModel{}).
		Select("status, COUNT(*) AS count").
		Where("reward_id = ?", rewardID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[entity.RedemptionStatus(row.Status)] = row.Count
	}
	return stats, nil
}

func (r *rewardRepository) Analytics(ctx context.Context, top int) (*entity.RewardAnalytics, error) {
	db := r.db.WithContext(ctx)
	analytics := &entity.RewardAnalytics{ByStatus: map[entity.RedemptionStatus]int64{}}

	err := db.Model(&model.RewardModel{}).
		Select(`COUNT(*) AS total_rewards,
			COUNT(*) FILTER (WHERE status = ?) AS active_rewards,
			COUNT(*) FILTER (WHERE status = ? OR stock_quantity = 0) AS out_of_stock`,
			entity.RewardActive, entity.RewardOutOfStock).
		Scan(analytics).Error
	if err != nil {
		return nil, err
	}

	var totals struct {
		TotalRedemptions int64
		PointsRedeemed   int64
	}
	if err := db.Model(&model.RewardRedemptionModel{}).
		Select("COUNT(*) AS total_redemptions, COALESCE(SUM(points_spent) FILTER (WHERE status <> ?), 0) AS points_redeemed", entity.RedemptionCancelled).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	analytics.TotalRedemptions = totals.TotalRedemptions
	analytics.PointsRedeemed = totals.PointsRedeemed

	var rows []statusCount
	if err := db.Model(&model.RewardRedemptionModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		analytics.ByStatus[entity.RedemptionStatus(row.Status)] = row.Count
	}

	err = db.Model(&model.RewardRedemptionModel{}).
		Select("rewards.id AS reward_id, rewards.name AS name, COUNT(*) AS redemptions, COALESCE(SUM(reward_redemptions.points_spent), 0) AS points_spent").
		Joins("JOIN rewards ON rewards.id = reward_redemptions.reward_id").
		Where("reward_redemptions.status <> ?", entity.RedemptionCancelled).
		Group("rewards.id, rewards.name").
		Order("redemptions DESC").
		Limit(top).
		Scan(&analytics.TopRewards).Error
	if err != nil {
		return nil, err
	}
	if analytics.TopRewards == nil {
		analytics.TopRewards = []entity.TopReward{}
	}
	return analytics, nil
}

func toRewards(rewardModels []model.RewardModel) []*entity.Reward {
	rewards := make([]*entity.Reward, len(rewardModels))
	for i := range rewardModels {
		rewards[i] = ToRewardEntity(&rewardModels[i])
	}
	return rewards
}
