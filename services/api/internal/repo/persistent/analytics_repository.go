package persistent

import (
	"context"
	"time"

	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	CustomerKPIs(ctx context.Context, period entity.DateRange, activeSince time.Time) (entity.CustomerKPIs, error)
	LoyaltyKPIs(ctx context.Context, period entity.DateRange) (entity.LoyaltyKPIs, error)
	AffiliateKPIs(ctx context.Context, period entity.DateRange) (entity.AffiliateKPIs, error)
	WhatsAppKPIs(ctx context.Context, period entity.DateRange) (entity.WhatsAppKPIs, error)
	FinancialKPIs(ctx context.Context, period entity.DateRange) (entity.FinancialKPIs, error)
	PointsByType(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error)
	PointsBySource(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error)
	PointsByTier(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CustomerKPIs(ctx context.Context, period entity.DateRange, activeSince time.Time) (entity.CustomerKPIs, error) {
	var kpis entity.CustomerKPIs
	err := r.db.WithContext(ctx).Model(&model.CustomerModel{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE last_activity >= ?) AS active,
			COUNT(*) FILTER (WHERE joined_date >= ? AND joined_date < ?) AS new_in_period`,
			activeSince, period.From, period.To).
		Where("status = ?", entity.CustomerStatusActive).
		Scan(&kpis).Error
	if err != nil {
		return kpis, err
	}
	if kpis.Total > 0 {
		kpis.RetentionRate = float64(kpis.Active) / float64(kpis.Total) * 100
	}
	return kpis, nil
}

func (r *analyticsRepository) LoyaltyKPIs(ctx context.Context, period entity.DateRange) (entity.LoyaltyKPIs, error) {
	var kpis entity.LoyaltyKPIs
	err := r.db.WithContext(ctx).Model(&model.LoyaltyTransactionModel{}).
		Select(`COALESCE(SUM(points) FILTER (WHERE transaction_type = ? AND points > 0), 0) AS points_earned,
			COALESCE(-SUM(points) FILTER (WHERE transaction_type = ?), 0) AS points_redeemed,
			COALESCE(-SUM(points) FILTER (WHERE transaction_type = ?), 0) AS points_expired,
			COUNT(DISTINCT customer_id) FILTER (WHERE transaction_type = ?) AS active_redeemers`,
			entity.TransactionEarned, entity.TransactionRedeemed, entity.TransactionExpired, entity.TransactionRedeemed).
		Where("created_at >= ? AND created_at < ?", period.From, period.To).
		Scan(&kpis).Error
	if err != nil {
		return kpis, err
	}
	if kpis.PointsEarned > 0 {
		kpis.RedemptionRate = float64(kpis.PointsRedeemed) / float64(kpis.PointsEarned) * 100
	}
	return kpis, nil
}

func (r *analyticsRepository) AffiliateKPIs(ctx context.Context, period entity.DateRange) (entity.AffiliateKPIs, error) {
	db := r.db.WithContext(ctx)
	var kpis entity.AffiliateKPIs

	if err := db.Model(&model.AffiliateModel{}).
		Where("status IN ?", []entity.AffiliateStatus{entity.AffiliateApproved, entity.AffiliateActive}).
		Count(&kpis.ActiveAffiliates).Error; err != nil {
		return kpis, err
	}

	if err := db.Model(&model.CustomerReferralModel{}).
		Where("created_at >= ? AND created_at < ?", period.From, period.To).
		Count(&kpis.Referrals).Error; err != nil {
		return kpis, err
	}

	var totals struct {
		Pending  decimal.Decimal
		Approved decimal.Decimal
		Paid     decimal.Decimal
	}
	err := db.Model(&model.AffiliateCommissionModel{}).
		Select(`COALESCE(SUM(commission_amount) FILTER (WHERE status = ?), 0) AS pending,
			COALESCE(SUM(commission_amount) FILTER (WHERE status = ?), 0) AS approved,
			COALESCE(SUM(commission_amount) FILTER (WHERE status = ?), 0) AS paid`,
			entity.CommissionPending, entity.CommissionApproved, entity.CommissionPaid).
		Where("created_at >= ? AND created_at < ?", period.From, period.To).
		Scan(&totals).Error
	if err != nil {
		return kpis, err
	}
	kpis.CommissionsPending = totals.Pending
	kpis.CommissionsApproved = totals.Approved
	kpis.CommissionsPaid = totals.Paid
	return kpis, nil
}

func (r *analyticsRepository) WhatsAppKPIs(ctx context.Context, period entity.DateRange) (entity.WhatsAppKPIs, error) {
	var kpis entity.WhatsAppKPIs
	err := r.db.WithContext(ctx).Model(&model.WhatsAppMessageModel{}).
		Select(`COUNT(*) FILTER (WHERE status IN ?) AS sent,
			COUNT(*) FILTER (WHERE status IN ?) AS delivered,
			COUNT(*) FILTER (WHERE status = ?) AS read,
			COUNT(*) FILTER (WHERE status = ?) AS failed`,
			[]entity.MessageStatus{entity.MessageSent, entity.MessageDelivered, entity.MessageRead},
			[]entity.MessageStatus{entity.MessageDelivered, entity.MessageRead},
			entity.MessageRead, entity.MessageFailed).
		Where("direction = ? AND created_at >= ? AND created_at < ?", entity.DirectionOutbound, period.From, period.To).
		Scan(&kpis).Error
	if err != nil {
		return kpis, err
	}
	if kpis.Sent > 0 {
		kpis.DeliveryRate = float64(kpis.Delivered) / float64(kpis.Sent) * 100
	}
	return kpis, nil
}

func (r *analyticsRepository) FinancialKPIs(ctx context.Context, period entity.DateRange) (entity.FinancialKPIs, error) {
	db := r.db.WithContext(ctx)
	var kpis entity.FinancialKPIs

	if err := db.Model(&model.CustomerReferralModel{}).
		Select("COALESCE(SUM(conversion_value), 0)").
		Where("created_at >= ? AND created_at < ?", period.From, period.To).
		Scan(&kpis.ConversionValue).Error; err != nil {
		return kpis, err
	}

	if err := db.Model(&model.AffiliateCommissionModel{}).
		Select("COALESCE(SUM(commission_amount), 0)").
		Where("status <> ? AND created_at >= ? AND created_at < ?", entity.CommissionCancelled, period.From, period.To).
		Scan(&kpis.Commissions).Error; err != nil {
		return kpis, err
	}
	return kpis, nil
}

func (r *analyticsRepository) buckets(ctx context.Context, period entity.DateRange, key string, join string) ([]entity.PointsBucket, error) {
	query := r.db.WithContext(ctx).Model(&model.LoyaltyTransactionModel{}).
		Select(key + " AS key, COUNT(*) AS count, COALESCE(SUM(loyalty_transactions.points), 0) AS points")
	if join != "" {
		query = query.Joins(join)
	}

	var buckets []entity.PointsBucket
	err := query.
		Where("loyalty_transactions.created_at >= ? AND loyalty_transactions.created_at < ?", period.From, period.To).
		Group(key).
		Order("count DESC").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []entity.PointsBucket{}
	}
	return buckets, nil
}

func (r *analyticsRepository) PointsByType(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error) {
	return r.buckets(ctx, period, "loyalty_transactions.transaction_type", "")
}

func (r *analyticsRepository) PointsBySource(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error) {
	return r.buckets(ctx, period, "loyalty_transactions.source", "")
}

func (r *analyticsRepository) PointsByTier(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error) {
	return r.buckets(ctx, period, "customers.tier", "JOIN customers ON customers.id = loyalty_transactions.customer_id")
}
