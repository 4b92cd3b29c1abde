package persistent

import (
	"context"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AffiliateRepository interface {
	Create(ctx context.Context, affiliate *entity.Affiliate) error
	GetByID(ctx context.Context, id string) (*entity.Affiliate, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Affiliate, error)
	GetByCode(ctx context.Context, code string) (*entity.Affiliate, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	UpdateProfile(ctx context.Context, affiliate *entity.Affiliate) error
	Approve(ctx context.Context, id, actorID string, now time.Time) (bool, error)
	SetStatus(ctx context.Context, id string, status entity.AffiliateStatus) error
	List(ctx context.Context, filter entity.AffiliateFilter, page entity.Page) ([]*entity.Affiliate, int64, error)

	FindReferral(ctx context.Context, affiliateID, customerID string) (*entity.CustomerReferral, error)
	CreateReferral(ctx context.Context, referral *entity.CustomerReferral) error
	GetReferral(ctx context.Context, id string) (*entity.CustomerReferral, error)
	ListReferrals(ctx context.Context, affiliateID string, page entity.Page) ([]*entity.CustomerReferral, int64, error)
	ReferralStats(ctx context.Context, affiliateID string, since time.Time) (*entity.AffiliatePerformance, error)

	CreateCommission(ctx context.Context, calc entity.CommissionCalculation) (*entity.AffiliateCommission, error)
	ApproveCommission(ctx context.Context, id, actorID string, now time.Time) (*entity.AffiliateCommission, error)
	ListCommissions(ctx context.Context, affiliateID string, status entity.CommissionStatus, page entity.Page) ([]*entity.AffiliateCommission, int64, error)
	CommissionTotals(ctx context.Context, affiliateID string, since *time.Time) (entity.CommissionTotals, error)

	CreatePayout(ctx context.Context, payout *entity.PayoutRequest) error
	GetPayout(ctx context.Context, id string) (*entity.PayoutRequest, error)
	ListPayouts(ctx context.Context, affiliateID string, status entity.PayoutStatus, page entity.Page) ([]*entity.PayoutRequest, int64, error)
	TransitionPayout(ctx context.Context, id string, from []entity.PayoutStatus, to entity.PayoutStatus, actorID, notes string, now time.Time) (*entity.PayoutRequest, error)
	CompletePayout(ctx context.Context, completion entity.PayoutCompletion) (*entity.PayoutRequest, error)
}

type affiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{db: db}
}

// Create stores the affiliate and moves its user to the affiliate role.
func (r *affiliateRepository) Create(ctx context.Context, affiliate *entity.Affiliate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affiliateModel := ToAffiliateModel(affiliate)
		if err := tx.Create(affiliateModel).Error; err != nil {
			return translate(err, "affiliate")
		}

		res := tx.Model(&model.UserModel{}).Where("id = ? AND role <> ?", affiliate.UserID, entity.RoleAdmin).
			Updates(map[string]interface{}{"role": entity.RoleAffiliate, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}

		*affiliate = *ToAffiliateEntity(affiliateModel)
		return nil
	})
}

func (r *affiliateRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.Affiliate, error) {
	var affiliateModel model.AffiliateModel
	if err := r.db.WithContext(ctx).Preload("User").Where(query, args...).First(&affiliateModel).Error; err != nil {
		return nil, translate(err, "affiliate")
	}
	return ToAffiliateEntity(&affiliateModel), nil
}

func (r *affiliateRepository) GetByID(ctx context.Context, id string) (*entity.Affiliate, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *affiliateRepository) GetByUserID(ctx context.Context, userID string) (*entity.Affiliate, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *affiliateRepository) GetByCode(ctx context.Context, code string) (*entity.Affiliate, error) {
	return r.first(ctx, "affiliate_code = ?", code)
}

func (r *affiliateRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AffiliateModel{}).Where("affiliate_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *affiliateRepository) UpdateProfile(ctx context.Context, affiliate *entity.Affiliate) error {
	affiliateModel := ToAffiliateModel(affiliate)
	affiliateModel.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(affiliateModel).
		Select("payment_method", "payment_details", "website_url", "marketing_channels", "notes", "updated_at").
		Updates(affiliateModel).Error
	if err != nil {
		return translate(err, "affiliate")
	}
	affiliate.UpdatedAt = affiliateModel.UpdatedAt
	return nil
}

// Approve moves a pending affiliate to approved. It reports false when the
// affiliate was not pending.
func (r *affiliateRepository) Approve(ctx context.Context, id, actorID string, now time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":      entity.AffiliateApproved,
		"approved_at": now,
		"updated_at":  now,
	}
	if actorID != "" {
		updates["approved_by"] = actorID
	}
	res := r.db.WithContext(ctx).Model(&model.AffiliateModel{}).
		Where("id = ? AND status = ?", id, entity.AffiliatePending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *affiliateRepository) SetStatus(ctx context.Context, id string, status entity.AffiliateStatus) error {
	res := r.db.WithContext(ctx).Model(&model.AffiliateModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("affiliate")
	}
	return nil
}

func (r *affiliateRepository) List(ctx context.Context, filter entity.AffiliateFilter, page entity.Page) ([]*entity.Affiliate, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AffiliateModel{}).
		Joins("JOIN users ON users.id = affiliates.user_id")
	if filter.Status != "" {
		query = query.Where("affiliates.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("users.name ILIKE ? OR users.email ILIKE ? OR affiliates.affiliate_code ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var affiliateModels []model.AffiliateModel
	if err := paginate(query.Preload("User").Order("affiliates.created_at DESC"), page).Find(&affiliateModels).Error; err != nil {
		return nil, 0, err
	}

	affiliates := make([]*entity.Affiliate, len(affiliateModels))
	for i := range affiliateModels {
		affiliates[i] = ToAffiliateEntity(&affiliateModels[i])
	}
	return affiliates, total, nil
}

func (r *affiliateRepository) FindReferral(ctx context.Context, affiliateID, customerID string) (*entity.CustomerReferral, error) {
	var referralModel model.CustomerReferralModel
	err := r.db.WithContext(ctx).
		Where("affiliate_id = ? AND customer_id = ?", affiliateID, customerID).
		First(&referralModel).Error
	if err != nil {
		return nil, translate(err, "referral")
	}
	return ToReferralEntity(&referralModel), nil
}

func (r *affiliateRepository) CreateReferral(ctx context.Context, referral *entity.CustomerReferral) error {
	referralModel := ToReferralModel(referral)
	if err := r.db.WithContext(ctx).Create(referralModel).Error; err != nil {
		return translate(err, "referral")
	}
	*referral = *ToReferralEntity(referralModel)
	return nil
}

func (r *affiliateRepository) GetReferral(ctx context.Context, id string) (*entity.CustomerReferral, error) {
	var referralModel model.CustomerReferralModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&referralModel).Error; err != nil {
		return nil, translate(err, "referral")
	}
	return ToReferralEntity(&referralModel), nil
}

func (r *affiliateRepository) ListReferrals(ctx context.Context, affiliateID string, page entity.Page) ([]*entity.CustomerReferral, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.CustomerReferralModel{}).Where("affiliate_id = ?", affiliateID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var referralModels []model.CustomerReferralModel
	if err := paginate(query.Order("created_at DESC"), page).Find(&referralModels).Error; err != nil {
		return nil, 0, err
	}

	referrals := make([]*entity.CustomerReferral, len(referralModels))
	for i := range referralModels {
		referrals[i] = ToReferralEntity(&referralModels[i])
	}
	return referrals, total, nil
}

func (r *affiliateRepository) ReferralStats(ctx context.Context, affiliateID string, since time.Time) (*entity.AffiliatePerformance, error) {
	var row struct {
		Referrals       int64
		Conversions     int64
		ConversionValue decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.CustomerReferralModel{}).
		Select(`COUNT(*) AS referrals,
			COUNT(*) FILTER (WHERE status = ?) AS conversions,
			COALESCE(SUM(conversion_value), 0) AS conversion_value`, entity.ReferralConverted).
		Where("affiliate_id = ? AND created_at >= ?", affiliateID, since).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	perf := &entity.AffiliatePerformance{
		AffiliateID:     affiliateID,
		Referrals:       row.Referrals,
		Conversions:     row.Conversions,
		ConversionValue: row.ConversionValue,
	}
	if row.Referrals > 0 {
		perf.ConversionRate = float64(row.Conversions) / float64(row.Referrals) * 100
	}
	return perf, nil
}

// CreateCommission writes a pending commission and moves the affiliate and
// referral running totals by the same amount in one transaction.
func (r *affiliateRepository) CreateCommission(ctx context.Context, calc entity.CommissionCalculation) (*entity.AffiliateCommission, error) {
	var commission *entity.AffiliateCommission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		referralID := calc.Referral.ID
		commissionModel := &model.AffiliateCommissionModel{
			AffiliateID:      calc.Affiliate.ID,
			UserID:           calc.Affiliate.UserID,
			ReferralID:       &referralID,
			CommissionAmount: calc.Amount,
			CommissionRate:   calc.Rate,
			Status:           string(entity.CommissionPending),
			Description:      calc.Description,
		}
		if err := tx.Create(commissionModel).Error; err != nil {
			return translate(err, "commission")
		}

		res := tx.Model(&model.AffiliateModel{}).Where("id = ?", calc.Affiliate.ID).
			Updates(map[string]interface{}{
				"total_earnings": gorm.Expr("total_earnings + ?", calc.Amount),
				"unpaid_balance": gorm.Expr("unpaid_balance + ?", calc.Amount),
				"last_activity":  now,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("affiliate")
		}

		if err := tx.Model(&model.CustomerReferralModel{}).Where("id = ?", referralID).
			Updates(map[string]interface{}{
				"conversion_value":  gorm.Expr("conversion_value + ?", calc.PurchaseAmount),
				"commission_amount": gorm.Expr("commission_amount + ?", calc.Amount),
				"updated_at":        now,
			}).Error; err != nil {
			return err
		}

		commission = ToCommissionEntity(commissionModel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commission, nil
}

func (r *affiliateRepository) getCommission(ctx context.Context, id string) (*entity.AffiliateCommission, error) {
	var commissionModel model.AffiliateCommissionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&commissionModel).Error; err != nil {
		return nil, translate(err, "commission")
	}
	return ToCommissionEntity(&commissionModel), nil
}

func (r *affiliateRepository) ApproveCommission(ctx context.Context, id, actorID string, now time.Time) (*entity.AffiliateCommission, error) {
	updates := map[string]interface{}{
		"status":      entity.CommissionApproved,
		"approved_at": now,
		"updated_at":  now,
	}
	if actorID != "" {
		updates["approved_by"] = actorID
	}
	res := r.db.WithContext(ctx).Model(&model.AffiliateCommissionModel{}).
		Where("id = ? AND status = ?", id, entity.CommissionPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.getCommission(ctx, id); err != nil {
			return nil, err
		}
		return nil, errs.Validation("only pending commissions can be approved")
	}
	return r.getCommission(ctx, id)
}

func (r *affiliateRepository) ListCommissions(ctx context.Context, affiliateID string, status entity.CommissionStatus, page entity.Page) ([]*entity.AffiliateCommission, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AffiliateCommissionModel{}).Where("affiliate_id = ?", affiliateID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var commissionModels []model.AffiliateCommissionModel
	if err := paginate(query.Order("created_at DESC"), page).Find(&commissionModels).Error; err != nil {
		return nil, 0, err
	}

	commissions := make([]*entity.AffiliateCommission, len(commissionModels))
	for i := range commissionModels {
		commissions[i] = ToCommissionEntity(&commissionModels[i])
	}
	return commissions, total, nil
}

// CommissionTotals sums commission amounts per status. An empty affiliateID
// covers every affiliate.
func (r *affiliateRepository) CommissionTotals(ctx context.Context, affiliateID string, since *time.Time) (entity.CommissionTotals, error) {
	var totals entity.CommissionTotals
	query := r.db.WithContext(ctx).Model(&model.AffiliateCommissionModel{}).
		Select(`COALESCE(SUM(commission_amount) FILTER (WHERE status = ?), 0) AS pending,
			COALESCE(SUM(commission_amount) FILTER (WHERE status = ?), 0) AS approved,
			COALESCE(SUM(commission_amount) FILTER (WHERE status = ?), 0) AS paid,
			COALESCE(SUM(commission_amount) FILTER (WHERE status = ?), 0) AS cancelled,
			COUNT(*) AS count`,
			entity.CommissionPending, entity.CommissionApproved, entity.CommissionPaid, entity.CommissionCancelled)
	if affiliateID != "" {
		query = query.Where("affiliate_id = ?", affiliateID)
	}
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	err := query.Scan(&totals).Error
	return totals, err
}

func (r *affiliateRepository) CreatePayout(ctx context.Context, payout *entity.PayoutRequest) error {
	payoutModel := ToPayoutModel(payout)
	if err := r.db.WithContext(ctx).Create(payoutModel).Error; err != nil {
		return translate(err, "payout")
	}
	*payout = *ToPayoutEntity(payoutModel)
	return nil
}

func (r *affiliateRepository) GetPayout(ctx context.Context, id string) (*entity.PayoutRequest, error) {
	var payoutModel model.PayoutRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payoutModel).Error; err != nil {
		return nil, translate(err, "payout")
	}
	return ToPayoutEntity(&payoutModel), nil
}

func (r *affiliateRepository) ListPayouts(ctx context.Context, affiliateID string, status entity.PayoutStatus, page entity.Page) ([]*entity.PayoutRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.PayoutRequestModel{}).Where("affiliate_id = ?", affiliateID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payoutModels []model.PayoutRequestModel
	if err := paginate(query.Order("created_at DESC"), page).Find(&payoutModels).Error; err != nil {
		return nil, 0, err
	}

	payouts := make([]*entity.PayoutRequest, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = ToPayoutEntity(&payoutModels[i])
	}
	return payouts, total, nil
}

// TransitionPayout moves a payout to status `to` only while it is in one of `from`.
func (r *affiliateRepository) TransitionPayout(ctx context.Context, id string, from []entity.PayoutStatus, to entity.PayoutStatus, actorID, notes string, now time.Time) (*entity.PayoutRequest, error) {
	updates := map[string]interface{}{
		"status":       to,
		"processed_at": now,
		"updated_at":   now,
	}
	if actorID != "" {
		updates["processed_by"] = actorID
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := r.db.WithContext(ctx).Model(&model.PayoutRequestModel{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetPayout(ctx, id); err != nil {
			return nil, err
		}
		return nil, errs.Validation("payout cannot move to %s", to)
	}
	return r.GetPayout(ctx, id)
}

var completablePayoutStatuses = []entity.PayoutStatus{entity.PayoutPending, entity.PayoutProcessing}

// CompletePayout settles a payout against the affiliate balance. Approved
// commissions are marked paid oldest first while their running sum fits the
// payout amount.
func (r *affiliateRepository) CompletePayout(ctx context.Context, c entity.PayoutCompletion) (*entity.PayoutRequest, error) {
	var payout *entity.PayoutRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         entity.PayoutCompleted,
			"transaction_id": c.Reference,
			"processed_at":   c.CompletedAt,
			"updated_at":     c.CompletedAt,
		}
		if c.ProcessedBy != "" {
			updates["processed_by"] = c.ProcessedBy
		}
		res := tx.Model(&model.PayoutRequestModel{}).
			Where("id = ? AND status IN ?", c.Payout.ID, completablePayoutStatuses).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Validation("payout cannot be completed")
		}

		amount := c.Payout.Amount
		res = tx.Model(&model.AffiliateModel{}).
			Where("id = ? AND unpaid_balance >= ?", c.Payout.AffiliateID, amount).
			Updates(map[string]interface{}{
				"unpaid_balance": gorm.Expr("unpaid_balance - ?", amount),
				"total_paid":     gorm.Expr("total_paid + ?", amount),
				"last_activity":  c.CompletedAt,
				"updated_at":     c.CompletedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Validation("payout amount exceeds unpaid balance")
		}

		var approved []model.AffiliateCommissionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("affiliate_id = ? AND status = ?", c.Payout.AffiliateID, entity.CommissionApproved).
			Order("created_at ASC").
			Find(&approved).Error; err != nil {
			return err
		}

		var paidIDs []string
		covered := decimal.Zero
		for _, commission := range approved {
			next := covered.Add(commission.CommissionAmount)
			if next.GreaterThan(amount) {
				break
			}
			covered = next
			paidIDs = append(paidIDs, commission.ID)
		}
		if len(paidIDs) > 0 {
			if err := tx.Model(&model.AffiliateCommissionModel{}).
				Where("id IN ?", paidIDs).
				Updates(map[string]interface{}{
					"status":            entity.CommissionPaid,
					"paid_at":           c.CompletedAt,
					"payment_reference": c.Reference,
					"updated_at":        c.CompletedAt,
				}).Error; err != nil {
				return err
			}
		}

		var payoutModel model.PayoutRequestModel
		if err := tx.Where("id = ?", c.Payout.ID).First(&payoutModel).Error; err != nil {
			return translate(err, "payout")
		}
		payout = ToPayoutEntity(&payoutModel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

