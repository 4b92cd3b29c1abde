package persistent

import (
	"context"
	"time"

	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
)

type TierBenefitRepository interface {
	Create(ctx context.Context, benefit *entity.TierBenefit) error
	ListActive(ctx context.Context, now time.Time) ([]*entity.TierBenefit, error)
}

type tierBenefitRepository struct {
	db *gorm.DB
}

func NewTierBenefitRepository(db *gorm.DB) TierBenefitRepository {
	return &tierBenefitRepository{db: db}
}

func (r *tierBenefitRepository) Create(ctx context.Context, benefit *entity.TierBenefit) error {
	benefitModel := ToTierBenefitModel(benefit)
	if err := r.db.WithContext(ctx).Create(benefitModel).Error; err != nil {
		return translate(err, "tier benefit")
	}
	*benefit = *ToTierBenefitEntity(benefitModel)
	return nil
}

func (r *tierBenefitRepository) ListActive(ctx context.Context, now time.Time) ([]*entity.TierBenefit, error) {
	var benefitModels []model.TierBenefitModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND valid_from <= ?", true, now).
		Where("valid_until IS NULL OR valid_until >= ?", now).
		Order("tier ASC, benefit_type ASC").
		Find(&benefitModels).Error
	if err != nil {
		return nil, err
	}

	benefits := make([]*entity.TierBenefit, len(benefitModels))
	for i := range benefitModels {
		benefits[i] = ToTierBenefitEntity(&benefitModels[i])
	}
	return benefits, nil
}
