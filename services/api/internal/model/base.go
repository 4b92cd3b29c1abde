package model

import "github.com/google/uuid"

func newID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// AllModels lists every table model, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&CustomerModel{},
		&CustomerKidModel{},
		&TierHistoryModel{},
		&LoyaltyTransactionModel{},
		&TierBenefitModel{},
		&RewardModel{},
		&RewardRedemptionModel{},
		&AffiliateModel{},
		&CustomerReferralModel{},
		&AffiliateCommissionModel{},
		&PayoutRequestModel{},
		&NotificationTemplateModel{},
		&WhatsAppMessageModel{},
		&WhatsAppWebhookModel{},
		&BirthdayPromotionModel{},
		&SyncRunModel{},
	}
}
