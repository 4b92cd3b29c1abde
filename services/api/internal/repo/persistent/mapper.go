package persistent

import (
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/datatypes"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		PasswordHash:  m.PasswordHash,
		Role:          entity.UserRole(m.Role),
		Status:        entity.UserStatus(m.Status),
		EmailVerified: m.EmailVerified,
		PhoneVerified: m.PhoneVerified,
		LastLogin:     m.LastLogin,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		Phone:         e.Phone,
		PasswordHash:  e.PasswordHash,
		Role:          string(e.Role),
		Status:        string(e.Status),
		EmailVerified: e.EmailVerified,
		PhoneVerified: e.PhoneVerified,
		LastLogin:     e.LastLogin,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToCustomerEntity(m *model.CustomerModel) *entity.Customer {
	if m == nil {
		return nil
	}

	c := &entity.Customer{
		ID:             m.ID,
		UserID:         m.UserID,
		User:           ToUserEntity(m.User),
		Tier:           entity.Tier(m.Tier),
		TotalPoints:    m.TotalPoints,
		LifetimePoints: m.LifetimePoints,
		CurrentStreak:  m.CurrentStreak,
		LongestStreak:  m.LongestStreak,
		Status:         entity.CustomerStatus(m.Status),
		DateOfBirth:    m.DateOfBirth,
		JoinedDate:     m.JoinedDate,
		LastActivity:   m.LastActivity,
		LastSync:       m.LastSync,
		DataHash:       m.DataHash,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.ERPID != nil {
		c.ERPID = *m.ERPID
	}
	return c
}

func ToCustomerModel(e *entity.Customer) *model.CustomerModel {
	if e == nil {
		return nil
	}

	m := &model.CustomerModel{
		ID:             e.ID,
		UserID:         e.UserID,
		Tier:           string(e.Tier),
		TotalPoints:    e.TotalPoints,
		LifetimePoints: e.LifetimePoints,
		CurrentStreak:  e.CurrentStreak,
		LongestStreak:  e.LongestStreak,
		Status:         string(e.Status),
		DateOfBirth:    e.DateOfBirth,
		JoinedDate:     e.JoinedDate,
		LastActivity:   e.LastActivity,
		LastSync:       e.LastSync,
		DataHash:       e.DataHash,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.ERPID != "" {
		erpID := e.ERPID
		m.ERPID = &erpID
	}
	return m
}

func ToKidEntity(m *model.CustomerKidModel) *entity.CustomerKid {
	if m == nil {
		return nil
	}

	return &entity.CustomerKid{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		DateOfBirth: m.DateOfBirth,
		Gender:      m.Gender,
		Notes:       m.Notes,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToKidModel(e *entity.CustomerKid) *model.CustomerKidModel {
	if e == nil {
		return nil
	}

	return &model.CustomerKidModel{
		ID:          e.ID,
		CustomerID:  e.CustomerID,
		Name:        e.Name,
		DateOfBirth: e.DateOfBirth,
		Gender:      e.Gender,
		Notes:       e.Notes,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToTierHistoryEntity(m *model.TierHistoryModel) *entity.TierHistory {
	if m == nil {
		return nil
	}

	h := &entity.TierHistory{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		NewTier:         entity.Tier(m.NewTier),
		PointsAtUpgrade: m.PointsAtUpgrade,
		Reason:          m.Reason,
		ChangedBy:       m.ChangedBy,
		CreatedAt:       m.CreatedAt,
	}
	if m.PreviousTier != nil {
		prev := entity.Tier(*m.PreviousTier)
		h.PreviousTier = &prev
	}
	return h
}

func ToTierHistoryModel(e *entity.TierHistory) *model.TierHistoryModel {
	if e == nil {
		return nil
	}

	m := &model.TierHistoryModel{
		ID:              e.ID,
		CustomerID:      e.CustomerID,
		NewTier:         string(e.NewTier),
		PointsAtUpgrade: e.PointsAtUpgrade,
		Reason:          e.Reason,
		ChangedBy:       e.ChangedBy,
		CreatedAt:       e.CreatedAt,
	}
	if e.PreviousTier != nil {
		prev := string(*e.PreviousTier)
		m.PreviousTier = &prev
	}
	return m
}

func ToTierBenefitEntity(m *model.TierBenefitModel) *entity.TierBenefit {
	if m == nil {
		return nil
	}

	return &entity.TierBenefit{
		ID:           m.ID,
		Tier:         entity.Tier(m.Tier),
		BenefitType:  m.BenefitType,
		BenefitValue: m.BenefitValue,
		Description:  m.Description,
		IsActive:     m.IsActive,
		ValidFrom:    m.ValidFrom,
		ValidUntil:   m.ValidUntil,
	}
}

func ToTierBenefitModel(e *entity.TierBenefit) *model.TierBenefitModel {
	if e == nil {
		return nil
	}

	return &model.TierBenefitModel{
		ID:           e.ID,
		Tier:         string(e.Tier),
		BenefitType:  e.BenefitType,
		BenefitValue: e.BenefitValue,
		Description:  e.Description,
		IsActive:     e.IsActive,
		ValidFrom:    e.ValidFrom,
		ValidUntil:   e.ValidUntil,
	}
}

func ToTransactionEntity(m *model.LoyaltyTransactionModel) *entity.LoyaltyTransaction {
	if m == nil {
		return nil
	}

	t := &entity.LoyaltyTransaction{
		ID:          m.ID,
		UserID:      m.UserID,
		CustomerID:  m.CustomerID,
		Points:      m.Points,
		Type:        entity.TransactionType(m.Type),
		Source:      entity.TransactionSource(m.Source),
		Description: m.Description,
		ReferenceID: m.ReferenceID,
		Metadata:    m.Metadata.Data(),
		ExpiresAt:   m.ExpiresAt,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
	if m.ERPSaleID != nil {
		t.ERPSaleID = *m.ERPSaleID
	}
	return t
}

func ToTransactionModel(e *entity.LoyaltyTransaction) *model.LoyaltyTransactionModel {
	if e == nil {
		return nil
	}

	m := &model.LoyaltyTransactionModel{
		ID:          e.ID,
		UserID:      e.UserID,
		CustomerID:  e.CustomerID,
		Points:      e.Points,
		Type:        string(e.Type),
		Source:      string(e.Source),
		Description: e.Description,
		ReferenceID: e.ReferenceID,
		Metadata:    datatypes.NewJSONType(e.Metadata),
		ExpiresAt:   e.ExpiresAt,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
	}
	if e.ERPSaleID != "" {
		saleID := e.ERPSaleID
		m.ERPSaleID = &saleID
	}
	return m
}

func ToRewardEntity(m *model.RewardModel) *entity.Reward {
	if m == nil {
		return nil
	}

	return &entity.Reward{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		PointsRequired:  m.PointsRequired,
		Category:        m.Category,
		ImageURL:        m.ImageURL,
		Status:          entity.RewardStatus(m.Status),
		StockQuantity:   m.StockQuantity,
		MaxPerCustomer:  m.MaxPerCustomer,
		ValidFrom:       m.ValidFrom,
		ValidUntil:      m.ValidUntil,
		TermsConditions: m.TermsConditions,
		IsFeatured:      m.IsFeatured,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToRewardModel(e *entity.Reward) *model.RewardModel {
	if e == nil {
		return nil
	}

	return &model.RewardModel{
		ID:              e.ID,
		Name:            e.Name,
		Description:     e.Description,
		PointsRequired:  e.PointsRequired,
		Category:        e.Category,
		ImageURL:        e.ImageURL,
		Status:          string(e.Status),
		StockQuantity:   e.StockQuantity,
		MaxPerCustomer:  e.MaxPerCustomer,
		ValidFrom:       e.ValidFrom,
		ValidUntil:      e.ValidUntil,
		TermsConditions: e.TermsConditions,
		IsFeatured:      e.IsFeatured,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToRedemptionEntity(m *model.RewardRedemptionModel) *entity.RewardRedemption {
	if m == nil {
		return nil
	}

	return &entity.RewardRedemption{
		ID:             m.ID,
		TransactionID:  m.TransactionID,
		RewardID:       m.RewardID,
		Reward:         ToRewardEntity(m.Reward),
		CustomerID:     m.CustomerID,
		Quantity:       m.Quantity,
		PointsSpent:    m.PointsSpent,
		RedemptionCode: m.RedemptionCode,
		Status:         entity.RedemptionStatus(m.Status),
		FulfilledAt:    m.FulfilledAt,
		FulfilledBy:    m.FulfilledBy,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToRedemptionModel(e *entity.RewardRedemption) *model.RewardRedemptionModel {
	if e == nil {
		return nil
	}

	return &model.RewardRedemptionModel{
		ID:             e.ID,
		TransactionID:  e.TransactionID,
		RewardID:       e.RewardID,
		CustomerID:     e.CustomerID,
		Quantity:       e.Quantity,
		PointsSpent:    e.PointsSpent,
		RedemptionCode: e.RedemptionCode,
		Status:         string(e.Status),
		FulfilledAt:    e.FulfilledAt,
		FulfilledBy:    e.FulfilledBy,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToAffiliateEntity(m *model.AffiliateModel) *entity.Affiliate {
	if m == nil {
		return nil
	}

	return &entity.Affiliate{
		ID:                m.ID,
		UserID:            m.UserID,
		User:              ToUserEntity(m.User),
		AffiliateCode:     m.AffiliateCode,
		ReferralLink:      m.ReferralLink,
		Status:            entity.AffiliateStatus(m.Status),
		CommissionRate:    m.CommissionRate,
		TotalEarnings:     m.TotalEarnings,
		TotalPaid:         m.TotalPaid,
		UnpaidBalance:     m.UnpaidBalance,
		PaymentMethod:     m.PaymentMethod,
		PaymentDetails:    m.PaymentDetails.Data(),
		WebsiteURL:        m.WebsiteURL,
		MarketingChannels: []string(m.MarketingChannels),
		Notes:             m.Notes,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
		JoinedDate:        m.JoinedDate,
		LastActivity:      m.LastActivity,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ToAffiliateModel(e *entity.Affiliate) *model.AffiliateModel {
	if e == nil {
		return nil
	}

	return &model.AffiliateModel{
		ID:                e.ID,
		UserID:            e.UserID,
		AffiliateCode:     e.AffiliateCode,
		ReferralLink:      e.ReferralLink,
		Status:            string(e.Status),
		CommissionRate:    e.CommissionRate,
		TotalEarnings:     e.TotalEarnings,
		TotalPaid:         e.TotalPaid,
		UnpaidBalance:     e.UnpaidBalance,
		PaymentMethod:     e.PaymentMethod,
		PaymentDetails:    datatypes.NewJSONType(e.PaymentDetails),
		WebsiteURL:        e.WebsiteURL,
		MarketingChannels: datatypes.JSONSlice[string](e.MarketingChannels),
		Notes:             e.Notes,
		ApprovedAt:        e.ApprovedAt,
		ApprovedBy:        e.ApprovedBy,
		JoinedDate:        e.JoinedDate,
		LastActivity:      e.LastActivity,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func ToReferralEntity(m *model.CustomerReferralModel) *entity.CustomerReferral {
	if m == nil {
		return nil
	}

	return &entity.CustomerReferral{
		ID:               m.ID,
		AffiliateID:      m.AffiliateID,
		CustomerID:       m.CustomerID,
		ReferralCodeUsed: m.ReferralCodeUsed,
		ReferralSource:   m.ReferralSource,
		ConversionValue:  m.ConversionValue,
		CommissionAmount: m.CommissionAmount,
		Status:           entity.ReferralStatus(m.Status),
		Metadata:         m.Metadata.Data(),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToReferralModel(e *entity.CustomerReferral) *model.CustomerReferralModel {
	if e == nil {
		return nil
	}

	return &model.CustomerReferralModel{
		ID:               e.ID,
		AffiliateID:      e.AffiliateID,
		CustomerID:       e.CustomerID,
		ReferralCodeUsed: e.ReferralCodeUsed,
		ReferralSource:   e.ReferralSource,
		ConversionValue:  e.ConversionValue,
		CommissionAmount: e.CommissionAmount,
		Status:           string(e.Status),
		Metadata:         datatypes.NewJSONType(e.Metadata),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToCommissionEntity(m *model.AffiliateCommissionModel) *entity.AffiliateCommission {
	if m == nil {
		return nil
	}

	c := &entity.AffiliateCommission{
		ID:               m.ID,
		AffiliateID:      m.AffiliateID,
		UserID:           m.UserID,
		CommissionAmount: m.CommissionAmount,
		CommissionRate:   m.CommissionRate,
		Status:           entity.CommissionStatus(m.Status),
		Description:      m.Description,
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       m.ApprovedAt,
		PaidAt:           m.PaidAt,
		PaymentReference: m.PaymentReference,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.ReferralID != nil {
		c.ReferralID = *m.ReferralID
	}
	return c
}

func ToCommissionModel(e *entity.AffiliateCommission) *model.AffiliateCommissionModel {
	if e == nil {
		return nil
	}

	m := &model.AffiliateCommissionModel{
		ID:               e.ID,
		AffiliateID:      e.AffiliateID,
		UserID:           e.UserID,
		CommissionAmount: e.CommissionAmount,
		CommissionRate:   e.CommissionRate,
		Status:           string(e.Status),
		Description:      e.Description,
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		PaidAt:           e.PaidAt,
		PaymentReference: e.PaymentReference,
		Notes:            e.Notes,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.ReferralID != "" {
		referralID := e.ReferralID
		m.ReferralID = &referralID
	}
	return m
}

func ToPayoutEntity(m *model.PayoutRequestModel) *entity.PayoutRequest {
	if m == nil {
		return nil
	}

	return &entity.PayoutRequest{
		ID:             m.ID,
		AffiliateID:    m.AffiliateID,
		Amount:         m.Amount,
		PaymentMethod:  m.PaymentMethod,
		PaymentDetails: m.PaymentDetails.Data(),
		Status:         entity.PayoutStatus(m.Status),
		TransactionID:  m.TransactionID,
		ProcessedBy:    m.ProcessedBy,
		ProcessedAt:    m.ProcessedAt,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToPayoutModel(e *entity.PayoutRequest) *model.PayoutRequestModel {
	if e == nil {
		return nil
	}

	return &model.PayoutRequestModel{
		ID:             e.ID,
		AffiliateID:    e.AffiliateID,
		Amount:         e.Amount,
		PaymentMethod:  e.PaymentMethod,
		PaymentDetails: datatypes.NewJSONType(e.PaymentDetails),
		Status:         string(e.Status),
		TransactionID:  e.TransactionID,
		ProcessedBy:    e.ProcessedBy,
		ProcessedAt:    e.ProcessedAt,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToTemplateEntity(m *model.NotificationTemplateModel) *entity.NotificationTemplate {
	if m == nil {
		return nil
	}

	return &entity.NotificationTemplate{
		ID:          m.ID,
		Name:        m.Name,
		Category:    entity.TemplateCategory(m.Category),
		MessageType: entity.MessageType(m.MessageType),
		Content:     m.Content,
		Variables:   []string(m.Variables),
		MediaURL:    m.MediaURL,
		IsActive:    m.IsActive,
		IsDefault:   m.IsDefault,
		UsageCount:  m.UsageCount,
		LastUsed:    m.LastUsed,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToTemplateModel(e *entity.NotificationTemplate) *model.NotificationTemplateModel {
	if e == nil {
		return nil
	}

	return &model.NotificationTemplateModel{
		ID:          e.ID,
		Name:        e.Name,
		Category:    string(e.Category),
		MessageType: string(e.MessageType),
		Content:     e.Content,
		Variables:   datatypes.JSONSlice[string](e.Variables),
		MediaURL:    e.MediaURL,
		IsActive:    e.IsActive,
		IsDefault:   e.IsDefault,
		UsageCount:  e.UsageCount,
		LastUsed:    e.LastUsed,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToMessageEntity(m *model.WhatsAppMessageModel) *entity.WhatsAppMessage {
	if m == nil {
		return nil
	}

	return &entity.WhatsAppMessage{
		ID:                m.ID,
		UserID:            m.UserID,
		CustomerID:        m.CustomerID,
		MessageType:       entity.MessageType(m.MessageType),
		Direction:         entity.MessageDirection(m.Direction),
		Content:           m.Content,
		MediaURL:          m.MediaURL,
		TemplateID:        m.TemplateID,
		WhatsAppMessageID: m.WhatsAppMessageID,
		RecipientPhone:    m.RecipientPhone,
		Status:            entity.MessageStatus(m.Status),
		StatusTimestamp:   m.StatusTimestamp,
		ErrorMessage:      m.ErrorMessage,
		Metadata:          m.Metadata.Data(),
		IsAutomated:       m.IsAutomated,
		ScheduledFor:      m.ScheduledFor,
		SentAt:            m.SentAt,
		DeliveredAt:       m.DeliveredAt,
		ReadAt:            m.ReadAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ToMessageModel(e *entity.WhatsAppMessage) *model.WhatsAppMessageModel {
	if e == nil {
		return nil
	}

	return &model.WhatsAppMessageModel{
		ID:                e.ID,
		UserID:            e.UserID,
		CustomerID:        e.CustomerID,
		MessageType:       string(e.MessageType),
		Direction:         string(e.Direction),
		Content:           e.Content,
		MediaURL:          e.MediaURL,
		TemplateID:        e.TemplateID,
		WhatsAppMessageID: e.WhatsAppMessageID,
		RecipientPhone:    e.RecipientPhone,
		Status:            string(e.Status),
		StatusTimestamp:   e.StatusTimestamp,
		ErrorMessage:      e.ErrorMessage,
		Metadata:          datatypes.NewJSONType(e.Metadata),
		IsAutomated:       e.IsAutomated,
		ScheduledFor:      e.ScheduledFor,
		SentAt:            e.SentAt,
		DeliveredAt:       e.DeliveredAt,
		ReadAt:            e.ReadAt,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func ToWebhookModel(e *entity.WebhookEvent) *model.WhatsAppWebhookModel {
	if e == nil {
		return nil
	}

	return &model.WhatsAppWebhookModel{
		ID:           e.ID,
		WebhookID:    e.WebhookID,
		EventType:    e.EventType,
		Payload:      datatypes.JSON(e.Payload),
		Processed:    e.Processed,
		ProcessedAt:  e.ProcessedAt,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
	}
}

func ToPromotionEntity(m *model.BirthdayPromotionModel) *entity.BirthdayPromotion {
	if m == nil {
		return nil
	}

	return &entity.BirthdayPromotion{
		ID:                m.ID,
		CustomerID:        m.CustomerID,
		KidID:             m.KidID,
		PromotionType:     m.PromotionType,
		BirthdayDate:      m.BirthdayDate,
		ScheduledDate:     m.ScheduledDate,
		SentDate:          m.SentDate,
		Status:            entity.PromotionStatus(m.Status),
		PromotionCode:     m.PromotionCode,
		DiscountAmount:    m.DiscountAmount,
		MessageContent:    m.MessageContent,
		TemplateID:        m.TemplateID,
		WhatsAppMessageID: m.WhatsAppMessageID,
		IsRecurring:       m.IsRecurring,
		Metadata:          m.Metadata.Data(),
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
	}
}

func ToPromotionModel(e *entity.BirthdayPromotion) *model.BirthdayPromotionModel {
	if e == nil {
		return nil
	}

	return &model.BirthdayPromotionModel{
		ID:                e.ID,
		CustomerID:        e.CustomerID,
		KidID:             e.KidID,
		PromotionType:     e.PromotionType,
		BirthdayDate:      e.BirthdayDate,
		ScheduledDate:     e.ScheduledDate,
		SentDate:          e.SentDate,
		Status:            string(e.Status),
		PromotionCode:     e.PromotionCode,
		DiscountAmount:    e.DiscountAmount,
		MessageContent:    e.MessageContent,
		TemplateID:        e.TemplateID,
		WhatsAppMessageID: e.WhatsAppMessageID,
		IsRecurring:       e.IsRecurring,
		Metadata:          datatypes.NewJSONType(e.Metadata),
		CreatedBy:         e.CreatedBy,
		CreatedAt:         e.CreatedAt,
	}
}

func ToSyncRunEntity(m *model.SyncRunModel) *entity.SyncRun {
	if m == nil {
		return nil
	}

	return &entity.SyncRun{
		ID:         m.ID,
		Kind:       entity.SyncKind(m.Kind),
		Status:     entity.SyncStatus(m.Status),
		Processed:  m.RecordsProcessed,
		Successful: m.RecordsSuccessful,
		Failed:     m.RecordsFailed,
		Errors:     []string(m.Errors),
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		DurationMS: m.DurationMS,
	}
}

func ToSyncRunModel(e *entity.SyncRun) *model.SyncRunModel {
	if e == nil {
		return nil
	}

	return &model.SyncRunModel{
		ID:                e.ID,
		Kind:              string(e.Kind),
		Status:            string(e.Status),
		RecordsProcessed:  e.Processed,
		RecordsSuccessful: e.Successful,
		RecordsFailed:     e.Failed,
		Errors:            datatypes.JSONSlice[string](e.Errors),
		StartedAt:         e.StartedAt,
		FinishedAt:        e.FinishedAt,
		DurationMS:        e.DurationMS,
	}
}
