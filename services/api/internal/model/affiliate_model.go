package model

import (
	"time"

	"loyalty-hub/services/api/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AffiliateModel struct {
	ID                string                                    `gorm:"type:uuid;primary_key" json:"id"`
	UserID            string                                    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User              *UserModel                                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AffiliateCode     string                                    `gorm:"type:varchar(50);uniqueIndex;not null" json:"affiliate_code"`
	ReferralLink      string                                    `gorm:"type:varchar(500);not null" json:"referral_link"`
	Status            string                                    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CommissionRate    decimal.Decimal                           `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	TotalEarnings     decimal.Decimal                           `gorm:"type:decimal(15,2);not null;default:0" json:"total_earnings"`
	TotalPaid         decimal.Decimal                           `gorm:"type:decimal(15,2);not null;default:0" json:"total_paid"`
	UnpaidBalance     decimal.Decimal                           `gorm:"type:decimal(15,2);not null;default:0" json:"unpaid_balance"`
	PaymentMethod     string                                    `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentDetails    datatypes.JSONType[entity.PaymentDetails] `gorm:"type:jsonb" json:"payment_details"`
	WebsiteURL        string                                    `gorm:"type:varchar(500)" json:"website_url"`
	MarketingChannels datatypes.JSONSlice[string]               `gorm:"type:jsonb" json:"marketing_channels"`
	Notes             string                                    `gorm:"type:text" json:"notes"`
	ApprovedAt        *time.Time                                `json:"approved_at"`
	ApprovedBy        *string                                   `gorm:"type:uuid" json:"approved_by"`
	JoinedDate        time.Time                                 `json:"joined_date"`
	LastActivity      *time.Time                                `json:"last_activity"`
	CreatedAt         time.Time                                 `json:"created_at"`
	UpdatedAt         time.Time                                 `json:"updated_at"`
}

func (AffiliateModel) TableName() string {
	return "affiliates"
}

func (a *AffiliateModel) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	if a.JoinedDate.IsZero() {
		a.JoinedDate = time.Now().UTC()
	}
	return nil
}

type CustomerReferralModel struct {
	ID               string                                      `gorm:"type:uuid;primary_key" json:"id"`
	AffiliateID      string                                      `gorm:"type:uuid;not null;index:idx_customer_referrals_affiliate_customer,unique" json:"affiliate_id"`
	CustomerID       string                                      `gorm:"type:uuid;not null;index:idx_customer_referrals_affiliate_customer,unique" json:"customer_id"`
	ReferralCodeUsed string                                      `gorm:"type:varchar(50);not null;index" json:"referral_code_used"`
	ReferralSource   string                                      `gorm:"type:varchar(100)" json:"referral_source"`
	ConversionValue  decimal.Decimal                             `gorm:"type:decimal(15,2);not null;default:0" json:"conversion_value"`
	CommissionAmount decimal.Decimal                             `gorm:"type:decimal(15,2);not null;default:0" json:"commission_amount"`
	Status           string                                      `gorm:"type:varchar(20);default:'converted'" json:"status"`
	Metadata         datatypes.JSONType[entity.ReferralMetadata] `gorm:"type:jsonb" json:"metadata"`
	CreatedAt        time.Time                                   `json:"created_at"`
	UpdatedAt        time.Time                                   `json:"updated_at"`
}

func (CustomerReferralModel) TableName() string {
	return "customer_referrals"
}

func (r *CustomerReferralModel) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	return nil
}

type AffiliateCommissionModel struct {
	ID               string          `gorm:"type:uuid;primary_key" json:"id"`
	AffiliateID      string          `gorm:"type:uuid;not null;index" json:"affiliate_id"`
	UserID           string          `gorm:"type:uuid;not null" json:"user_id"`
	ReferralID       *string         `gorm:"type:uuid" json:"referral_id"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"commission_amount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	Status           string          `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Description      string          `gorm:"type:varchar(500);not null" json:"description"`
	ApprovedBy       *string         `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt       *time.Time      `json:"approved_at"`
	PaidAt           *time.Time      `json:"paid_at"`
	PaymentReference string          `gorm:"type:varchar(100)" json:"payment_reference"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (AffiliateCommissionModel) TableName() string {
	return "affiliate_commissions"
}

func (c *AffiliateCommissionModel) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

type PayoutRequestModel struct {
	ID             string                                    `gorm:"type:uuid;primary_key" json:"id"`
	AffiliateID    string                                    `gorm:"type:uuid;not null;index" json:"affiliate_id"`
	Amount         decimal.Decimal                           `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentMethod  string                                    `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentDetails datatypes.JSONType[entity.PaymentDetails] `gorm:"type:jsonb" json:"payment_details"`
	Status         string                                    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TransactionID  string                                    `gorm:"type:varchar(100)" json:"transaction_id"`
	ProcessedBy    *string                                   `gorm:"type:uuid" json:"processed_by"`
	ProcessedAt    *time.Time                                `json:"processed_at"`
	Notes          string                                    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time                                 `json:"created_at"`
	UpdatedAt      time.Time                                 `json:"updated_at"`
}

func (PayoutRequestModel) TableName() string {
	return "payout_requests"
}

func (p *PayoutRequestModel) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}
