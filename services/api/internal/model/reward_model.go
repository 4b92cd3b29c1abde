package model

import (
	"time"

	"gorm.io/gorm"
)

type RewardModel struct {
	ID              string     `gorm:"type:uuid;primary_key" json:"id"`
	Name            string     `gorm:"type:varchar(200);not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	PointsRequired  int        `gorm:"not null" json:"points_required"`
	Category        string     `gorm:"type:varchar(100);index" json:"category"`
	ImageURL        string     `gorm:"type:varchar(500)" json:"image_url"`
	Status          string     `gorm:"type:varchar(20);default:'active';index" json:"status"`
	StockQuantity   int        `gorm:"not null" json:"stock_quantity"`
	MaxPerCustomer  int        `gorm:"default:1" json:"max_per_customer"`
	ValidFrom       time.Time  `json:"valid_from"`
	ValidUntil      *time.Time `json:"valid_until"`
	TermsConditions string     `gorm:"type:text" json:"terms_conditions"`
	IsFeatured      bool       `gorm:"default:false" json:"is_featured"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (RewardModel) TableName() string {
	return "rewards"
}

func (r *RewardModel) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	if r.ValidFrom.IsZero() {
		r.ValidFrom = time.Now().UTC()
	}
	return nil
}

type RewardRedemptionModel struct {
	ID             string       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID  string       `gorm:"type:uuid;not null" json:"transaction_id"`
	RewardID       string       `gorm:"type:uuid;not null;index" json:"reward_id"`
	Reward         *RewardModel `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
	CustomerID     string       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Quantity       int          `gorm:"default:1" json:"quantity"`
	PointsSpent    int          `gorm:"not null" json:"points_spent"`
	RedemptionCode string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"redemption_code"`
	Status         string       `gorm:"type:varchar(20);default:'pending'" json:"status"`
	FulfilledAt    *time.Time   `json:"fulfilled_at"`
	FulfilledBy    *string      `gorm:"type:uuid" json:"fulfilled_by"`
	Notes          string       `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (RewardRedemptionModel) TableName() string {
	return "reward_redemptions"
}

func (r *RewardRedemptionModel) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	return nil
}
