package model

import (
	"time"

	"loyalty-hub/services/api/internal/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LoyaltyTransactionModel struct {
	ID          string                                         `gorm:"type:uuid;primary_key" json:"id"`
	UserID      string                                         `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID  string                                         `gorm:"type:uuid;not null;index" json:"customer_id"`
	ERPSaleID   *string                                        `gorm:"column:erp_sale_id;type:varchar(100)" json:"erp_sale_id"`
	Points      int                                            `gorm:"not null" json:"points"`
	Type        string                                         `gorm:"column:transaction_type;type:varchar(20);not null" json:"transaction_type"`
	Source      string                                         `gorm:"type:varchar(20);not null" json:"source"`
	Description string                                         `gorm:"type:varchar(500);not null" json:"description"`
	ReferenceID string                                         `gorm:"type:varchar(100)" json:"reference_id"`
	Metadata    datatypes.JSONType[entity.TransactionMetadata] `gorm:"type:jsonb" json:"metadata"`
	ExpiresAt   *time.Time                                     `json:"expires_at"`
	IsActive    bool                                           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time                                      `json:"created_at"`
}

func (LoyaltyTransactionModel) TableName() string {
	return "loyalty_transactions"
}

func (t *LoyaltyTransactionModel) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}
