package model

import (
	"time"

	"gorm.io/gorm"
)

type CustomerModel struct {
	ID             string     `gorm:"type:uuid;primary_key" json:"id"`
	UserID         string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User           *UserModel `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ERPID          *string    `gorm:"column:erp_id;type:varchar(100)" json:"erp_id"`
	Tier           string     `gorm:"type:varchar(20);default:'bronze'" json:"tier"`
	TotalPoints    int        `gorm:"default:0" json:"total_points"`
	LifetimePoints int        `gorm:"default:0" json:"lifetime_points"`
	CurrentStreak  int        `gorm:"default:0" json:"current_streak"`
	LongestStreak  int        `gorm:"default:0" json:"longest_streak"`
	Status         string     `gorm:"type:varchar(20);default:'active'" json:"status"`
	DateOfBirth    *time.Time `gorm:"type:date" json:"date_of_birth"`
	JoinedDate     time.Time  `json:"joined_date"`
	LastActivity   *time.Time `json:"last_activity"`
	LastSync       *time.Time `json:"last_sync"`
	DataHash       string     `gorm:"type:varchar(64)" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

func (c *CustomerModel) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	if c.JoinedDate.IsZero() {
		c.JoinedDate = time.Now().UTC()
	}
	return nil
}

type CustomerKidModel struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	DateOfBirth time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Gender      string    `gorm:"type:varchar(10)" json:"gender"`
	Notes       string    `gorm:"type:text" json:"notes"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CustomerKidModel) TableName() string {
	return "customer_kids"
}

func (k *CustomerKidModel) BeforeCreate(tx *gorm.DB) error {
	newID(&k.ID)
	return nil
}

type TierHistoryModel struct {
	ID              string    `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID      string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	PreviousTier    *string   `gorm:"type:varchar(20)" json:"previous_tier"`
	NewTier         string    `gorm:"type:varchar(20);not null" json:"new_tier"`
	PointsAtUpgrade int       `gorm:"not null" json:"points_at_upgrade"`
	Reason          string    `gorm:"type:varchar(255)" json:"reason"`
	ChangedBy       *string   `gorm:"type:uuid" json:"changed_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func (TierHistoryModel) TableName() string {
	return "customer_tier_history"
}

func (h *TierHistoryModel) BeforeCreate(tx *gorm.DB) error {
	newID(&h.ID)
	return nil
}

type TierBenefitModel struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	Tier         string     `gorm:"type:varchar(20);not null;index" json:"tier"`
	BenefitType  string     `gorm:"type:varchar(100);not null;index" json:"benefit_type"`
	BenefitValue string     `gorm:"type:varchar(255);not null" json:"benefit_value"`
	Description  string     `gorm:"type:text" json:"description"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	ValidFrom    time.Time  `json:"valid_from"`
	ValidUntil   *time.Time `json:"valid_until"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (TierBenefitModel) TableName() string {
	return "tier_benefits"
}

func (b *TierBenefitModel) BeforeCreate(tx *gorm.DB) error {
	newID(&b.ID)
	if b.ValidFrom.IsZero() {
		b.ValidFrom = time.Now().UTC()
	}
	return nil
}
