package model

import (
	"time"

	"gorm.io/gorm"
)

type UserModel struct {
	ID            string     `gorm:"type:uuid;primary_key" json:"id"`
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone         string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	PasswordHash  string     `gorm:"type:varchar(255);not null" json:"-"`
	Role          string     `gorm:"type:varchar(20);default:'customer'" json:"role"`
	Status        string     `gorm:"type:varchar(20);default:'active'" json:"status"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`
	PhoneVerified bool       `gorm:"default:false" json:"phone_verified"`
	LastLogin     *time.Time `json:"last_login"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}
