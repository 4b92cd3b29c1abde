package entity

import (
	"time"

	"loyalty-hub/pkg/jwt"
)

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleCustomer  UserRole = "customer"
	RoleAffiliate UserRole = "affiliate"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleAffiliate:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	PasswordHash  string     `json:"-"`
	Role          UserRole   `json:"role"`
	Status        UserStatus `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FirstName returns the first word of the user's name.
func (u *User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}

type UserFilter struct {
	Role   UserRole
	Status UserStatus
	Search string
}

type UserUpdate struct {
	Name   *string     `json:"name,omitempty"`
	Phone  *string     `json:"phone,omitempty"`
	Role   *UserRole   `json:"role,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
}

type Permissions struct {
	Role        UserRole `json:"role"`
	Permissions []string `json:"permissions"`
}

type Registration struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

type AuthResult struct {
	User     *User          `json:"user"`
	Customer *Customer      `json:"customer,omitempty"`
	Tokens   *jwt.TokenPair `json:"tokens"`
}
