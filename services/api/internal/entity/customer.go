package entity

import "time"

type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusInactive  CustomerStatus = "inactive"
	CustomerStatusSuspended CustomerStatus = "suspended"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusSuspended:
		return true
	}
	return false
}

type Customer struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	User           *User          `json:"user,omitempty"`
	ERPID          string         `json:"erp_id,omitempty"`
	Tier           Tier           `json:"tier"`
	TotalPoints    int            `json:"total_points"`
	LifetimePoints int            `json:"lifetime_points"`
	CurrentStreak  int            `json:"current_streak"`
	LongestStreak  int            `json:"longest_streak"`
	Status         CustomerStatus `json:"status"`
	DateOfBirth    *time.Time     `json:"date_of_birth,omitempty"`
	JoinedDate     time.Time      `json:"joined_date"`
	LastActivity   *time.Time     `json:"last_activity,omitempty"`
	LastSync       *time.Time     `json:"last_sync,omitempty"`
	DataHash       string         `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type CustomerKid struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerSortFields whitelists sortable list columns.
var CustomerSortFields = map[string]bool{
	"joined_date":     true,
	"total_points":    true,
	"lifetime_points": true,
	"last_activity":   true,
	"name":            true,
}

type CustomerFilter struct {
	Search    string
	Tier      Tier
	Status    CustomerStatus
	SortBy    string
	SortOrder string
}

type NewCustomer struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Password    string     `json:"password,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	ERPID       string     `json:"erp_id,omitempty"`
}

type CustomerUpdate struct {
	Name        *string         `json:"name,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Tier        *Tier           `json:"tier,omitempty"`
	Status      *CustomerStatus `json:"status,omitempty"`
	DateOfBirth *time.Time      `json:"date_of_birth,omitempty"`
	ERPID       *string         `json:"erp_id,omitempty"`
}

type KidUpdate struct {
	Name        *string    `json:"name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type CustomerAnalytics struct {
	TransactionCount      int64 `json:"transaction_count"`
	RecentTransactions    int64 `json:"transactions_last_90_days"`
	PointsEarned          int64 `json:"points_earned"`
	PointsRedeemed        int64 `json:"points_redeemed"`
	RedemptionCount       int64 `json:"redemption_count"`
	DaysSinceLastActivity *int  `json:"days_since_last_activity,omitempty"`
	EngagementScore       int   `json:"engagement_score"`
}

type CustomerDetails struct {
	Customer           *Customer             `json:"customer"`
	RecentTransactions []*LoyaltyTransaction `json:"recent_transactions"`
	RecentRedemptions  []*RewardRedemption   `json:"recent_redemptions"`
	Kids               []*CustomerKid        `json:"kids"`
	TierHistory        []*TierHistory        `json:"tier_history"`
	Analytics          CustomerAnalytics     `json:"analytics"`
}

type CustomerSegments struct {
	HighValue    int64 `json:"high_value"`
	Active       int64 `json:"active"`
	Inactive     int64 `json:"inactive"`
	NewCustomers int64 `json:"new_customers"`
}

type ActivityKind string

const (
	ActivityTransaction ActivityKind = "transaction"
	ActivityRedemption  ActivityKind = "redemption"
	ActivityTierChange  ActivityKind = "tier_change"
)

type ActivityItem struct {
	Kind        ActivityKind `json:"kind"`
	Description string       `json:"description"`
	Points      int          `json:"points,omitempty"`
	ReferenceID string       `json:"reference_id"`
	OccurredAt  time.Time    `json:"occurred_at"`
}
