package entity

import "time"

type RewardStatus string

const (
	RewardActive       RewardStatus = "active"
	RewardInactive     RewardStatus = "inactive"
	RewardOutOfStock   RewardStatus = "out_of_stock"
	RewardDiscontinued RewardStatus = "discontinued"
)

func (s RewardStatus) Valid() bool {
	switch s {
	case RewardActive, RewardInactive, RewardOutOfStock, RewardDiscontinued:
		return true
	}
	return false
}

// UnlimitedStock marks a reward without a stock counter.
const UnlimitedStock = -1

type Reward struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	PointsRequired  int          `json:"points_required"`
	Category        string       `json:"category"`
	ImageURL        string       `json:"image_url,omitempty"`
	Status          RewardStatus `json:"status"`
	StockQuantity   int          `json:"stock_quantity"`
	MaxPerCustomer  int          `json:"max_per_customer"`
	ValidFrom       time.Time    `json:"valid_from"`
	ValidUntil      *time.Time   `json:"valid_until,omitempty"`
	TermsConditions string       `json:"terms_conditions,omitempty"`
	IsFeatured      bool         `json:"is_featured"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (r *Reward) Unlimited() bool {
	return r.StockQuantity == UnlimitedStock
}

func (r *Reward) HasStock(quantity int) bool {
	return r.Unlimited() || r.StockQuantity >= quantity
}

func (r *Reward) ValidAt(now time.Time) bool {
	if now.Before(r.ValidFrom) {
		return false
	}
	return r.ValidUntil == nil || !now.After(*r.ValidUntil)
}

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionApproved  RedemptionStatus = "approved"
	RedemptionCompleted RedemptionStatus = "completed"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
	RedemptionCancelled RedemptionStatus = "cancelled"
)

// Open reports whether the redemption can still be fulfilled or cancelled.
func (s RedemptionStatus) Open() bool {
	return s == RedemptionPending || s == RedemptionApproved
}

// CountedStatuses are the redemption states charged against max_per_customer.
var CountedStatuses = []RedemptionStatus{RedemptionPending, RedemptionApproved, RedemptionCompleted, RedemptionFulfilled}

type RewardRedemption struct {
	ID             string           `json:"id"`
	TransactionID  string           `json:"transaction_id"`
	RewardID       string           `json:"reward_id"`
	Reward         *Reward          `json:"reward,omitempty"`
	CustomerID     string           `json:"customer_id"`
	Quantity       int              `json:"quantity"`
	PointsSpent    int              `json:"points_spent"`
	RedemptionCode string           `json:"redemption_code"`
	Status         RedemptionStatus `json:"status"`
	FulfilledAt    *time.Time       `json:"fulfilled_at,omitempty"`
	FulfilledBy    *string          `json:"fulfilled_by,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type RewardFilter struct {
	Category string
	Status   RewardStatus
	Featured *bool
	Search   string
}

type RewardUpdate struct {
	Name            *string       `json:"name,omitempty"`
	Description     *string       `json:"description,omitempty"`
	PointsRequired  *int          `json:"points_required,omitempty"`
	Category        *string       `json:"category,omitempty"`
	Status          *RewardStatus `json:"status,omitempty"`
	MaxPerCustomer  *int          `json:"max_per_customer,omitempty"`
	ValidFrom       *time.Time    `json:"valid_from,omitempty"`
	ValidUntil      *time.Time    `json:"valid_until,omitempty"`
	TermsConditions *string       `json:"terms_conditions,omitempty"`
	IsFeatured      *bool         `json:"is_featured,omitempty"`
}

type AvailableReward struct {
	*Reward
	CanRedeem     bool   `json:"can_redeem"`
	Reason        string `json:"reason,omitempty"`
	RedeemedCount int64  `json:"redeemed_count"`
}

// RedeemRequest carries the pre-validated values for the atomic redemption write.
type RedeemRequest struct {
	Customer *Customer
	Reward   *Reward
	Quantity int
	Code     string
}

type RedemptionResult struct {
	Redemption  *RewardRedemption   `json:"redemption"`
	Transaction *LoyaltyTransaction `json:"transaction"`
	Customer    *Customer           `json:"customer"`
}

type RewardStatistics struct {
	RewardID         string                     `json:"reward_id"`
	TotalRedemptions int64                      `json:"total_redemptions"`
	TotalQuantity    int64                      `json:"total_quantity"`
	PointsSpent      int64                      `json:"points_spent"`
	UniqueCustomers  int64                      `json:"unique_customers"`
	ByStatus         map[RedemptionStatus]int64 `json:"by_status"`
	RemainingStock   int                        `json:"remaining_stock"`
}

type TopReward struct {
	RewardID    string `json:"reward_id"`
	Name        string `json:"name"`
	Redemptions int64  `json:"redemptions"`
	PointsSpent int64  `json:"points_spent"`
}

type RewardAnalytics struct {
	TotalRewards     int64                      `json:"total_rewards"`
	ActiveRewards    int64                      `json:"active_rewards"`
	OutOfStock       int64                      `json:"out_of_stock"`
	TotalRedemptions int64                      `json:"total_redemptions"`
	PointsRedeemed   int64                      `json:"points_redeemed"`
	ByStatus         map[RedemptionStatus]int64 `json:"by_status"`
	TopRewards       []TopReward                `json:"top_rewards"`
}
