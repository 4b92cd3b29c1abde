package entity

import "time"

type TransactionType string

const (
	TransactionEarned     TransactionType = "earned"
	TransactionRedeemed   TransactionType = "redeemed"
	TransactionExpired    TransactionType = "expired"
	TransactionAdjustment TransactionType = "adjustment"
	TransactionTransfer   TransactionType = "transfer"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionEarned, TransactionRedeemed, TransactionExpired, TransactionAdjustment, TransactionTransfer:
		return true
	}
	return false
}

type TransactionSource string

const (
	SourcePurchase   TransactionSource = "purchase"
	SourceReferral   TransactionSource = "referral"
	SourceBirthday   TransactionSource = "birthday"
	SourcePromotion  TransactionSource = "promotion"
	SourceManual     TransactionSource = "manual"
	SourceSystem     TransactionSource = "system"
	SourceRedemption TransactionSource = "redemption"
	SourceTransfer   TransactionSource = "transfer"
)

func (s TransactionSource) Valid() bool {
	switch s {
	case SourcePurchase, SourceReferral, SourceBirthday, SourcePromotion, SourceManual,
		SourceSystem, SourceRedemption, SourceTransfer:
		return true
	}
	return false
}

// TransactionMetadata is the structured payload stored with a ledger row.
type TransactionMetadata struct {
	InvoiceNumber string `json:"invoice_number,omitempty"`
	SaleAmount    string `json:"sale_amount,omitempty"`
	RewardID      string `json:"reward_id,omitempty"`
	RedemptionID  string `json:"redemption_id,omitempty"`
	Counterparty  string `json:"counterparty_customer_id,omitempty"`
	ActorID       string `json:"actor_id,omitempty"`
	Note          string `json:"note,omitempty"`
}

// LoyaltyTransaction is an immutable signed ledger row.
type LoyaltyTransaction struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	CustomerID  string              `json:"customer_id"`
	ERPSaleID   string              `json:"erp_sale_id,omitempty"`
	Points      int                 `json:"points"`
	Type        TransactionType     `json:"transaction_type"`
	Source      TransactionSource   `json:"source"`
	Description string              `json:"description"`
	ReferenceID string              `json:"reference_id,omitempty"`
	Metadata    TransactionMetadata `json:"metadata"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty"`
	IsActive    bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CountsTowardLifetime reports whether the row grows lifetime_points.
// Points received by transfer were already counted for the sender.
func (t *LoyaltyTransaction) CountsTowardLifetime() bool {
	return t.Type == TransactionEarned && t.Points > 0 && t.Source != SourceTransfer
}

type TransactionFilter struct {
	Type   TransactionType
	Source TransactionSource
	From   *time.Time
	To     *time.Time
}

type PointsSummary struct {
	CustomerID       string       `json:"customer_id"`
	TotalPoints      int          `json:"total_points"`
	LifetimePoints   int          `json:"lifetime_points"`
	CurrentTier      Tier         `json:"current_tier"`
	NextTier         *Tier        `json:"next_tier,omitempty"`
	PointsToNextTier int          `json:"points_to_next"`
	ProgressToNext   float64      `json:"progress_to_next"`
	PointsEarned     int64        `json:"points_earned"`
	PointsSpent      int64        `json:"points_spent"`
	TransactionCount int64        `json:"transaction_count"`
	ExpiringSoon     int64        `json:"points_expiring_soon"`
	ExpiringSoonDays int          `json:"expiring_soon_days"`
	TierBenefits     TierBenefits `json:"tier_benefits"`
}

// LedgerTotals are aggregates over a customer's ledger rows.
type LedgerTotals struct {
	Earned       int64
	Spent        int64
	Count        int64
	ExpiringSoon int64
}

// PointsResult is returned by balance-changing operations.
type PointsResult struct {
	Transaction *LoyaltyTransaction `json:"transaction"`
	Customer    *Customer           `json:"customer"`
	TierChange  *TierHistory        `json:"tier_change,omitempty"`
}

type TransferResult struct {
	Sender   *PointsResult `json:"sender"`
	Receiver *PointsResult `json:"receiver"`
}

type ExpiryResult struct {
	Processed     int      `json:"processed"`
	Expired       int      `json:"expired"`
	PointsExpired int      `json:"points_expired"`
	Errors        []string `json:"errors,omitempty"`
}

// PointsAward describes an earned ledger row to apply.
type PointsAward struct {
	CustomerID  string              `json:"customer_id"`
	Points      int                 `json:"points"`
	Source      TransactionSource   `json:"source"`
	Description string              `json:"description"`
	ReferenceID string              `json:"reference_id,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty"`
	ERPSaleID   string              `json:"-"`
	Metadata    TransactionMetadata `json:"metadata"`
}

type PointsDeduction struct {
	CustomerID  string              `json:"customer_id"`
	Points      int                 `json:"points"`
	Source      TransactionSource   `json:"source"`
	Description string              `json:"description"`
	ReferenceID string              `json:"reference_id,omitempty"`
	Metadata    TransactionMetadata `json:"metadata"`
}
