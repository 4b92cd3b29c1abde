package entity

import (
	"strings"
	"time"
)

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Tiers lists every tier in ascending order.
var Tiers = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum}

// Rank orders tiers; unknown values rank below bronze.
func (t Tier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

func (t Tier) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

type TierBenefits struct {
	PointsMultiplier   float64 `json:"points_multiplier"`
	DiscountPercentage int     `json:"discount_percentage"`
	PrioritySupport    bool    `json:"priority_support"`
	FreeShipping       bool    `json:"free_shipping"`
	ExclusiveAccess    bool    `json:"exclusive_access"`
}

type TierInfo struct {
	Tier      Tier         `json:"tier"`
	Name      string       `json:"name"`
	Threshold int          `json:"threshold"`
	Benefits  TierBenefits `json:"benefits"`
}

// TierBenefit is a configurable benefit row stored per tier.
type TierBenefit struct {
	ID           string     `json:"id"`
	Tier         Tier       `json:"tier"`
	BenefitType  string     `json:"benefit_type"`
	BenefitValue string     `json:"benefit_value"`
	Description  string     `json:"description"`
	IsActive     bool       `json:"is_active"`
	ValidFrom    time.Time  `json:"valid_from"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
}

type TierHistory struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	PreviousTier    *Tier     `json:"previous_tier,omitempty"`
	NewTier         Tier      `json:"new_tier"`
	PointsAtUpgrade int       `json:"points_at_upgrade"`
	Reason          string    `json:"reason"`
	ChangedBy       *string   `json:"changed_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type TierProgress struct {
	CustomerID      string       `json:"customer_id"`
	CurrentTier     Tier         `json:"current_tier"`
	TotalPoints     int          `json:"total_points"`
	NextTier        *Tier        `json:"next_tier,omitempty"`
	PointsToNext    int          `json:"points_to_next"`
	ProgressPercent float64      `json:"progress_to_next"`
	Benefits        TierBenefits `json:"tier_benefits"`
}

const (
	TierReasonThreshold     = "points_threshold"
	TierReasonManualUpdate  = "manual_update"
	TierReasonManualUpgrade = "manual_upgrade"
)
