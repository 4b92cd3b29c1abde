package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Previous returns the range of equal length ending where r starts.
func (r DateRange) Previous() DateRange {
	length := r.To.Sub(r.From)
	return DateRange{From: r.From.Add(-length), To: r.From}
}

type CustomerKPIs struct {
	Total            int64          `json:"total"`
	Active           int64          `json:"active"`
	NewInPeriod      int64          `json:"new_in_period"`
	RetentionRate    float64        `json:"retention_rate"`
	TierDistribution map[Tier]int64 `json:"tier_distribution"`
}

type LoyaltyKPIs struct {
	PointsEarned    int64   `json:"points_earned"`
	PointsRedeemed  int64   `json:"points_redeemed"`
	PointsExpired   int64   `json:"points_expired"`
	ActiveRedeemers int64   `json:"active_redeemers"`
	RedemptionRate  float64 `json:"redemption_rate"`
}

type AffiliateKPIs struct {
	ActiveAffiliates    int64           `json:"active_affiliates"`
	Referrals           int64           `json:"referrals"`
	CommissionsPending  decimal.Decimal `json:"commissions_pending"`
	CommissionsApproved decimal.Decimal `json:"commissions_approved"`
	CommissionsPaid     decimal.Decimal `json:"commissions_paid"`
}

type WhatsAppKPIs struct {
	Sent         int64   `json:"sent"`
	Delivered    int64   `json:"delivered"`
	Read         int64   `json:"read"`
	Failed       int64   `json:"failed"`
	DeliveryRate float64 `json:"delivery_rate"`
}

type FinancialKPIs struct {
	ConversionValue decimal.Decimal `json:"conversion_value"`
	Commissions     decimal.Decimal `json:"commissions"`
}

// Trends are growth percentages against the previous period.
type Trends struct {
	CustomerGrowth     float64 `json:"customer_growth"`
	PointsEarnedGrowth float64 `json:"points_earned_growth"`
	RedemptionGrowth   float64 `json:"redemption_growth"`
	ReferralGrowth     float64 `json:"referral_growth"`
}

type Dashboard struct {
	Period      DateRange     `json:"period"`
	Customers   CustomerKPIs  `json:"customers"`
	Loyalty     LoyaltyKPIs   `json:"loyalty"`
	Affiliates  AffiliateKPIs `json:"affiliates"`
	WhatsApp    WhatsAppKPIs  `json:"whatsapp"`
	Financial   FinancialKPIs `json:"financial"`
	Trends      Trends        `json:"trends"`
	GeneratedAt time.Time     `json:"generated_at"`
}

type TopCustomer struct {
	CustomerID     string `json:"customer_id"`
	Name           string `json:"name"`
	Tier           Tier   `json:"tier"`
	LifetimePoints int    `json:"lifetime_points"`
	TotalPoints    int    `json:"total_points"`
}

type CustomerAnalyticsReport struct {
	Segments         CustomerSegments `json:"segments"`
	TierDistribution map[Tier]int64   `json:"tier_distribution"`
	TopCustomers     []TopCustomer    `json:"top_customers"`
}

type PointsBucket struct {
	Key    string `json:"key"`
	Count  int64  `json:"count"`
	Points int64  `json:"points"`
}

type LoyaltyAnalyticsReport struct {
	Period   DateRange      `json:"period"`
	ByType   []PointsBucket `json:"by_type"`
	BySource []PointsBucket `json:"by_source"`
	ByTier   []PointsBucket `json:"by_tier"`
}

// GrowthPercent returns the change from previous to current in percent.
func GrowthPercent(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}
