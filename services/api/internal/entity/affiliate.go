package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type AffiliateStatus string

const (
	AffiliatePending   AffiliateStatus = "pending"
	AffiliateApproved  AffiliateStatus = "approved"
	AffiliateRejected  AffiliateStatus = "rejected"
	AffiliateSuspended AffiliateStatus = "suspended"
	AffiliateActive    AffiliateStatus = "active"
	AffiliateInactive  AffiliateStatus = "inactive"
)

func (s AffiliateStatus) Valid() bool {
	switch s {
	case AffiliatePending, AffiliateApproved, AffiliateRejected, AffiliateSuspended, AffiliateActive, AffiliateInactive:
		return true
	}
	return false
}

// CanRefer reports whether referrals may be attributed to the affiliate.
func (s AffiliateStatus) CanRefer() bool {
	return s == AffiliateApproved || s == AffiliateActive
}

type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "pending"
	CommissionApproved  CommissionStatus = "approved"
	CommissionPaid      CommissionStatus = "paid"
	CommissionCancelled CommissionStatus = "cancelled"
)

type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutRejected   PayoutStatus = "rejected"
)

type ReferralStatus string

const (
	ReferralConverted ReferralStatus = "converted"
	ReferralPending   ReferralStatus = "pending"
	ReferralCancelled ReferralStatus = "cancelled"
)

// PaymentDetails holds where payouts are sent; which fields apply depends on the method.
type PaymentDetails struct {
	AccountName       string `json:"account_name,omitempty"`
	AccountNumber     string `json:"account_number,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	BankCode          string `json:"bank_code,omitempty"`
	PayPalEmail       string `json:"paypal_email,omitempty"`
	MobileMoneyNumber string `json:"mobile_money_number,omitempty"`
}

type ReferralMetadata struct {
	LandingPage string `json:"landing_page,omitempty"`
	Campaign    string `json:"campaign,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
}

type Affiliate struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	User              *User           `json:"user,omitempty"`
	AffiliateCode     string          `json:"affiliate_code"`
	ReferralLink      string          `json:"referral_link"`
	Status            AffiliateStatus `json:"status"`
	CommissionRate    decimal.Decimal `json:"commission_rate"`
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	UnpaidBalance     decimal.Decimal `json:"unpaid_balance"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	PaymentDetails    PaymentDetails  `json:"payment_details"`
	WebsiteURL        string          `json:"website_url,omitempty"`
	MarketingChannels []string        `json:"marketing_channels"`
	Notes             string          `json:"notes,omitempty"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy        *string         `json:"approved_by,omitempty"`
	JoinedDate        time.Time       `json:"joined_date"`
	LastActivity      *time.Time      `json:"last_activity,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type AffiliateProfile struct {
	PaymentMethod     *string         `json:"payment_method,omitempty"`
	PaymentDetails    *PaymentDetails `json:"payment_details,omitempty"`
	WebsiteURL        *string         `json:"website_url,omitempty"`
	MarketingChannels []string        `json:"marketing_channels,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
}

type AffiliateFilter struct {
	Status AffiliateStatus
	Search string
}

type CustomerReferral struct {
	ID               string           `json:"id"`
	AffiliateID      string           `json:"affiliate_id"`
	CustomerID       string           `json:"customer_id"`
	ReferralCodeUsed string           `json:"referral_code_used"`
	ReferralSource   string           `json:"referral_source,omitempty"`
	ConversionValue  decimal.Decimal  `json:"conversion_value"`
	CommissionAmount decimal.Decimal  `json:"commission_amount"`
	Status           ReferralStatus   `json:"status"`
	Metadata         ReferralMetadata `json:"metadata"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type AffiliateCommission struct {
	ID               string           `json:"id"`
	AffiliateID      string           `json:"affiliate_id"`
	UserID           string           `json:"user_id"`
	ReferralID       string           `json:"referral_id"`
	CommissionAmount decimal.Decimal  `json:"commission_amount"`
	CommissionRate   decimal.Decimal  `json:"commission_rate"`
	Status           CommissionStatus `json:"status"`
	Description      string           `json:"description"`
	ApprovedBy       *string          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time       `json:"approved_at,omitempty"`
	PaidAt           *time.Time       `json:"paid_at,omitempty"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type PayoutRequest struct {
	ID             string          `json:"id"`
	AffiliateID    string          `json:"affiliate_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails PaymentDetails  `json:"payment_details"`
	Status         PayoutStatus    `json:"status"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	ProcessedBy    *string         `json:"processed_by,omitempty"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CommissionCalculation is the write set for a computed commission.
type CommissionCalculation struct {
	Referral       *CustomerReferral
	Affiliate      *Affiliate
	PurchaseAmount decimal.Decimal
	Rate           decimal.Decimal
	Amount         decimal.Decimal
	Description    string
}

type CommissionTotals struct {
	Pending   decimal.Decimal `json:"pending"`
	Approved  decimal.Decimal `json:"approved"`
	Paid      decimal.Decimal `json:"paid"`
	Cancelled decimal.Decimal `json:"cancelled"`
	Count     int64           `json:"count"`
}

type AffiliatePerformance struct {
	AffiliateID      string           `json:"affiliate_id"`
	PeriodDays       int              `json:"period_days"`
	Referrals        int64            `json:"referrals"`
	Conversions      int64            `json:"conversions"`
	ConversionRate   float64          `json:"conversion_rate"`
	ConversionValue  decimal.Decimal  `json:"conversion_value"`
	Commissions      CommissionTotals `json:"commissions"`
	EarningsInPeriod decimal.Decimal  `json:"earnings_in_period"`
}

type AffiliateDashboard struct {
	Affiliate       *Affiliate            `json:"affiliate"`
	Performance     *AffiliatePerformance `json:"performance_30_days"`
	RecentReferrals []*CustomerReferral   `json:"recent_referrals"`
	PendingPayouts  []*PayoutRequest      `json:"pending_payouts"`
	PerformanceTier string                `json:"performance_tier"`
}

type PayoutCompletion struct {
	Payout      *PayoutRequest
	Reference   string
	ProcessedBy string
	CompletedAt time.Time
}
