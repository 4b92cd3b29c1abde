package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

const (
	affiliateCodeLength  = 8
	dashboardPeriodDays  = 30
	recentReferralsLimit = 10
)

var (
	hundred                = decimal.NewFromInt(100)
	fallbackCommissionRate = decimal.NewFromInt(5)
)

type AffiliateUseCase interface {
	Register(ctx context.Context, userID string, profile entity.AffiliateProfile) (*entity.Affiliate, error)
	Get(ctx context.Context, id string) (*entity.Affiliate, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Affiliate, error)
	List(ctx context.Context, filter entity.AffiliateFilter, page entity.Page) (*entity.PageResult[*entity.Affiliate], error)
	Approve(ctx context.Context, id, actorID string) (*entity.Affiliate, error)
	SetStatus(ctx context.Context, id string, status entity.AffiliateStatus) (*entity.Affiliate, error)
	UpdateProfile(ctx context.Context, id string, profile entity.AffiliateProfile) (*entity.Affiliate, error)

	TrackReferral(ctx context.Context, code, customerID, source string, metadata entity.ReferralMetadata) (*entity.CustomerReferral, error)
	ListReferrals(ctx context.Context, affiliateID string, page entity.Page) (*entity.PageResult[*entity.CustomerReferral], error)

	CalculateCommission(ctx context.Context, referralID string, purchaseAmount decimal.Decimal, rate *decimal.Decimal) (*entity.AffiliateCommission, error)
	ApproveCommission(ctx context.Context, id, actorID string) (*entity.AffiliateCommission, error)
	ListCommissions(ctx context.Context, affiliateID string, status entity.CommissionStatus, page entity.Page) (*entity.PageResult[*entity.AffiliateCommission], error)

	RequestPayout(ctx context.Context, affiliateID string, amount decimal.Decimal, method string, details entity.PaymentDetails) (*entity.PayoutRequest, error)
	ListPayouts(ctx context.Context, affiliateID string, status entity.PayoutStatus, page entity.Page) (*entity.PageResult[*entity.PayoutRequest], error)
	ProcessPayout(ctx context.Context, id, actorID string) (*entity.PayoutRequest, error)
	CompletePayout(ctx context.Context, id, transactionRef, actorID string) (*entity.PayoutRequest, error)
	RejectPayout(ctx context.Context, id, actorID, notes string) (*entity.PayoutRequest, error)

	Performance(ctx context.Context, affiliateID string, days int) (*entity.AffiliatePerformance, error)
	Dashboard(ctx context.Context, affiliateID string) (*entity.AffiliateDashboard, error)
}

type affiliateUseCase struct {
	affiliateRepo persistent.AffiliateRepository
	userRepo      persistent.UserRepository
	customerRepo  persistent.CustomerRepository
	cfg           *config.Config
	logger        *logger.Logger
}

func NewAffiliateUseCase(
	affiliateRepo persistent.AffiliateRepository,
	userRepo persistent.UserRepository,
	customerRepo persistent.CustomerRepository,
	cfg *config.Config,
	logger *logger.Logger,
) AffiliateUseCase {
	return &affiliateUseCase{
		affiliateRepo: affiliateRepo,
		userRepo:      userRepo,
		customerRepo:  customerRepo,
		cfg:           cfg,
		logger:        logger,
	}
}

func (uc *affiliateUseCase) Register(ctx context.Context, userID string, profile entity.AffiliateProfile) (*entity.Affiliate, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.affiliateRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil && existing != nil:
		return nil, errs.Conflict("user is already registered as an affiliate")
	case err != nil && !errors.Is(err, errs.ErrNotFound):
		uc.logger.Error("Failed to check affiliate for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to check affiliate: %w", err)
	}

	code, err := uc.uniqueAffiliateCode(ctx)
	if err != nil {
		return nil, err
	}

	affiliate := &entity.Affiliate{
		UserID:         user.ID,
		AffiliateCode:  code,
		ReferralLink:   uc.cfg.ReferralBaseURL + code,
		Status:         entity.AffiliatePending,
		CommissionRate: uc.defaultRate(),
		JoinedDate:     time.Now().UTC(),
	}
	applyProfile(affiliate, profile)

	if err := uc.affiliateRepo.Create(ctx, affiliate); err != nil {
		uc.logger.Error("Failed to register affiliate for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to register affiliate: %w", err)
	}
	affiliate.User = user

	uc.logger.Info("Registered affiliate %s with code %s", affiliate.ID, code)
	return affiliate, nil
}

func (uc *affiliateUseCase) Get(ctx context.Context, id string) (*entity.Affiliate, error) {
	return uc.affiliateRepo.GetByID(ctx, id)
}

func (uc *affiliateUseCase) GetByUserID(ctx context.Context, userID string) (*entity.Affiliate, error) {
	return uc.affiliateRepo.GetByUserID(ctx, userID)
}

func (uc *affiliateUseCase) List(ctx context.Context, filter entity.AffiliateFilter, page entity.Page) (*entity.PageResult[*entity.Affiliate], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errs.Validation("invalid status: %s", filter.Status)
	}
	page = page.Normalize()
	affiliates, total, err := uc.affiliateRepo.List(ctx, filter, page)
	if err != nil {
		uc.logger.Error("Failed to list affiliates: %v", err)
		return nil, fmt.Errorf("failed to list affiliates: %w", err)
	}
	return entity.NewPageResult(affiliates, total, page), nil
}

func (uc *affiliateUseCase) Approve(ctx context.Context, id, actorID string) (*entity.Affiliate, error) {
	affiliate, err := uc.affiliateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if affiliate.Status != entity.AffiliatePending {
		return nil, errs.Validation("affiliate is %s, only pending affiliates can be approved", affiliate.Status)
	}

	approved, err := uc.affiliateRepo.Approve(ctx, id, actorID, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to approve affiliate %s: %v", id, err)
		return nil, fmt.Errorf("failed to approve affiliate: %w", err)
	}
	if !approved {
		return nil, errs.Conflict("affiliate %s changed concurrently", id)
	}
	return uc.affiliateRepo.GetByID(ctx, id)
}

func (uc *affiliateUseCase) SetStatus(ctx context.Context, id string, status entity.AffiliateStatus) (*entity.Affiliate, error) {
	if !status.Valid() {
		return nil, errs.Validation("invalid status: %s", status)
	}
	if err := uc.affiliateRepo.SetStatus(ctx, id, status); err != nil {
		uc.logger.Error("Failed to set status of affiliate %s: %v", id, err)
		return nil, fmt.Errorf("failed to set affiliate status: %w", err)
	}
	return uc.affiliateRepo.GetByID(ctx, id)
}

func (uc *affiliateUseCase) UpdateProfile(ctx context.Context, id string, profile entity.AffiliateProfile) (*entity.Affiliate, error) {
	affiliate, err := uc.affiliateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProfile(affiliate, profile)
	if err := uc.affiliateRepo.UpdateProfile(ctx, affiliate); err != nil {
		uc.logger.Error("Failed to update affiliate %s: %v", id, err)
		return nil, fmt.Errorf("failed to update affiliate: %w", err)
	}
	return affiliate, nil
}

// TrackReferral attributes a customer to an affiliate. Unknown codes and
// affiliates that may not refer yield (nil, nil) so signup flows never fail on
// a bad link.
func (uc *affiliateUseCase) TrackReferral(ctx context.Context, code, customerID, source string, metadata entity.ReferralMetadata) (*entity.CustomerReferral, error) {
	affiliate, err := uc.affiliateRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			uc.logger.Debug("Ignoring referral with unknown code %s", code)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve affiliate code: %w", err)
	}
	if !affiliate.Status.CanRefer() {
		uc.logger.Debug("Ignoring referral for %s affiliate %s", affiliate.Status, affiliate.ID)
		return nil, nil
	}
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	existing, err := uc.affiliateRepo.FindReferral(ctx, affiliate.ID, customerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up referral: %w", err)
	}

	referral := &entity.CustomerReferral{
		AffiliateID:      affiliate.ID,
		CustomerID:       customerID,
		ReferralCodeUsed: code,
		ReferralSource:   source,
		ConversionValue:  decimal.Zero,
		CommissionAmount: decimal.Zero,
		Status:           entity.ReferralConverted,
		Metadata:         metadata,
	}
	if err := uc.affiliateRepo.CreateReferral(ctx, referral); err != nil {
		uc.logger.Error("Failed to create referral for affiliate %s: %v", affiliate.ID, err)
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}
	return referral, nil
}

func (uc *affiliateUseCase) ListReferrals(ctx context.Context, affiliateID string, page entity.Page) (*entity.PageResult[*entity.CustomerReferral], error) {
	page = page.Normalize()
	referrals, total, err := uc.affiliateRepo.ListReferrals(ctx, affiliateID, page)
	if err != nil {
		uc.logger.Error("Failed to list referrals of affiliate %s: %v", affiliateID, err)
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return entity.NewPageResult(referrals, total, page), nil
}

func (uc *affiliateUseCase) CalculateCommission(ctx context.Context, referralID string, purchaseAmount decimal.Decimal, rate *decimal.Decimal) (*entity.AffiliateCommission, error) {
	if !purchaseAmount.IsPositive() {
		return nil, errs.Validation("purchase_amount must be positive")
	}
	if rate != nil && (rate.IsNegative() || rate.GreaterThan(hundred)) {
		return nil, errs.Validation("commission rate must be between 0 and 100")
	}

	referral, err := uc.affiliateRepo.GetReferral(ctx, referralID)
	if err != nil {
		return nil, err
	}
	affiliate, err := uc.affiliateRepo.GetByID(ctx, referral.AffiliateID)
	if err != nil {
		return nil, err
	}

	applied := affiliate.CommissionRate
	if rate != nil {
		applied = *rate
	}
	amount := CommissionAmount(purchaseAmount, applied)

	commission, err := uc.affiliateRepo.CreateCommission(ctx, entity.CommissionCalculation{
		Referral:       referral,
		Affiliate:      affiliate,
		PurchaseAmount: purchaseAmount,
		Rate:           applied,
		Amount:         amount,
		Description:    fmt.Sprintf("Commission for referral %s - $%s purchase", referral.ID, purchaseAmount.StringFixed(2)),
	})
	if err != nil {
		uc.logger.Error("Failed to record commission for referral %s: %v", referralID, err)
		return nil, fmt.Errorf("failed to record commission: %w", err)
	}

	uc.logger.Info("Commission %s of %s recorded for affiliate %s", commission.ID, amount.StringFixed(2), affiliate.ID)
	return commission, nil
}

// CommissionAmount is round(amount * rate / 100, 2).
func CommissionAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred).Round(2)
}

func (uc *affiliateUseCase) ApproveCommission(ctx context.Context, id, actorID string) (*entity.AffiliateCommission, error) {
	commission, err := uc.affiliateRepo.ApproveCommission(ctx, id, actorID, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to approve commission %s: %v", id, err)
		return nil, fmt.Errorf("failed to approve commission: %w", err)
	}
	return commission, nil
}

func (uc *affiliateUseCase) ListCommissions(ctx context.Context, affiliateID string, status entity.CommissionStatus, page entity.Page) (*entity.PageResult[*entity.AffiliateCommission], error) {
	page = page.Normalize()
	commissions, total, err := uc.affiliateRepo.ListCommissions(ctx, affiliateID, status, page)
	if err != nil {
		uc.logger.Error("Failed to list commissions of affiliate %s: %v", affiliateID, err)
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	return entity.NewPageResult(commissions, total, page), nil
}

func (uc *affiliateUseCase) RequestPayout(ctx context.Context, affiliateID string, amount decimal.Decimal, method string, details entity.PaymentDetails) (*entity.PayoutRequest, error) {
	if !amount.IsPositive() {
		return nil, errs.Validation("payout amount must be positive")
	}
	affiliate, err := uc.affiliateRepo.GetByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(affiliate.UnpaidBalance) {
		return nil, errs.Validation("payout amount %s exceeds unpaid balance %s",
			amount.StringFixed(2), affiliate.UnpaidBalance.StringFixed(2))
	}
	if method == "" {
		method = affiliate.PaymentMethod
	}
	if method == "" {
		return nil, errs.Validation("payment_method is required")
	}
	if details == (entity.PaymentDetails{}) {
		details = affiliate.PaymentDetails
	}

	payout := &entity.PayoutRequest{
		AffiliateID:    affiliateID,
		Amount:         amount.Round(2),
		PaymentMethod:  method,
		PaymentDetails: details,
		Status:         entity.PayoutPending,
	}
	if err := uc.affiliateRepo.CreatePayout(ctx, payout); err != nil {
		uc.logger.Error("Failed to create payout for affiliate %s: %v", affiliateID, err)
		return nil, fmt.Errorf("failed to create payout: %w", err)
	}
	return payout, nil
}

func (uc *affiliateUseCase) ListPayouts(ctx context.Context, affiliateID string, status entity.PayoutStatus, page entity.Page) (*entity.PageResult[*entity.PayoutRequest], error) {
	page = page.Normalize()
	payouts, total, err := uc.affiliateRepo.ListPayouts(ctx, affiliateID, status, page)
	if err != nil {
		uc.logger.Error("Failed to list payouts of affiliate %s: %v", affiliateID, err)
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return entity.NewPageResult(payouts, total, page), nil
}

func (uc *affiliateUseCase) ProcessPayout(ctx context.Context, id, actorID string) (*entity.PayoutRequest, error) {
	return uc.transitionPayout(ctx, id, []entity.PayoutStatus{entity.PayoutPending}, entity.PayoutProcessing, actorID, "")
}

func (uc *affiliateUseCase) CompletePayout(ctx context.Context, id, transactionRef, actorID string) (*entity.PayoutRequest, error) {
	if transactionRef == "" {
		return nil, errs.Validation("transaction reference is required")
	}
	payout, err := uc.affiliateRepo.GetPayout(ctx, id)
	if err != nil {
		return nil, err
	}
	if payout.Status != entity.PayoutPending && payout.Status != entity.PayoutProcessing {
		return nil, errs.Validation("payout is %s and cannot be completed", payout.Status)
	}

	completed, err := uc.affiliateRepo.CompletePayout(ctx, entity.PayoutCompletion{
		Payout:      payout,
		Reference:   transactionRef,
		ProcessedBy: actorID,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		uc.logger.Error("Failed to complete payout %s: %v", id, err)
		return nil, fmt.Errorf("failed to complete payout: %w", err)
	}

	uc.logger.Info("Payout %s of %s completed for affiliate %s", id, payout.Amount.StringFixed(2), payout.AffiliateID)
	return completed, nil
}

func (uc *affiliateUseCase) RejectPayout(ctx context.Context, id, actorID, notes string) (*entity.PayoutRequest, error) {
	return uc.transitionPayout(ctx, id, []entity.PayoutStatus{entity.PayoutPending, entity.PayoutProcessing}, entity.PayoutRejected, actorID, notes)
}

func (uc *affiliateUseCase) transitionPayout(ctx context.Context, id string, from []entity.PayoutStatus, to entity.PayoutStatus, actorID, notes string) (*entity.PayoutRequest, error) {
	payout, err := uc.affiliateRepo.TransitionPayout(ctx, id, from, to, actorID, notes, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to move payout %s to %s: %v", id, to, err)
		return nil, fmt.Errorf("failed to update payout: %w", err)
	}
	return payout, nil
}

func (uc *affiliateUseCase) Performance(ctx context.Context, affiliateID string, days int) (*entity.AffiliatePerformance, error) {
	if days <= 0 {
		days = dashboardPeriodDays
	}
	if days > 365 {
		return nil, errs.Validation("days must be at most 365")
	}
	if _, err := uc.affiliateRepo.GetByID(ctx, affiliateID); err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	perf, err := uc.affiliateRepo.ReferralStats(ctx, affiliateID, since)
	if err != nil {
		uc.logger.Error("Failed to load referral stats for affiliate %s: %v", affiliateID, err)
		return nil, fmt.Errorf("failed to load performance: %w", err)
	}
	totals, err := uc.affiliateRepo.CommissionTotals(ctx, affiliateID, &since)
	if err != nil {
		uc.logger.Error("Failed to load commission totals for affiliate %s: %v", affiliateID, err)
		return nil, fmt.Errorf("failed to load performance: %w", err)
	}

	perf.PeriodDays = days
	perf.Commissions = totals
	perf.EarningsInPeriod = totals.Pending.Add(totals.Approved).Add(totals.Paid)
	return perf, nil
}

func (uc *affiliateUseCase) Dashboard(ctx context.Context, affiliateID string) (*entity.AffiliateDashboard, error) {
	affiliate, err := uc.affiliateRepo.GetByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	perf, err := uc.Performance(ctx, affiliateID, dashboardPeriodDays)
	if err != nil {
		return nil, err
	}
	referrals, _, err := uc.affiliateRepo.ListReferrals(ctx, affiliateID, entity.Page{Limit: recentReferralsLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load referrals: %w", err)
	}
	payouts, _, err := uc.affiliateRepo.ListPayouts(ctx, affiliateID, entity.PayoutPending, entity.Page{Limit: recentReferralsLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load payouts: %w", err)
	}

	return &entity.AffiliateDashboard{
		Affiliate:       affiliate,
		Performance:     perf,
		RecentReferrals: referrals,
		PendingPayouts:  payouts,
		PerformanceTier: PerformanceTier(perf.EarningsInPeriod),
	}, nil
}

// PerformanceTier ranks 30-day earnings.
func PerformanceTier(earnings decimal.Decimal) string {
	switch {
	case earnings.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return "Platinum"
	case earnings.GreaterThanOrEqual(decimal.NewFromInt(500)):
		return "Gold"
	case earnings.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return "Silver"
	}
	return "Bronze"
}

func (uc *affiliateUseCase) defaultRate() decimal.Decimal {
	rate, err := decimal.NewFromString(uc.cfg.DefaultCommissionRate)
	if err != nil {
		uc.logger.Warn("Invalid default commission rate %q, using %s", uc.cfg.DefaultCommissionRate, fallbackCommissionRate)
		return fallbackCommissionRate
	}
	return rate
}

func (uc *affiliateUseCase) uniqueAffiliateCode(ctx context.Context) (string, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		code, err := randomCode(affiliateCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate affiliate code: %w", err)
		}
		exists, err := uc.affiliateRepo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check affiliate code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errs.Conflict("could not generate a unique affiliate code")
}

func applyProfile(affiliate *entity.Affiliate, profile entity.AffiliateProfile) {
	if profile.PaymentMethod != nil {
		affiliate.PaymentMethod = *profile.PaymentMethod
	}
	if profile.PaymentDetails != nil {
		affiliate.PaymentDetails = *profile.PaymentDetails
	}
	if profile.WebsiteURL != nil {
		affiliate.WebsiteURL = *profile.WebsiteURL
	}
	if profile.MarketingChannels != nil {
		affiliate.MarketingChannels = profile.MarketingChannels
	}
	if profile.Notes != nil {
		affiliate.Notes = *profile.Notes
	}
}
