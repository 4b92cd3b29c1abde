package http

import (
	"context"
	"io"
	"time"

	"loyalty-hub/pkg/jwt"
	"loyalty-hub/pkg/queue"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, input entity.Registration) (*entity.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResult), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResult), args.Error(1)
}

func (m *MockAuthUseCase) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthUseCase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockAuthUseCase) Permissions(role entity.UserRole) entity.Permissions {
	args := m.Called(role)
	return args.Get(0).(entity.Permissions)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) ListUsers(ctx context.Context, filter entity.UserFilter, page entity.Page) (*entity.PageResult[*entity.User], error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.User]), args.Error(1)
}

func (m *MockUserUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateUser(ctx context.Context, id string, update entity.UserUpdate) (*entity.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) DeactivateUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ usecase.UserUseCase = (*MockUserUseCase)(nil)

type MockCustomerUseCase struct {
	mock.Mock
}

func (m *MockCustomerUseCase) List(ctx context.Context, filter entity.CustomerFilter, page entity.Page) (*entity.PageResult[*entity.Customer], error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.Customer]), args.Error(1)
}

func (m *MockCustomerUseCase) Get(ctx context.Context, id string) (*entity.CustomerDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerDetails), args.Error(1)
}

func (m *MockCustomerUseCase) GetByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerUseCase) Create(ctx context.Context, input entity.NewCustomer) (*entity.Customer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerUseCase) Update(ctx context.Context, id string, update entity.CustomerUpdate, actorID string) (*entity.Customer, error) {
	args := m.Called(ctx, id, update, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerUseCase) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerUseCase) AddKid(ctx context.Context, customerID string, kid entity.CustomerKid) (*entity.CustomerKid, error) {
	args := m.Called(ctx, customerID, kid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerKid), args.Error(1)
}

func (m *MockCustomerUseCase) ListKids(ctx context.Context, customerID string) ([]*entity.CustomerKid, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CustomerKid), args.Error(1)
}

func (m *MockCustomerUseCase) UpdateKid(ctx context.Context, customerID, kidID string, update entity.KidUpdate) (*entity.CustomerKid, error) {
	args := m.Called(ctx, customerID, kidID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerKid), args.Error(1)
}

func (m *MockCustomerUseCase) RemoveKid(ctx context.Context, customerID, kidID string) error {
	args := m.Called(ctx, customerID, kidID)
	return args.Error(0)
}

func (m *MockCustomerUseCase) Segments(ctx context.Context) (entity.CustomerSegments, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.CustomerSegments), args.Error(1)
}

func (m *MockCustomerUseCase) Activity(ctx context.Context, id string, limit int) ([]entity.ActivityItem, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ActivityItem), args.Error(1)
}

var _ usecase.CustomerUseCase = (*MockCustomerUseCase)(nil)

type MockLoyaltyUseCase struct {
	mock.Mock
}

func (m *MockLoyaltyUseCase) AwardPoints(ctx context.Context, award entity.PointsAward) (*entity.PointsResult, error) {
	args := m.Called(ctx, award)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PointsResult), args.Error(1)
}

func (m *MockLoyaltyUseCase) DeductPoints(ctx context.Context, deduction entity.PointsDeduction) (*entity.PointsResult, error) {
	args := m.Called(ctx, deduction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PointsResult), args.Error(1)
}

func (m *MockLoyaltyUseCase) AdjustPoints(ctx context.Context, customerID string, points int, description, actorID string) (*entity.PointsResult, error) {
	args := m.Called(ctx, customerID, points, description, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PointsResult), args.Error(1)
}

func (m *MockLoyaltyUseCase) TransferPoints(ctx context.Context, fromID, toID string, points int, description string) (*entity.TransferResult, error) {
	args := m.Called(ctx, fromID, toID, points, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TransferResult), args.Error(1)
}

func (m *MockLoyaltyUseCase) GetSummary(ctx context.Context, customerID string) (*entity.PointsSummary, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PointsSummary), args.Error(1)
}

func (m *MockLoyaltyUseCase) History(ctx context.Context, customerID string, filter entity.TransactionFilter, page entity.Page) (*entity.PageResult[*entity.LoyaltyTransaction], error) {
	args := m.Called(ctx, customerID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.LoyaltyTransaction]), args.Error(1)
}

func (m *MockLoyaltyUseCase) ExpirePoints(ctx context.Context, now time.Time) (*entity.ExpiryResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExpiryResult), args.Error(1)
}

var _ usecase.LoyaltyUseCase = (*MockLoyaltyUseCase)(nil)

type MockRewardUseCase struct {
	mock.Mock
}

func (m *MockRewardUseCase) Create(ctx context.Context, reward entity.Reward) (*entity.Reward, error) {
	args := m.Called(ctx, reward)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reward), args.Error(1)
}

func (m *MockRewardUseCase) Get(ctx context.Context, id string) (*entity.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reward), args.Error(1)
}

func (m *MockRewardUseCase) Update(ctx context.Context, id string, update entity.RewardUpdate) (*entity.Reward, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reward), args.Error(1)
}

func (m *MockRewardUseCase) UpdateStock(ctx context.Context, id string, quantity int) (*entity.Reward, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reward), args.Error(1)
}

func (m *MockRewardUseCase) UploadImage(ctx context.Context, id string, file io.Reader, filename, contentType string) (*entity.Reward, error) {
	args := m.Called(ctx, id, file, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reward), args.Error(1)
}

func (m *MockRewardUseCase) List(ctx context.Context, filter entity.RewardFilter, page entity.Page) (*entity.PageResult[*entity.Reward], error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.Reward]), args.Error(1)
}

func (m *MockRewardUseCase) Available(ctx context.Context, customerID string) ([]*entity.AvailableReward, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AvailableReward), args.Error(1)
}

func (m *MockRewardUseCase) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRewardUseCase) Featured(ctx context.Context, limit int) ([]*entity.Reward, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reward), args.Error(1)
}

func (m *MockRewardUseCase) Redeem(ctx context.Context, customerID, rewardID string, quantity int) (*entity.RedemptionResult, error) {
	args := m.Called(ctx, customerID, rewardID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RedemptionResult), args.Error(1)
}

func (m *MockRewardUseCase) Fulfill(ctx context.Context, redemptionID, actorID, notes string) (*entity.RewardRedemption, error) {
	args := m.Called(ctx, redemptionID, actorID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardRedemption), args.Error(1)
}

func (m *MockRewardUseCase) Cancel(ctx context.Context, redemptionID, reason string) (*entity.RedemptionResult, error) {
	args := m.Called(ctx, redemptionID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RedemptionResult), args.Error(1)
}

func (m *MockRewardUseCase) History(ctx context.Context, customerID string, page entity.Page) (*entity.PageResult[*entity.RewardRedemption], error) {
	args := m.Called(ctx, customerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.RewardRedemption]), args.Error(1)
}

func (m *MockRewardUseCase) Statistics(ctx context.Context, rewardID string) (*entity.RewardStatistics, error) {
	args := m.Called(ctx, rewardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardStatistics), args.Error(1)
}

func (m *MockRewardUseCase) Analytics(ctx context.Context) (*entity.RewardAnalytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardAnalytics), args.Error(1)
}

var _ usecase.RewardUseCase = (*MockRewardUseCase)(nil)

type MockTierUseCase struct {
	mock.Mock
}

func (m *MockTierUseCase) Evaluate(ctx context.Context, customer *entity.Customer) (*entity.TierHistory, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TierHistory), args.Error(1)
}

func (m *MockTierUseCase) Progress(customer *entity.Customer) *entity.TierProgress {
	args := m.Called(customer)
	return args.Get(0).(*entity.TierProgress)
}

func (m *MockTierUseCase) ListTiers(ctx context.Context) []entity.TierInfo {
	args := m.Called(ctx)
	return args.Get(0).([]entity.TierInfo)
}

func (m *MockTierUseCase) ListBenefits(ctx context.Context) ([]*entity.TierBenefit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TierBenefit), args.Error(1)
}

func (m *MockTierUseCase) CustomerTier(ctx context.Context, customerID string) (*entity.TierProgress, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TierProgress), args.Error(1)
}

func (m *MockTierUseCase) ManualUpgrade(ctx context.Context, customerID string, target entity.Tier, reason, actorID string) (*entity.TierHistory, error) {
	args := m.Called(ctx, customerID, target, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TierHistory), args.Error(1)
}

var _ usecase.TierUseCase = (*MockTierUseCase)(nil)

type MockAffiliateUseCase struct {
	mock.Mock
}

func (m *MockAffiliateUseCase) Register(ctx context.Context, userID string, profile entity.AffiliateProfile) (*entity.Affiliate, error) {
	args := m.Called(ctx, userID, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateUseCase) Get(ctx context.Context, id string) (*entity.Affiliate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateUseCase) GetByUserID(ctx context.Context, userID string) (*entity.Affiliate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateUseCase) List(ctx context.Context, filter entity.AffiliateFilter, page entity.Page) (*entity.PageResult[*entity.Affiliate], error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.Affiliate]), args.Error(1)
}

func (m *MockAffiliateUseCase) Approve(ctx context.Context, id, actorID string) (*entity.Affiliate, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateUseCase) SetStatus(ctx context.Context, id string, status entity.AffiliateStatus) (*entity.Affiliate, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateUseCase) UpdateProfile(ctx context.Context, id string, profile entity.AffiliateProfile) (*entity.Affiliate, error) {
	args := m.Called(ctx, id, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateUseCase) TrackReferral(ctx context.Context, code, customerID, source string, metadata entity.ReferralMetadata) (*entity.CustomerReferral, error) {
	args := m.Called(ctx, code, customerID, source, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerReferral), args.Error(1)
}

func (m *MockAffiliateUseCase) ListReferrals(ctx context.Context, affiliateID string, page entity.Page) (*entity.PageResult[*entity.CustomerReferral], error) {
	args := m.Called(ctx, affiliateID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.CustomerReferral]), args.Error(1)
}

func (m *MockAffiliateUseCase) CalculateCommission(ctx context.Context, referralID string, purchaseAmount decimal.Decimal, rate *decimal.Decimal) (*entity.AffiliateCommission, error) {
	args := m.Called(ctx, referralID, purchaseAmount, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AffiliateCommission), args.Error(1)
}

func (m *MockAffiliateUseCase) ApproveCommission(ctx context.Context, id, actorID string) (*entity.AffiliateCommission, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AffiliateCommission), args.Error(1)
}

func (m *MockAffiliateUseCase) ListCommissions(ctx context.Context, affiliateID string, status entity.CommissionStatus, page entity.Page) (*entity.PageResult[*entity.AffiliateCommission], error) {
	args := m.Called(ctx, affiliateID, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.AffiliateCommission]), args.Error(1)
}

func (m *MockAffiliateUseCase) RequestPayout(ctx context.Context, affiliateID string, amount decimal.Decimal, method string, details entity.PaymentDetails) (*entity.PayoutRequest, error) {
	args := m.Called(ctx, affiliateID, amount, method, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutRequest), args.Error(1)
}

func (m *MockAffiliateUseCase) ListPayouts(ctx context.Context, affiliateID string, status entity.PayoutStatus, page entity.Page) (*entity.PageResult[*entity.PayoutRequest], error) {
	args := m.Called(ctx, affiliateID, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.PayoutRequest]), args.Error(1)
}

func (m *MockAffiliateUseCase) ProcessPayout(ctx context.Context, id, actorID string) (*entity.PayoutRequest, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutRequest), args.Error(1)
}

func (m *MockAffiliateUseCase) CompletePayout(ctx context.Context, id, transactionRef, actorID string) (*entity.PayoutRequest, error) {
	args := m.Called(ctx, id, transactionRef, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutRequest), args.Error(1)
}

func (m *MockAffiliateUseCase) RejectPayout(ctx context.Context, id, actorID, notes string) (*entity.PayoutRequest, error) {
	args := m.Called(ctx, id, actorID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutRequest), args.Error(1)
}

func (m *MockAffiliateUseCase) Performance(ctx context.Context, affiliateID string, days int) (*entity.AffiliatePerformance, error) {
	args := m.Called(ctx, affiliateID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AffiliatePerformance), args.Error(1)
}

func (m *MockAffiliateUseCase) Dashboard(ctx context.Context, affiliateID string) (*entity.AffiliateDashboard, error) {
	args := m.Called(ctx, affiliateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AffiliateDashboard), args.Error(1)
}

var _ usecase.AffiliateUseCase = (*MockAffiliateUseCase)(nil)

type MockWhatsAppUseCase struct {
	mock.Mock
}

func (m *MockWhatsAppUseCase) message(args mock.Arguments) (*entity.WhatsAppMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsAppMessage), args.Error(1)
}

func (m *MockWhatsAppUseCase) SendMessage(ctx context.Context, msg entity.OutboundMessage) (*entity.WhatsAppMessage, error) {
	return m.message(m.Called(ctx, msg))
}

func (m *MockWhatsAppUseCase) SendTemplate(ctx context.Context, msg entity.TemplateMessage) (*entity.WhatsAppMessage, error) {
	return m.message(m.Called(ctx, msg))
}

func (m *MockWhatsAppUseCase) CreateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) (*entity.NotificationTemplate, error) {
	args := m.Called(ctx, tpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NotificationTemplate), args.Error(1)
}

func (m *MockWhatsAppUseCase) UpdateTemplate(ctx context.Context, id string, update entity.TemplateUpdate) (*entity.NotificationTemplate, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NotificationTemplate), args.Error(1)
}

func (m *MockWhatsAppUseCase) ListTemplates(ctx context.Context, category entity.TemplateCategory, activeOnly bool) ([]*entity.NotificationTemplate, error) {
	args := m.Called(ctx, category, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.NotificationTemplate), args.Error(1)
}

func (m *MockWhatsAppUseCase) VerifyWebhook(mode, token, challenge string) (string, error) {
	args := m.Called(mode, token, challenge)
	return args.String(0), args.Error(1)
}

func (m *MockWhatsAppUseCase) HandleWebhook(ctx context.Context, body []byte) (*entity.WebhookResult, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WebhookResult), args.Error(1)
}

func (m *MockWhatsAppUseCase) SendPointsNotification(ctx context.Context, customer *entity.Customer, points int, reason string) (*entity.WhatsAppMessage, error) {
	return m.message(m.Called(ctx, customer, points, reason))
}

func (m *MockWhatsAppUseCase) SendTierUpgradeNotification(ctx context.Context, customer *entity.Customer, newTier entity.Tier) (*entity.WhatsAppMessage, error) {
	return m.message(m.Called(ctx, customer, newTier))
}

func (m *MockWhatsAppUseCase) SendRedemptionNotification(ctx context.Context, customer *entity.Customer, rewardName, code string) (*entity.WhatsAppMessage, error) {
	return m.message(m.Called(ctx, customer, rewardName, code))
}

func (m *MockWhatsAppUseCase) SendBirthdayMessage(ctx context.Context, customer *entity.Customer, kid *entity.CustomerKid, code string) (*entity.WhatsAppMessage, error) {
	return m.message(m.Called(ctx, customer, kid, code))
}

func (m *MockWhatsAppUseCase) ProcessDailyBirthdays(ctx context.Context, today time.Time) (*entity.BirthdayRunResult, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BirthdayRunResult), args.Error(1)
}

func (m *MockWhatsAppUseCase) History(ctx context.Context, customerID string, page entity.Page) (*entity.PageResult[*entity.WhatsAppMessage], error) {
	args := m.Called(ctx, customerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PageResult[*entity.WhatsAppMessage]), args.Error(1)
}

func (m *MockWhatsAppUseCase) DeliveryStatus(ctx context.Context, messageID string) (*entity.MessageDeliveryStatus, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MessageDeliveryStatus), args.Error(1)
}

func (m *MockWhatsAppUseCase) UploadMedia(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	args := m.Called(ctx, file, filename, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockWhatsAppUseCase) HandleEvent(event queue.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

var _ usecase.WhatsAppUseCase = (*MockWhatsAppUseCase)(nil)

type MockERPUseCase struct {
	mock.Mock
}

func (m *MockERPUseCase) status(args mock.Arguments) (*entity.ConnectionStatus, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConnectionStatus), args.Error(1)
}

func (m *MockERPUseCase) result(args mock.Arguments) (*entity.SyncResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncResult), args.Error(1)
}

func (m *MockERPUseCase) TestConnection(ctx context.Context) (*entity.ConnectionStatus, error) {
	return m.status(m.Called(ctx))
}

func (m *MockERPUseCase) Status(ctx context.Context) (*entity.ConnectionStatus, error) {
	return m.status(m.Called(ctx))
}

func (m *MockERPUseCase) SyncCustomers(ctx context.Context, since *time.Time) (*entity.SyncResult, error) {
	return m.result(m.Called(ctx, since))
}

func (m *MockERPUseCase) SyncSales(ctx context.Context, since *time.Time) (*entity.SyncResult, error) {
	return m.result(m.Called(ctx, since))
}

func (m *MockERPUseCase) SyncAll(ctx context.Context) (*entity.SyncResult, error) {
	return m.result(m.Called(ctx))
}

func (m *MockERPUseCase) IncrementalSync(ctx context.Context) (*entity.SyncResult, error) {
	return m.result(m.Called(ctx))
}

func (m *MockERPUseCase) SyncToERP(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockERPUseCase) SyncHistory(ctx context.Context, limit int) ([]*entity.SyncRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SyncRun), args.Error(1)
}

func (m *MockERPUseCase) SyncReport(ctx context.Context, days int) (*entity.SyncReport, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncReport), args.Error(1)
}

func (m *MockERPUseCase) DataSummary(ctx context.Context) (*entity.DataSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DataSummary), args.Error(1)
}

func (m *MockERPUseCase) Mappings() []entity.FieldMapping {
	args := m.Called()
	return args.Get(0).([]entity.FieldMapping)
}

func (m *MockERPUseCase) IntegrationHealth(ctx context.Context) (*entity.IntegrationHealth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IntegrationHealth), args.Error(1)
}

var _ usecase.ERPUseCase = (*MockERPUseCase)(nil)

type MockAnalyticsUseCase struct {
	mock.Mock
}

func (m *MockAnalyticsUseCase) Dashboard(ctx context.Context, from, to *time.Time) (*entity.Dashboard, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dashboard), args.Error(1)
}

func (m *MockAnalyticsUseCase) CustomerAnalytics(ctx context.Context) (*entity.CustomerAnalyticsReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerAnalyticsReport), args.Error(1)
}

func (m *MockAnalyticsUseCase) LoyaltyAnalytics(ctx context.Context, from, to *time.Time) (*entity.LoyaltyAnalyticsReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LoyaltyAnalyticsReport), args.Error(1)
}

var _ usecase.AnalyticsUseCase = (*MockAnalyticsUseCase)(nil)
