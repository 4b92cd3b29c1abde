package usecase

import (
	"context"
	"io"
	"time"

	"loyalty-hub/pkg/queue"
	"loyalty-hub/pkg/whatsapp"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/erp"
	"loyalty-hub/services/api/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateWithUser(ctx context.Context, user *entity.User, customer *entity.Customer) error {
	args := m.Called(ctx, user, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByERPID(ctx context.Context, erpID string) (*entity.Customer, error) {
	args := m.Called(ctx, erpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByContact(ctx context.Context, email string, phone string) (*entity.Customer, error) {
	args := m.Called(ctx, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter entity.CustomerFilter, page entity.Page) ([]*entity.Customer, int64, error) {
	args := m.Called(ctx, filter, page)
	var r0 []*entity.Customer
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.Customer)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateWithUser(ctx context.Context, user *entity.User, customer *entity.Customer) error {
	args := m.Called(ctx, user, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) ChangeTier(ctx context.Context, from entity.Tier, history *entity.TierHistory) (bool, error) {
	args := m.Called(ctx, from, history)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) TierHistory(ctx context.Context, customerID string, limit int) ([]*entity.TierHistory, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TierHistory), args.Error(1)
}

func (m *MockCustomerRepository) CreateKid(ctx context.Context, kid *entity.CustomerKid) error {
	args := m.Called(ctx, kid)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetKid(ctx context.Context, customerID string, kidID string) (*entity.CustomerKid, error) {
	args := m.Called(ctx, customerID, kidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerKid), args.Error(1)
}

func (m *MockCustomerRepository) ListKids(ctx context.Context, customerID string) ([]*entity.CustomerKid, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CustomerKid), args.Error(1)
}

func (m *MockCustomerRepository) UpdateKid(ctx context.Context, kid *entity.CustomerKid) error {
	args := m.Called(ctx, kid)
	return args.Error(0)
}

func (m *MockCustomerRepository) Segments(ctx context.Context, now time.Time) (entity.CustomerSegments, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(entity.CustomerSegments), args.Error(1)
}

func (m *MockCustomerRepository) TierDistribution(ctx context.Context) (map[entity.Tier]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entity.Tier]int64), args.Error(1)
}

func (m *MockCustomerRepository) TopByLifetime(ctx context.Context, limit int) ([]entity.TopCustomer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TopCustomer), args.Error(1)
}

func (m *MockCustomerRepository) BirthdayCandidates(ctx context.Context, day time.Time) ([]entity.BirthdayCandidate, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BirthdayCandidate), args.Error(1)
}

var _ persistent.CustomerRepository = (*MockCustomerRepository)(nil)

type MockLoyaltyRepository struct {
	mock.Mock
}

func (m *MockLoyaltyRepository) Apply(ctx context.Context, t *entity.LoyaltyTransaction) (*entity.Customer, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockLoyaltyRepository) Transfer(ctx context.Context, debit *entity.LoyaltyTransaction, credit *entity.LoyaltyTransaction) (*entity.Customer, *entity.Customer, error) {
	args := m.Called(ctx, debit, credit)
	var r0 *entity.Customer
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Customer)
	}
	var r1 *entity.Customer
	if v := args.Get(1); v != nil {
		r1 = v.(*entity.Customer)
	}
	return r0, r1, args.Error(2)
}

func (m *MockLoyaltyRepository) Expire(ctx context.Context, sourceID string, now time.Time) (*entity.LoyaltyTransaction, *entity.Customer, error) {
	args := m.Called(ctx, sourceID, now)
	var r0 *entity.LoyaltyTransaction
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.LoyaltyTransaction)
	}
	var r1 *entity.Customer
	if v := args.Get(1); v != nil {
		r1 = v.(*entity.Customer)
	}
	return r0, r1, args.Error(2)
}

func (m *MockLoyaltyRepository) GetByID(ctx context.Context, id string) (*entity.LoyaltyTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LoyaltyTransaction), args.Error(1)
}

func (m *MockLoyaltyRepository) ListByCustomer(ctx context.Context, customerID string, filter entity.TransactionFilter, page entity.Page) ([]*entity.LoyaltyTransaction, int64, error) {
	args := m.Called(ctx, customerID, filter, page)
	var r0 []*entity.LoyaltyTransaction
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.LoyaltyTransaction)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockLoyaltyRepository) DueForExpiry(ctx context.Context, now time.Time, limit int) ([]*entity.LoyaltyTransaction, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LoyaltyTransaction), args.Error(1)
}

func (m *MockLoyaltyRepository) Totals(ctx context.Context, customerID string, now time.Time, window time.Duration) (entity.LedgerTotals, error) {
	args := m.Called(ctx, customerID, now, window)
	return args.Get(0).(entity.LedgerTotals), args.Error(1)
}

func (m *MockLoyaltyRepository) CountSince(ctx context.Context, customerID string, since time.Time) (int64, error) {
	args := m.Called(ctx, customerID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoyaltyRepository) ExistsForERPSale(ctx context.Context, saleID string) (bool, error) {
	args := m.Called(ctx, saleID)
	return args.Bool(0), args.Error(1)
}

var _ persistent.LoyaltyRepository = (*MockLoyaltyRepository)(nil)

type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) Create(ctx context.Context, reward *entity.Reward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRewardRepository) GetByID(ctx context.Context, id string) (*entity.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reward), args.Error(1)
}

func (m *MockRewardRepository) Update(ctx context.Context, reward *entity.Reward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRewardRepository) SetStock(ctx context.Context, id string, quantity int, status entity.RewardStatus) error {
	args := m.Called(ctx, id, quantity, status)
	return args.Error(0)
}

func (m *MockRewardRepository) SetImage(ctx context.Context, id string, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockRewardRepository) List(ctx context.Context, filter entity.RewardFilter, page entity.Page) ([]*entity.Reward, int64, error) {
	args := m.Called(ctx, filter, page)
	var r0 []*entity.Reward
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.Reward)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockRewardRepository) ListRedeemable(ctx context.Context, now time.Time) ([]*entity.Reward, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reward), args.Error(1)
}

func (m *MockRewardRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRewardRepository) Featured(ctx context.Context, now time.Time, limit int) ([]*entity.Reward, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reward), args.Error(1)
}

func (m *MockRewardRepository) Redeem(ctx context.Context, req entity.RedeemRequest, debit *entity.LoyaltyTransaction) (*entity.RedemptionResult, error) {
	args := m.Called(ctx, req, debit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RedemptionResult), args.Error(1)
}

func (m *MockRewardRepository) Fulfill(ctx context.Context, redemptionID string, actorID string, notes string, now time.Time) (*entity.RewardRedemption, error) {
	args := m.Called(ctx, redemptionID, actorID, notes, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardRedemption), args.Error(1)
}

func (m *MockRewardRepository) Cancel(ctx context.Context, redemption *entity.RewardRedemption, refund *entity.LoyaltyTransaction, reason string) (*entity.RedemptionResult, error) {
	args := m.Called(ctx, redemption, refund, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RedemptionResult), args.Error(1)
}

func (m *MockRewardRepository) GetRedemption(ctx context.Context, id string) (*entity.RewardRedemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardRedemption), args.Error(1)
}

func (m *MockRewardRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRewardRepository) CustomerRedemptionCounts(ctx context.Context, customerID string) (map[string]int64, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockRewardRepository) ListRedemptions(ctx context.Context, customerID string, page entity.Page) ([]*entity.RewardRedemption, int64, error) {
	args := m.Called(ctx, customerID, page)
	var r0 []*entity.RewardRedemption
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.RewardRedemption)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockRewardRepository) Statistics(ctx context.Context, rewardID string) (*entity.RewardStatistics, error) {
	args := m.Called(ctx, rewardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardStatistics), args.Error(1)
}

func (m *MockRewardRepository) Analytics(ctx context.Context, top int) (*entity.RewardAnalytics, error) {
	args := m.Called(ctx, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardAnalytics), args.Error(1)
}

var _ persistent.RewardRepository = (*MockRewardRepository)(nil)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrPhone(ctx context.Context, email string, phone string) (bool, error) {
	args := m.Called(ctx, email, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entity.UserFilter, page entity.Page) ([]*entity.User, int64, error) {
	args := m.Called(ctx, filter, page)
	var r0 []*entity.User
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.User)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

var _ persistent.UserRepository = (*MockUserRepository)(nil)

type MockAffiliateRepository struct {
	mock.Mock
}

func (m *MockAffiliateRepository) Create(ctx context.Context, affiliate *entity.Affiliate) error {
	args := m.Called(ctx, affiliate)
	return args.Error(0)
}

func (m *MockAffiliateRepository) GetByID(ctx context.Context, id string) (*entity.Affiliate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) GetByUserID(ctx context.Context, userID string) (*entity.Affiliate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) GetByCode(ctx context.Context, code string) (*entity.Affiliate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAffiliateRepository) UpdateProfile(ctx context.Context, affiliate *entity.Affiliate) error {
	args := m.Called(ctx, affiliate)
	return args.Error(0)
}

func (m *MockAffiliateRepository) Approve(ctx context.Context, id string, actorID string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, actorID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockAffiliateRepository) SetStatus(ctx context.Context, id string, status entity.AffiliateStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAffiliateRepository) List(ctx context.Context, filter entity.AffiliateFilter, page entity.Page) ([]*entity.Affiliate, int64, error) {
	args := m.Called(ctx, filter, page)
	var r0 []*entity.Affiliate
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.Affiliate)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockAffiliateRepository) FindReferral(ctx context.Context, affiliateID string, customerID string) (*entity.CustomerReferral, error) {
	args := m.Called(ctx, affiliateID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerReferral), args.Error(1)
}

func (m *MockAffiliateRepository) CreateReferral(ctx context.Context, referral *entity.CustomerReferral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

func (m *MockAffiliateRepository) GetReferral(ctx context.Context, id string) (*entity.CustomerReferral, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerReferral), args.Error(1)
}

func (m *MockAffiliateRepository) ListReferrals(ctx context.Context, affiliateID string, page entity.Page) ([]*entity.CustomerReferral, int64, error) {
	args := m.Called(ctx, affiliateID, page)
	var r0 []*entity.CustomerReferral
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.CustomerReferral)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockAffiliateRepository) ReferralStats(ctx context.Context, affiliateID string, since time.Time) (*entity.AffiliatePerformance, error) {
	args := m.Called(ctx, affiliateID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AffiliatePerformance), args.Error(1)
}

func (m *MockAffiliateRepository) CreateCommission(ctx context.Context, calc entity.CommissionCalculation) (*entity.AffiliateCommission, error) {
	args := m.Called(ctx, calc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AffiliateCommission), args.Error(1)
}

func (m *MockAffiliateRepository) ApproveCommission(ctx context.Context, id string, actorID string, now time.Time) (*entity.AffiliateCommission, error) {
	args := m.Called(ctx, id, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AffiliateCommission), args.Error(1)
}

func (m *MockAffiliateRepository) ListCommissions(ctx context.Context, affiliateID string, status entity.CommissionStatus, page entity.Page) ([]*entity.AffiliateCommission, int64, error) {
	args := m.Called(ctx, affiliateID, status, page)
	var r0 []*entity.AffiliateCommission
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.AffiliateCommission)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockAffiliateRepository) CommissionTotals(ctx context.Context, affiliateID string, since *time.Time) (entity.CommissionTotals, error) {
	args := m.Called(ctx, affiliateID, since)
	return args.Get(0).(entity.CommissionTotals), args.Error(1)
}

func (m *MockAffiliateRepository) CreatePayout(ctx context.Context, payout *entity.PayoutRequest) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockAffiliateRepository) GetPayout(ctx context.Context, id string) (*entity.PayoutRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutRequest), args.Error(1)
}

func (m *MockAffiliateRepository) ListPayouts(ctx context.Context, affiliateID string, status entity.PayoutStatus, page entity.Page) ([]*entity.PayoutRequest, int64, error) {
	args := m.Called(ctx, affiliateID, status, page)
	var r0 []*entity.PayoutRequest
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.PayoutRequest)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockAffiliateRepository) TransitionPayout(ctx context.Context, id string, from []entity.PayoutStatus, to entity.PayoutStatus, actorID string, notes string, now time.Time) (*entity.PayoutRequest, error) {
	args := m.Called(ctx, id, from, to, actorID, notes, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutRequest), args.Error(1)
}

func (m *MockAffiliateRepository) CompletePayout(ctx context.Context, completion entity.PayoutCompletion) (*entity.PayoutRequest, error) {
	args := m.Called(ctx, completion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PayoutRequest), args.Error(1)
}

var _ persistent.AffiliateRepository = (*MockAffiliateRepository)(nil)

type MockWhatsAppRepository struct {
	mock.Mock
}

func (m *MockWhatsAppRepository) CreateMessage(ctx context.Context, msg *entity.WhatsAppMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) UpdateMessage(ctx context.Context, msg *entity.WhatsAppMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) GetMessage(ctx context.Context, id string) (*entity.WhatsAppMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsAppMessage), args.Error(1)
}

func (m *MockWhatsAppRepository) GetMessageByWhatsAppID(ctx context.Context, waID string) (*entity.WhatsAppMessage, error) {
	args := m.Called(ctx, waID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsAppMessage), args.Error(1)
}

func (m *MockWhatsAppRepository) ListMessages(ctx context.Context, customerID string, page entity.Page) ([]*entity.WhatsAppMessage, int64, error) {
	args := m.Called(ctx, customerID, page)
	var r0 []*entity.WhatsAppMessage
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.WhatsAppMessage)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockWhatsAppRepository) CreateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) GetTemplate(ctx context.Context, id string) (*entity.NotificationTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NotificationTemplate), args.Error(1)
}

func (m *MockWhatsAppRepository) GetTemplateByName(ctx context.Context, name string) (*entity.NotificationTemplate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NotificationTemplate), args.Error(1)
}

func (m *MockWhatsAppRepository) UpdateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) ListTemplates(ctx context.Context, category entity.TemplateCategory, activeOnly bool) ([]*entity.NotificationTemplate, error) {
	args := m.Called(ctx, category, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.NotificationTemplate), args.Error(1)
}

func (m *MockWhatsAppRepository) FirstActiveTemplate(ctx context.Context, category entity.TemplateCategory) (*entity.NotificationTemplate, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NotificationTemplate), args.Error(1)
}

func (m *MockWhatsAppRepository) RecordTemplateUse(ctx context.Context, id string, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) CreateWebhook(ctx context.Context, event *entity.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) MarkWebhookProcessed(ctx context.Context, webhookID string, processErr error, now time.Time) error {
	args := m.Called(ctx, webhookID, processErr, now)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) CreatePromotion(ctx context.Context, promo *entity.BirthdayPromotion) error {
	args := m.Called(ctx, promo)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) UpdatePromotion(ctx context.Context, promo *entity.BirthdayPromotion) error {
	args := m.Called(ctx, promo)
	return args.Error(0)
}

func (m *MockWhatsAppRepository) PromotionExists(ctx context.Context, customerID string, kidID *string, year int) (bool, error) {
	args := m.Called(ctx, customerID, kidID, year)
	return args.Bool(0), args.Error(1)
}

var _ persistent.WhatsAppRepository = (*MockWhatsAppRepository)(nil)

type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Start(ctx context.Context, kind entity.SyncKind, startedAt time.Time) (*entity.SyncRun, error) {
	args := m.Called(ctx, kind, startedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) Finish(ctx context.Context, run *entity.SyncRun, result *entity.SyncResult) error {
	args := m.Called(ctx, run, result)
	return args.Error(0)
}

func (m *MockSyncRunRepository) List(ctx context.Context, limit int) ([]*entity.SyncRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) Since(ctx context.Context, since time.Time) ([]*entity.SyncRun, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) LastSuccessful(ctx context.Context) (*entity.SyncRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) Last(ctx context.Context) (*entity.SyncRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) LinkedCounts(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

var _ persistent.SyncRunRepository = (*MockSyncRunRepository)(nil)

type MockTierBenefitRepository struct {
	mock.Mock
}

func (m *MockTierBenefitRepository) Create(ctx context.Context, benefit *entity.TierBenefit) error {
	args := m.Called(ctx, benefit)
	return args.Error(0)
}

func (m *MockTierBenefitRepository) ListActive(ctx context.Context, now time.Time) ([]*entity.TierBenefit, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TierBenefit), args.Error(1)
}

var _ persistent.TierBenefitRepository = (*MockTierBenefitRepository)(nil)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) CustomerKPIs(ctx context.Context, period entity.DateRange, activeSince time.Time) (entity.CustomerKPIs, error) {
	args := m.Called(ctx, period, activeSince)
	return args.Get(0).(entity.CustomerKPIs), args.Error(1)
}

func (m *MockAnalyticsRepository) LoyaltyKPIs(ctx context.Context, period entity.DateRange) (entity.LoyaltyKPIs, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(entity.LoyaltyKPIs), args.Error(1)
}

func (m *MockAnalyticsRepository) AffiliateKPIs(ctx context.Context, period entity.DateRange) (entity.AffiliateKPIs, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(entity.AffiliateKPIs), args.Error(1)
}

func (m *MockAnalyticsRepository) WhatsAppKPIs(ctx context.Context, period entity.DateRange) (entity.WhatsAppKPIs, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(entity.WhatsAppKPIs), args.Error(1)
}

func (m *MockAnalyticsRepository) FinancialKPIs(ctx context.Context, period entity.DateRange) (entity.FinancialKPIs, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(entity.FinancialKPIs), args.Error(1)
}

func (m *MockAnalyticsRepository) PointsByType(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PointsBucket), args.Error(1)
}

func (m *MockAnalyticsRepository) PointsBySource(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PointsBucket), args.Error(1)
}

func (m *MockAnalyticsRepository) PointsByTier(ctx context.Context, period entity.DateRange) ([]entity.PointsBucket, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PointsBucket), args.Error(1)
}

var _ persistent.AnalyticsRepository = (*MockAnalyticsRepository)(nil)

type MockERPSource struct {
	mock.Mock
}

func (m *MockERPSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockERPSource) Customers(ctx context.Context, filter entity.ERPFilter) ([]entity.ERPCustomer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ERPCustomer), args.Error(1)
}

func (m *MockERPSource) Sales(ctx context.Context, filter entity.ERPFilter) ([]entity.ERPSale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ERPSale), args.Error(1)
}

func (m *MockERPSource) Products(ctx context.Context, limit int) ([]entity.ERPProduct, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ERPProduct), args.Error(1)
}

func (m *MockERPSource) Counts(ctx context.Context) (entity.ERPCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.ERPCounts), args.Error(1)
}

func (m *MockERPSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ erp.Source = (*MockERPSource)(nil)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event queue.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var _ EventPublisher = (*MockEventPublisher)(nil)

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	args := m.Called(key, file, contentType)
	return args.String(0), args.Error(1)
}

var _ FileStore = (*MockFileStore)(nil)

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendText(ctx context.Context, to string, body string) (*whatsapp.SendResult, error) {
	args := m.Called(ctx, to, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.SendResult), args.Error(1)
}

func (m *MockMessageSender) SendTemplate(ctx context.Context, to string, name string, language string, params []string) (*whatsapp.SendResult, error) {
	args := m.Called(ctx, to, name, language, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.SendResult), args.Error(1)
}

func (m *MockMessageSender) SendMedia(ctx context.Context, to string, mediaType string, link string, caption string) (*whatsapp.SendResult, error) {
	args := m.Called(ctx, to, mediaType, link, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.SendResult), args.Error(1)
}

var _ MessageSender = (*MockMessageSender)(nil)

type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockKeyValueStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockKeyValueStore) Take(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockKeyValueStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockKeyValueStore) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var _ KeyValueStore = (*MockKeyValueStore)(nil)

