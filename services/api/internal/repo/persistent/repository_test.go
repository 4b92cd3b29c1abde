package persistent

import (
	"context"
	"errors"
	"testing"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/services/api/internal/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestApply_InsufficientBalanceLeavesBalanceUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoyaltyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT "id","total_points" FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points"}).AddRow("cust-1", 100))
	mock.ExpectRollback()

	customer, err := repo.Apply(context.Background(), &entity.LoyaltyTransaction{
		CustomerID: "cust-1",
		Points:     -150,
		Type:       entity.TransactionRedeemed,
		Source:     entity.SourceManual,
	})

	assert.Nil(t, customer)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInsufficientBalance))
	assert.Equal(t, "insufficient points: have 100, need 150", errs.PublicMessage(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_MissingCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoyaltyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT "id","total_points" FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points"}))
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), &entity.LoyaltyTransaction{
		CustomerID: "missing",
		Points:     50,
		Type:       entity.TransactionEarned,
		Source:     entity.SourcePurchase,
	})

	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransfer_ReceiverLifetimeUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoyaltyRepository(db)

	// Map updates are written in key order, so lifetime_points would sit
	// between last_activity and total_points.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET "last_activity"=\$1,"total_points"=total_points \+ \$2,"updated_at"=\$3 WHERE`).
		WithArgs(sqlmock.AnyArg(), -40, sqlmock.AnyArg(), "cust-1", -40).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "loyalty_transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points", "lifetime_points"}).AddRow("cust-1", 60, 500))
	mock.ExpectExec(`UPDATE "customers" SET "last_activity"=\$1,"total_points"=total_points \+ \$2,"updated_at"=\$3 WHERE`).
		WithArgs(sqlmock.AnyArg(), 40, sqlmock.AnyArg(), "cust-2", 40).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "loyalty_transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points", "lifetime_points"}).AddRow("cust-2", 140, 100))
	mock.ExpectCommit()

	sender, receiver, err := repo.Transfer(context.Background(),
		&entity.LoyaltyTransaction{CustomerID: "cust-1", Points: -40, Type: entity.TransactionTransfer, Source: entity.SourceTransfer},
		&entity.LoyaltyTransaction{CustomerID: "cust-2", Points: 40, Type: entity.TransactionEarned, Source: entity.SourceTransfer},
	)

	require.NoError(t, err)
	assert.Equal(t, 60, sender.TotalPoints)
	assert.Equal(t, 140, receiver.TotalPoints)
	assert.Equal(t, 100, receiver.LifetimePoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpire_ClampsToBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoyaltyRepository(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "loyalty_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "customer_id", "points", "transaction_type", "source", "is_active"}).
			AddRow("tx-1", "user-1", "cust-1", 100, "earned", "purchase", true))
	mock.ExpectQuery(`SELECT \* FROM "customers" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points", "lifetime_points"}).AddRow("cust-1", 30, 100))
	mock.ExpectExec(`UPDATE "loyalty_transactions" SET "is_active"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "customers" SET "last_activity"=\$1,"total_points"=total_points \+ \$2,"updated_at"=\$3 WHERE`).
		WithArgs(sqlmock.AnyArg(), -30, sqlmock.AnyArg(), "cust-1", -30).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "loyalty_transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points", "lifetime_points"}).AddRow("cust-1", 0, 100))
	mock.ExpectCommit()

	expired, customer, err := repo.Expire(context.Background(), "tx-1", now)

	require.NoError(t, err)
	require.NotNil(t, expired)
	assert.Equal(t, -30, expired.Points)
	assert.Equal(t, entity.TransactionExpired, expired.Type)
	assert.Equal(t, entity.SourceSystem, expired.Source)
	assert.Equal(t, "tx-1", expired.ReferenceID)
	assert.Equal(t, "Points expired from transaction tx-1", expired.Description)
	assert.Equal(t, 0, customer.TotalPoints)
	assert.Equal(t, 100, customer.LifetimePoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpire_AlreadyRetired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoyaltyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "loyalty_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "points", "is_active"}).AddRow("tx-1", "cust-1", 100, false))
	mock.ExpectQuery(`SELECT \* FROM "customers" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points"}).AddRow("cust-1", 250))
	mock.ExpectExec(`UPDATE "loyalty_transactions" SET "is_active"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	expired, customer, err := repo.Expire(context.Background(), "tx-1", time.Now().UTC())

	require.NoError(t, err)
	assert.Nil(t, expired)
	assert.Nil(t, customer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_RefundsAndRestoresStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRewardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reward_redemptions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "loyalty_transactions" SET "is_active"`).
		WithArgs(false, "tx-9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "customers" SET "last_activity"=\$1,"total_points"=total_points \+ \$2,"updated_at"=\$3 WHERE`).
		WithArgs(sqlmock.AnyArg(), 200, sqlmock.AnyArg(), "cust-1", 200).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "loyalty_transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_points"}).AddRow("cust-1", 450))
	mock.ExpectExec(`UPDATE "rewards" SET "status"=CASE WHEN status = \$1 THEN \$2 ELSE status END,"stock_quantity"=stock_quantity \+ \$3`).
		WithArgs(string(entity.RewardOutOfStock), string(entity.RewardActive), 2, sqlmock.AnyArg(), "rew-1", entity.UnlimitedStock).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	redemption := &entity.RewardRedemption{
		ID:            "red-1",
		TransactionID: "tx-9",
		RewardID:      "rew-1",
		CustomerID:    "cust-1",
		Quantity:      2,
		PointsSpent:   200,
		Status:        entity.RedemptionPending,
	}
	refund := &entity.LoyaltyTransaction{
		CustomerID:  "cust-1",
		Points:      200,
		Type:        entity.TransactionAdjustment,
		Source:      entity.SourceRedemption,
		ReferenceID: "red-1",
	}

	result, err := repo.Cancel(context.Background(), redemption, refund, "changed my mind")

	require.NoError(t, err)
	assert.Equal(t, entity.RedemptionCancelled, result.Redemption.Status)
	assert.Equal(t, "changed my mind", result.Redemption.Notes)
	assert.Equal(t, 450, result.Customer.TotalPoints)
	assert.Equal(t, entity.RedemptionPending, redemption.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_LastUnitTakenElsewhere(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRewardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "rewards" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	result, err := repo.Redeem(context.Background(), entity.RedeemRequest{
		Customer: &entity.Customer{ID: "cust-1"},
		Reward:   &entity.Reward{ID: "rew-1", Name: "Coffee Mug", StockQuantity: 1},
		Quantity: 1,
		Code:     "ABCDEFGH12",
	}, &entity.LoyaltyTransaction{CustomerID: "cust-1", Points: -100})

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errs.ErrInsufficientStock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeTier_StaleTierWritesNoHistory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	changed, err := repo.ChangeTier(context.Background(), entity.TierBronze, &entity.TierHistory{
		CustomerID: "cust-1",
		NewTier:    entity.TierSilver,
		Reason:     entity.TierReasonThreshold,
	})

	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePayout_ExceedsUnpaidBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payout_requests" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "affiliates" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CompletePayout(context.Background(), entity.PayoutCompletion{
		Payout:      &entity.PayoutRequest{ID: "pay-1", AffiliateID: "aff-1", Amount: decimal.RequireFromString("250.00")},
		Reference:   "TX-1",
		CompletedAt: time.Now().UTC(),
	})

	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfill_ClosedRedemption(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRewardRepository(db)

	mock.ExpectExec(`UPDATE "reward_redemptions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "reward_redemptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reward_id", "status"}).AddRow("red-1", "rew-1", "cancelled"))
	mock.ExpectQuery(`SELECT \* FROM "rewards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("rew-1", "Coffee Mug"))

	_, err := repo.Fulfill(context.Background(), "red-1", "", "", time.Now().UTC())

	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "customer"))
	assert.True(t, errors.Is(translate(gorm.ErrRecordNotFound, "customer"), errs.ErrNotFound))
	assert.True(t, errors.Is(translate(gorm.ErrDuplicatedKey, "user"), errs.ErrConflict))

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other, "customer"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ann%", likePattern("ann"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}
