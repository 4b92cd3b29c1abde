package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReward_HasStock(t *testing.T) {
	unlimited := &Reward{StockQuantity: UnlimitedStock}
	assert.True(t, unlimited.Unlimited())
	assert.True(t, unlimited.HasStock(1000))

	limited := &Reward{StockQuantity: 2}
	assert.True(t, limited.HasStock(2))
	assert.False(t, limited.HasStock(3))

	assert.False(t, (&Reward{StockQuantity: 0}).HasStock(1))
}

func TestReward_ValidAt(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 1, 0)
	reward := &Reward{ValidFrom: from, ValidUntil: &until}

	assert.False(t, reward.ValidAt(from.Add(-time.Second)))
	assert.True(t, reward.ValidAt(from))
	assert.True(t, reward.ValidAt(until))
	assert.False(t, reward.ValidAt(until.Add(time.Second)))

	open := &Reward{ValidFrom: from}
	assert.True(t, open.ValidAt(from.AddDate(5, 0, 0)))
}

func TestRedemptionStatus_Open(t *testing.T) {
	assert.True(t, RedemptionPending.Open())
	assert.True(t, RedemptionApproved.Open())
	assert.False(t, RedemptionFulfilled.Open())
	assert.False(t, RedemptionCancelled.Open())
}

func TestLoyaltyTransaction_CountsTowardLifetime(t *testing.T) {
	assert.True(t, (&LoyaltyTransaction{Type: TransactionEarned, Points: 10}).CountsTowardLifetime())
	assert.False(t, (&LoyaltyTransaction{Type: TransactionAdjustment, Points: 10}).CountsTowardLifetime())
	assert.False(t, (&LoyaltyTransaction{Type: TransactionRedeemed, Points: -10}).CountsTowardLifetime())
	assert.False(t, (&LoyaltyTransaction{Type: TransactionEarned, Source: SourceTransfer, Points: 10}).CountsTowardLifetime())
}
