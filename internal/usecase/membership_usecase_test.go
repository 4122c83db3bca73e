package usecase

import (
	"context"
	"testing"
	"time"

	"kainpos/internal/domain/membership"
	"kainpos/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedTransaction(s *memState, customerID int64, total int64) model.Transaction {
	tx := model.Transaction{
		ID:         s.id(),
		StaffID:    testActor.ID,
		CustomerID: &customerID,
		TotalPrice: total,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	s.txs[tx.ID] = tx
	return tx
}

func TestRecomputeMembership(t *testing.T) {
	s := newMemState()
	//累計カウンタがずれている顧客
	c := seedCustomer(s, "Budi", 0, membership.TierDefault, nil)
	seedTransaction(s, c.ID, 40_000_000)
	seedTransaction(s, c.ID, 25_000_000)

	uc := NewMembershipUsecase(newFakeTxManager(s), zap.NewNop())

	out, err := uc.RecomputeMembership(context.Background(), c.ID)
	require.NoError(t, err)

	//取引合計の総和が真実の源
	assert.Equal(t, int64(65_000_000), out.TotalSpent)
	assert.Equal(t, membership.TierRegular, out.Tier)

	got := s.customers[c.ID]
	assert.Equal(t, int64(65_000_000), got.TotalSpent)
	assert.Equal(t, membership.TierRegular, got.Tier)
}

func TestRecomputeMembershipUnknownCustomer(t *testing.T) {
	s := newMemState()
	uc := NewMembershipUsecase(newFakeTxManager(s), zap.NewNop())

	_, err := uc.RecomputeMembership(context.Background(), 42)
	ae, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, ae.Kind)
}

func TestDowngradeSweepOneStepOnly(t *testing.T) {
	s := newMemState()

	old := time.Now().AddDate(0, -8, 0)
	recent := time.Now().AddDate(0, -1, 0)

	dormantGold := seedCustomer(s, "Gold", 600_000_000, membership.TierGold, &old)
	activeGold := seedCustomer(s, "Active", 600_000_000, membership.TierGold, &recent)
	neverBought := seedCustomer(s, "Never", 0, membership.TierStarter, nil)
	dormantDefault := seedCustomer(s, "Floor", 0, membership.TierDefault, &old)

	uc := NewMembershipUsecase(newFakeTxManager(s), zap.NewNop())

	n, err := uc.DowngradeSweep(context.Background(), 6)
	require.NoError(t, err)

	//1回の実行で1段だけ。飛び降格はしない。
	assert.Equal(t, 2, n)
	assert.Equal(t, membership.TierSilver, s.customers[dormantGold.ID].Tier)
	assert.Equal(t, membership.TierGold, s.customers[activeGold.ID].Tier)
	assert.Equal(t, membership.TierDefault, s.customers[neverBought.ID].Tier)
	assert.Equal(t, membership.TierDefault, s.customers[dormantDefault.ID].Tier)

	//もう1回走れば、さらに1段
	n, err = uc.DowngradeSweep(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, membership.TierBronze, s.customers[dormantGold.ID].Tier)
}

func TestDowngradeSweepDefaultMonths(t *testing.T) {
	s := newMemState()

	fiveMonths := time.Now().AddDate(0, -5, 0)
	c := seedCustomer(s, "Edge", 600_000_000, membership.TierGold, &fiveMonths)

	uc := NewMembershipUsecase(newFakeTxManager(s), zap.NewNop())

	//0以下はデフォルトの休眠月数に倒す → 5ヶ月前の取引は対象外
	n, err := uc.DowngradeSweep(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, membership.TierGold, s.customers[c.ID].Tier)
}
