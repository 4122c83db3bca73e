package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		name  string
		spent int64
		want  Tier
	}{
		{"zero", 0, TierDefault},
		{"just below starter", 9_999_999, TierDefault},
		{"starter boundary", 10_000_000, TierStarter},
		{"just below regular", 49_999_999, TierStarter},
		{"regular boundary", 50_000_000, TierRegular},
		{"bronze boundary", 100_000_000, TierBronze},
		{"silver boundary", 300_000_000, TierSilver},
		{"gold boundary", 500_000_000, TierGold},
		{"platinum boundary", 1_000_000_000, TierPlatinum},
		{"above platinum", 5_000_000_000, TierPlatinum},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, TierFor(c.spent).Tier)
		})
	}
}

func TestTierForNegativeSpend(t *testing.T) {
	//負の累計は来ない想定だがDefaultに落ちる
	assert.Equal(t, TierDefault, TierFor(-1).Tier)
}

func TestComputeDiscountAndPoints(t *testing.T) {
	t.Run("crossing into starter discounts this purchase", func(t *testing.T) {
		//2000万の購入で累計がStarterしきい値を超える → この購入自体が0.5%割引
		q := ComputeDiscountAndPoints(20_000_000, 0)

		assert.Equal(t, TierStarter, q.Level.Tier)
		assert.Equal(t, int64(100_000), q.DiscountAmount)
		assert.Equal(t, int64(19_900_000), q.FinalPrice)
		assert.Equal(t, int64(199), q.PointsEarned)
	})

	t.Run("default tier gets no discount", func(t *testing.T) {
		q := ComputeDiscountAndPoints(5_000_000, 0)

		assert.Equal(t, TierDefault, q.Level.Tier)
		assert.Equal(t, int64(0), q.DiscountAmount)
		assert.Equal(t, int64(5_000_000), q.FinalPrice)
		assert.Equal(t, int64(50), q.PointsEarned)
	})

	t.Run("silver earns double points", func(t *testing.T) {
		q := ComputeDiscountAndPoints(10_000_000, 300_000_000)

		assert.Equal(t, TierSilver, q.Level.Tier)
		assert.Equal(t, int64(600_000), q.DiscountAmount)
		assert.Equal(t, int64(9_400_000), q.FinalPrice)
		assert.Equal(t, int64(188), q.PointsEarned)
	})

	t.Run("points floor on final price", func(t *testing.T) {
		//99_999は10万未満 → 0ポイント
		q := ComputeDiscountAndPoints(99_999, 0)

		assert.Equal(t, int64(0), q.PointsEarned)
	})

	t.Run("zero line total", func(t *testing.T) {
		q := ComputeDiscountAndPoints(0, 50_000_000)

		assert.Equal(t, int64(0), q.DiscountAmount)
		assert.Equal(t, int64(0), q.FinalPrice)
		assert.Equal(t, int64(0), q.PointsEarned)
	})
}

func TestDowngrade(t *testing.T) {
	assert.Equal(t, TierGold, Downgrade(TierPlatinum))
	assert.Equal(t, TierSilver, Downgrade(TierGold))
	assert.Equal(t, TierBronze, Downgrade(TierSilver))
	assert.Equal(t, TierRegular, Downgrade(TierBronze))
	assert.Equal(t, TierStarter, Downgrade(TierRegular))
	assert.Equal(t, TierDefault, Downgrade(TierStarter))

	//Defaultより下はない
	assert.Equal(t, TierDefault, Downgrade(TierDefault))

	//未知のランクはDefaultに寄せる
	assert.Equal(t, TierDefault, Downgrade(Tier("VIP")))
}

func TestLevelsAreMonotonic(t *testing.T) {
	lvls := Levels()
	for i := 1; i < len(lvls); i++ {
		assert.Greater(t, lvls[i].MinSpend, lvls[i-1].MinSpend)
		assert.GreaterOrEqual(t, lvls[i].DiscountBP, lvls[i-1].DiscountBP)
	}
}

func TestLevelOf(t *testing.T) {
	lv, ok := LevelOf(TierBronze)
	assert.True(t, ok)
	assert.Equal(t, int64(300), lv.DiscountBP)

	_, ok = LevelOf(Tier("VIP"))
	assert.False(t, ok)
}
