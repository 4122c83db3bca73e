package membership

// 会員ランク（7段階）
type Tier string

const (
	TierDefault  Tier = "DEFAULT"
	TierStarter  Tier = "STARTER"
	TierRegular  Tier = "REGULAR"
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// ランク1件分の条件と特典。
// DiscountBPはベーシスポイント（50 = 0.5%）。
// PointsPer100Kは10万ごとの付与ポイント。
type Level struct {
	Tier          Tier
	MinSpend      int64
	DiscountBP    int64
	PointsPer100K int64
}

// 累計購入額の昇順。MinSpendは単調増加であること。
var levels = []Level{
	{Tier: TierDefault, MinSpend: 0, DiscountBP: 0, PointsPer100K: 1},
	{Tier: TierStarter, MinSpend: 10_000_000, DiscountBP: 50, PointsPer100K: 1},
	{Tier: TierRegular, MinSpend: 50_000_000, DiscountBP: 100, PointsPer100K: 1},
	{Tier: TierBronze, MinSpend: 100_000_000, DiscountBP: 300, PointsPer100K: 1},
	{Tier: TierSilver, MinSpend: 300_000_000, DiscountBP: 600, PointsPer100K: 2},
	{Tier: TierGold, MinSpend: 500_000_000, DiscountBP: 800, PointsPer100K: 2},
	{Tier: TierPlatinum, MinSpend: 1_000_000_000, DiscountBP: 1000, PointsPer100K: 2},
}

// Levels はランク表のコピーを返す（一覧表示用）。
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// TierFor は累計購入額に対応するランクを返す。
// 上位から走査して、MinSpend <= totalSpent を満たす最初のランク。
// totalSpent=0でもDefaultに必ず一致する。
func TierFor(totalSpent int64) Level {
	for i := len(levels) - 1; i >= 0; i-- {
		if totalSpent >= levels[i].MinSpend {
			return levels[i]
		}
	}
	return levels[0]
}

// LevelOf はランク名からLevelを引く。未知の名前は (Level{}, false)。
func LevelOf(t Tier) (Level, bool) {
	for _, lv := range levels {
		if lv.Tier == t {
			return lv, true
		}
	}
	return Level{}, false
}

// Downgrade は1段下のランクを返す。
// Defaultまたは未知のランクはDefaultのまま。
func Downgrade(t Tier) Tier {
	for i, lv := range levels {
		if lv.Tier == t {
			if i == 0 {
				return TierDefault
			}
			return levels[i-1].Tier
		}
	}
	return TierDefault
}

// Quote は1回の購入に対する割引とポイントの計算結果。
type Quote struct {
	Level          Level
	DiscountAmount int64
	FinalPrice     int64
	PointsEarned   int64
}

// ComputeDiscountAndPoints は割引額・支払額・付与ポイントを計算する。
// ランク判定は「この購入後の累計」で行う。
// しきい値をまたぐ購入は、その購入自体が新ランクの割引を受ける。
func ComputeDiscountAndPoints(lineTotal int64, spendBefore int64) Quote {
	if lineTotal < 0 {
		lineTotal = 0
	}
	if spendBefore < 0 {
		spendBefore = 0
	}

	lv := TierFor(spendBefore + lineTotal)
	discount := lineTotal * lv.DiscountBP / 10_000
	final := lineTotal - discount
	points := final / 100_000 * lv.PointsPer100K

	return Quote{
		Level:          lv,
		DiscountAmount: discount,
		FinalPrice:     final,
		PointsEarned:   points,
	}
}
