package usecase

import (
	"context"
	"errors"
	"time"

	"kainpos/internal/domain/membership"
	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"go.uber.org/zap"
)

// 最終取引からこの月数を超えて購入がない顧客を1段降格する
const DefaultInactivityMonths = 6

type MembershipUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewMembershipUsecase(tx repo.TransactionManager, log *zap.Logger) *MembershipUsecase {
	return &MembershipUsecase{tx: tx, log: log}
}

// RecomputeMembership は顧客の累計購入額とランクを取引履歴から再計算する。
// 増分カウンタではなく取引合計の総和を真実の源とする（ずれ防止）。
func (u *MembershipUsecase) RecomputeMembership(ctx context.Context, customerID int64) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, NewAppError(KindInvalidInput, "invalid customer id")
	}

	var out model.Customer

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Customers().FindByID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "customer not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		spent, err := r.Transactions().SumTotalByCustomer(ctx, customerID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		lv := membership.TierFor(spent)
		now := time.Now()
		if err := r.Customers().UpdateLoyalty(ctx, customerID, spent, c.Points, lv.Tier, now); err != nil {
			return NewAppError(KindInternal, "db error")
		}

		out = c
		out.TotalSpent = spent
		out.Tier = lv.Tier
		out.LastTransactionAt = &now
		return nil
	})
	if err != nil {
		return model.Customer{}, err
	}
	return out, nil
}

// DowngradeSweep は休眠顧客を1段だけ降格する定期ジョブ。
// 1回の実行につき1段。現在ランクから1回計算して書くだけなので、
// 同じ期間に2回走っても累積で下がり続けることはない。
func (u *MembershipUsecase) DowngradeSweep(ctx context.Context, inactivityMonths int) (int, error) {
	if inactivityMonths <= 0 {
		inactivityMonths = DefaultInactivityMonths
	}

	cutoff := time.Now().AddDate(0, -inactivityMonths, 0)
	downgraded := 0

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customers, err := r.Customers().ListInactiveSince(ctx, cutoff)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		for _, c := range customers {
			next := membership.Downgrade(c.Tier)
			if next == c.Tier {
				continue
			}
			if err := r.Customers().UpdateTier(ctx, c.ID, next); err != nil {
				return NewAppError(KindInternal, "db error")
			}
			downgraded++
		}
		return nil
	})
	if err != nil {
		u.log.Error("downgrade sweep failed", zap.Error(err))
		return 0, err
	}

	u.log.Info("downgrade sweep finished",
		zap.Int("downgraded", downgraded),
		zap.Time("cutoff", cutoff),
	)
	return downgraded, nil
}
