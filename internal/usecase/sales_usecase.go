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

type SalesUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewSalesUsecase(tx repo.TransactionManager, log *zap.Logger) *SalesUsecase {
	return &SalesUsecase{tx: tx, log: log}
}

type SaleLineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateTransactionInput struct {
	CustomerID *int64
	Lines      []SaleLineInput
}

type SaleLineOutput struct {
	ProductID int64        `json:"product_id"`
	Name      string       `json:"name"`
	SellPrice int64        `json:"sell_price"`
	Quantity  int64        `json:"quantity"`
	LineTotal int64        `json:"line_total"`
	Batches   []BatchUsage `json:"batches"`
}

type TransactionOutput struct {
	ID             int64            `json:"id"`
	StaffID        int64            `json:"staff_id"`
	CustomerID     *int64           `json:"customer_id,omitempty"`
	Subtotal       int64            `json:"subtotal"`
	DiscountBP     int64            `json:"discount_bp"`
	DiscountAmount int64            `json:"discount_amount"`
	TotalPrice     int64            `json:"total_price"`
	PointsEarned   int64            `json:"points_earned"`
	Tier           *membership.Tier `json:"tier,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	Items          []SaleLineOutput `json:"items"`
}

// CreateTransaction は複数商品の販売を1つのトランザクションで確定する。
// どの明細が失敗しても全体を巻き戻す。部分的な販売は存在しない。
func (u *SalesUsecase) CreateTransaction(ctx context.Context, actor model.Actor, in CreateTransactionInput) (TransactionOutput, error) {
	if actor.ID <= 0 {
		return TransactionOutput{}, NewAppError(KindInvalidInput, "invalid staff")
	}
	if len(in.Lines) == 0 {
		return TransactionOutput{}, NewAppError(KindInvalidInput, "lines required")
	}
	seen := make(map[int64]bool, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID <= 0 {
			return TransactionOutput{}, NewAppError(KindInvalidInput, "invalid product_id")
		}
		if l.Quantity <= 0 {
			return TransactionOutput{}, NewAppError(KindInvalidInput, "quantity must be > 0")
		}
		//明細は(取引, 商品)で一意。同じ商品は1行にまとめて送ること。
		if seen[l.ProductID] {
			return TransactionOutput{}, NewAppError(KindInvalidInput, "duplicate product_id")
		}
		seen[l.ProductID] = true
	}
	if in.CustomerID != nil && *in.CustomerID <= 0 {
		return TransactionOutput{}, NewAppError(KindInvalidInput, "invalid customer_id")
	}

	var out TransactionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//顧客の購入前状態を先に取る（割引判定に使う）
		var customer model.Customer
		if in.CustomerID != nil {
			c, err := r.Customers().FindByID(ctx, *in.CustomerID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewAppError(KindNotFound, "customer not found")
			}
			if err != nil {
				return NewAppError(KindInternal, "db error")
			}
			customer = c
		}

		//明細が参照できるように先に取引を作る（合計は後で確定）
		now := time.Now()
		txID, err := r.Transactions().Create(ctx, model.Transaction{
			StaffID:    actor.ID,
			CustomerID: in.CustomerID,
			TotalPrice: 0,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		details := make([]model.TransactionDetail, 0, len(in.Lines))
		lineOuts := make([]SaleLineOutput, 0, len(in.Lines))
		var subtotal int64 = 0

		for _, l := range in.Lines {
			//販売価格のスナップショット
			p, err := r.Products().FindByID(ctx, l.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewAppError(KindNotFound, "product not found")
			}
			if err != nil {
				return NewAppError(KindInternal, "db error")
			}

			//FIFOで古いバッチから消化
			usages, err := depleteFIFO(ctx, r, p.ID, l.Quantity)
			if err != nil {
				return err
			}

			//消化ごとに在庫履歴（マイナス）
			for _, u2 := range usages {
				h := model.StockHistory{
					BatchID:       u2.BatchID,
					ProductID:     p.ID,
					TransactionID: &txID,
					UnitPrice:     u2.UnitPrice,
					QuantityDelta: -u2.Quantity,
					ActorID:       actor.ID,
					ActorName:     actor.Username,
					CreatedAt:     now,
				}
				if err := r.StockHistories().Create(ctx, h); err != nil {
					return NewAppError(KindInternal, "db error")
				}
			}

			details = append(details, model.TransactionDetail{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				SellPriceSnapshot:   p.SellPrice,
				Quantity:            l.Quantity,
				CreatedAt:           now,
			})

			lineTotal := p.SellPrice * l.Quantity
			subtotal += lineTotal

			lineOuts = append(lineOuts, SaleLineOutput{
				ProductID: p.ID,
				Name:      p.Name,
				SellPrice: p.SellPrice,
				Quantity:  l.Quantity,
				LineTotal: lineTotal,
				Batches:   usages,
			})
		}

		if err := r.TransactionDetails().CreateBulk(ctx, txID, details); err != nil {
			return NewAppError(KindInternal, "db error")
		}

		//割引とポイント。ランク判定は「購入後の累計」で行う。
		final := subtotal
		var discountBP, discountAmount, points int64
		var tier *membership.Tier
		if in.CustomerID != nil {
			q := membership.ComputeDiscountAndPoints(subtotal, customer.TotalSpent)
			final = q.FinalPrice
			discountBP = q.Level.DiscountBP
			discountAmount = q.DiscountAmount
			points = q.PointsEarned
			t := q.Level.Tier
			tier = &t
		}

		if err := r.Transactions().UpdateTotals(ctx, txID, final, discountBP, points); err != nil {
			return NewAppError(KindInternal, "db error")
		}

		//ロイヤルティ更新。累計は取引合計の総和から再計算する（ずれ防止）。
		if in.CustomerID != nil {
			spent, err := r.Transactions().SumTotalByCustomer(ctx, customer.ID)
			if err != nil {
				return NewAppError(KindInternal, "db error")
			}

			lv := membership.TierFor(spent)
			newPoints := customer.Points + points
			txAt := time.Now()
			if err := r.Customers().UpdateLoyalty(ctx, customer.ID, spent, newPoints, lv.Tier, txAt); err != nil {
				return NewAppError(KindInternal, "db error")
			}

			if err := r.LoyaltyHistories().Create(ctx, model.LoyaltyHistory{
				CustomerID:    customer.ID,
				TransactionID: &txID,
				PointsAdded:   points,
				PointsBalance: newPoints,
				Tier:          lv.Tier,
				CreatedAt:     txAt,
			}); err != nil {
				return NewAppError(KindInternal, "db error")
			}
		}

		out = TransactionOutput{
			ID:             txID,
			StaffID:        actor.ID,
			CustomerID:     in.CustomerID,
			Subtotal:       subtotal,
			DiscountBP:     discountBP,
			DiscountAmount: discountAmount,
			TotalPrice:     final,
			PointsEarned:   points,
			Tier:           tier,
			CreatedAt:      now,
			Items:          lineOuts,
		}
		return nil
	})

	if err != nil {
		if ae, ok := AsAppError(err); ok && ae.Kind == KindInternal {
			u.log.Error("create transaction failed",
				zap.Int64("staff_id", actor.ID),
				zap.Error(err),
			)
		}
		return TransactionOutput{}, err
	}
	return out, nil
}

// GetTransaction は取引と明細を返す。
func (u *SalesUsecase) GetTransaction(ctx context.Context, transactionID int64) (model.Transaction, []model.TransactionDetail, error) {
	if transactionID <= 0 {
		return model.Transaction{}, nil, NewAppError(KindInvalidInput, "invalid transaction id")
	}

	var t model.Transaction
	var items []model.TransactionDetail

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := r.Transactions().FindByID(ctx, transactionID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "transaction not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		t = found

		items, err = r.TransactionDetails().ListByTransactionID(ctx, transactionID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Transaction{}, nil, err
	}
	return t, items, nil
}
