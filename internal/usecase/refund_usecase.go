package usecase

import (
	"context"
	"errors"
	"time"

	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"go.uber.org/zap"
)

type RefundUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewRefundUsecase(tx repo.TransactionManager, log *zap.Logger) *RefundUsecase {
	return &RefundUsecase{tx: tx, log: log}
}

type RefundInput struct {
	TransactionID int64
	ProductID     int64
	Quantity      int64
	Kind          model.RefundKind
}

type RefundOutput struct {
	ID            int64            `json:"id"`
	TransactionID int64            `json:"transaction_id"`
	ProductID     int64            `json:"product_id"`
	Kind          model.RefundKind `json:"kind"`
	Quantity      int64            `json:"quantity"`
	Amount        int64            `json:"amount"`
	BatchID       *int64           `json:"batch_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Refund は過去の販売明細を部分的または全量戻す。
// 在庫の復元・履歴・返金事実の記録まで1トランザクションで行う。
// 同一明細への返金数量は累計で元の販売数量を超えられない。
func (u *RefundUsecase) Refund(ctx context.Context, actor model.Actor, in RefundInput) (RefundOutput, error) {
	if actor.ID <= 0 {
		return RefundOutput{}, NewAppError(KindInvalidInput, "invalid actor")
	}
	if in.TransactionID <= 0 {
		return RefundOutput{}, NewAppError(KindInvalidInput, "invalid transaction_id")
	}
	if in.ProductID <= 0 {
		return RefundOutput{}, NewAppError(KindInvalidInput, "invalid product_id")
	}
	if in.Quantity <= 0 {
		return RefundOutput{}, NewAppError(KindInvalidInput, "quantity must be > 0")
	}

	kind := in.Kind
	switch kind {
	case "":
		kind = model.RefundKindRefund
	case model.RefundKindRefund, model.RefundKindReturn:
	default:
		return RefundOutput{}, NewAppError(KindInvalidInput, "invalid kind")
	}

	var out RefundOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//元の販売明細
		detail, err := r.TransactionDetails().FindByTransactionAndProduct(ctx, in.TransactionID, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "transaction detail not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		//累計上限：既に返金済みの数量を差し引いた残りしか受けない
		already, err := r.Refunds().SumQuantityByLine(ctx, in.TransactionID, in.ProductID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		if in.Quantity > detail.Quantity-already {
			return NewAppError(KindExceedsOriginalQuantity, "refund quantity exceeds remaining refundable quantity")
		}

		//この明細の消化履歴。新しい消化から順に戻す。
		histories, err := r.StockHistories().ListByTransactionLine(ctx, in.TransactionID, in.ProductID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		//バッチごとの消化量と復元済み量（過去の返金分を含む）
		depleted := map[int64]int64{}
		restored := map[int64]int64{}
		for _, h := range histories {
			if h.QuantityDelta < 0 {
				depleted[h.BatchID] += -h.QuantityDelta
			} else {
				restored[h.BatchID] += h.QuantityDelta
			}
		}

		remaining := in.Quantity
		restoredBatchIDs := make([]int64, 0, 2)

		for _, h := range histories {
			if remaining == 0 {
				break
			}
			if h.QuantityDelta >= 0 {
				continue
			}

			room := depleted[h.BatchID] - restored[h.BatchID]
			if room <= 0 {
				continue
			}

			take := room
			if take > remaining {
				take = remaining
			}

			err := r.Batches().IncrementQuantity(ctx, h.BatchID, take)
			if errors.Is(err, repo.ErrNotFound) {
				//バッチが消えている（商品削除のカスケード等）。残りは代替バッチで受ける。
				continue
			}
			if err != nil {
				return NewAppError(KindInternal, "db error")
			}

			//復元の履歴（プラス）。単価は消化時の履歴単価を使う。
			if err := r.StockHistories().Create(ctx, model.StockHistory{
				BatchID:       h.BatchID,
				ProductID:     in.ProductID,
				TransactionID: &in.TransactionID,
				UnitPrice:     h.UnitPrice,
				QuantityDelta: take,
				ActorID:       actor.ID,
				ActorName:     actor.Username,
				CreatedAt:     time.Now(),
			}); err != nil {
				return NewAppError(KindInternal, "db error")
			}

			restored[h.BatchID] += take
			remaining -= take
			restoredBatchIDs = append(restoredBatchIDs, h.BatchID)
		}

		//元バッチに戻せなかった分は代替バッチを作る。
		//価格は現在の商品価格ではなく、明細の販売価格スナップショット。
		if remaining > 0 {
			now := time.Now()
			nb, err := r.Batches().Create(ctx, model.Batch{
				Code:          newBatchCode(detail.ProductNameSnapshot, now),
				ProductID:     in.ProductID,
				PurchasePrice: detail.SellPriceSnapshot,
				Quantity:      remaining,
				CreatedBy:     actor.ID,
				CreatedAt:     now,
			})
			if err != nil {
				return NewAppError(KindInternal, "db error")
			}

			if err := r.StockHistories().Create(ctx, model.StockHistory{
				BatchID:       nb.ID,
				ProductID:     in.ProductID,
				TransactionID: &in.TransactionID,
				UnitPrice:     detail.SellPriceSnapshot,
				QuantityDelta: remaining,
				ActorID:       actor.ID,
				ActorName:     actor.Username,
				CreatedAt:     now,
			}); err != nil {
				return NewAppError(KindInternal, "db error")
			}

			restoredBatchIDs = append(restoredBatchIDs, nb.ID)
			remaining = 0
		}

		//返金額は販売時の価格スナップショットから計算する
		amount := in.Quantity * detail.SellPriceSnapshot

		var batchID *int64
		if len(restoredBatchIDs) == 1 {
			batchID = &restoredBatchIDs[0]
		}

		created, err := r.Refunds().Create(ctx, model.Refund{
			TransactionID: in.TransactionID,
			ProductID:     in.ProductID,
			BatchID:       batchID,
			Kind:          kind,
			Quantity:      in.Quantity,
			Amount:        amount,
			ActorID:       actor.ID,
			ActorName:     actor.Username,
			CreatedAt:     time.Now(),
		})
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		out = RefundOutput{
			ID:            created.ID,
			TransactionID: created.TransactionID,
			ProductID:     created.ProductID,
			Kind:          created.Kind,
			Quantity:      created.Quantity,
			Amount:        created.Amount,
			BatchID:       created.BatchID,
			CreatedAt:     created.CreatedAt,
		}
		return nil
	})

	if err != nil {
		if ae, ok := AsAppError(err); ok && ae.Kind == KindInternal {
			u.log.Error("refund failed",
				zap.Int64("transaction_id", in.TransactionID),
				zap.Int64("product_id", in.ProductID),
				zap.Error(err),
			)
		}
		return RefundOutput{}, err
	}
	return out, nil
}

// ListByTransaction は取引に対する返金の一覧。
func (u *RefundUsecase) ListByTransaction(ctx context.Context, transactionID int64) ([]model.Refund, error) {
	if transactionID <= 0 {
		return nil, NewAppError(KindInvalidInput, "invalid transaction id")
	}

	var items []model.Refund
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		items, err = r.Refunds().ListByTransaction(ctx, transactionID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
