package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"github.com/google/uuid"
)

// 1バッチからの消化量
type BatchUsage struct {
	BatchID   int64 `json:"batch_id"`
	UnitPrice int64 `json:"unit_price"`
	Quantity  int64 `json:"quantity"`
}

// depleteFIFO は商品の在庫を古いバッチから順に消化する。
// 全バッチを使っても足りなければINSUFFICIENT_STOCKを返す。
// 途中まで減らした分は呼び出し元のトランザクションのrollbackで消える前提なので、
// 必ずWithinTxの中から呼ぶこと。
func depleteFIFO(ctx context.Context, r repo.TxRepos, productID int64, requested int64) ([]BatchUsage, error) {
	if requested <= 0 {
		return nil, NewAppError(KindInvalidInput, "quantity must be > 0")
	}

	batches, err := r.Batches().ListAvailableForUpdate(ctx, productID)
	if err != nil {
		return nil, NewAppError(KindInternal, "db error")
	}

	still := requested
	usages := make([]BatchUsage, 0, len(batches))

	for _, b := range batches {
		if still == 0 {
			break
		}

		take := b.Quantity
		if take > still {
			take = still
		}

		//行ロック済みでも条件付き減算で負残数を防ぐ
		ok, err := r.Batches().DecrementQuantity(ctx, b.ID, take)
		if err != nil {
			return nil, NewAppError(KindInternal, "db error")
		}
		if !ok {
			//同時更新で残数が変わった
			return nil, NewAppError(KindConflict, "batch quantity changed concurrently")
		}

		usages = append(usages, BatchUsage{
			BatchID:   b.ID,
			UnitPrice: b.PurchasePrice,
			Quantity:  take,
		})
		still -= take
	}

	if still > 0 {
		return nil, NewAppError(KindInsufficientStock, "insufficient stock")
	}

	return usages, nil
}

// newBatchCode は商品名＋年月＋一意トークンでバッチコードを作る。
// 例: KATUN-PREMIUM-202608-1a2b3c4d
func newBatchCode(productName string, now time.Time) string {
	slug := strings.ToUpper(strings.TrimSpace(productName))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "BATCH"
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", slug, now.Format("200601"), token)
}

// restock は新しいバッチを作る。手動入庫と、元バッチが消えた返金の両方で使う。
func restock(ctx context.Context, r repo.TxRepos, product model.Product, unitPrice int64, qty int64, actorID int64) (model.Batch, error) {
	if qty <= 0 {
		return model.Batch{}, NewAppError(KindInvalidInput, "quantity must be > 0")
	}
	if unitPrice <= 0 {
		return model.Batch{}, NewAppError(KindInvalidInput, "unit price must be > 0")
	}

	now := time.Now()
	b, err := r.Batches().Create(ctx, model.Batch{
		Code:          newBatchCode(product.Name, now),
		ProductID:     product.ID,
		PurchasePrice: unitPrice,
		Quantity:      qty,
		CreatedBy:     actorID,
		CreatedAt:     now,
	})
	if err != nil {
		return model.Batch{}, NewAppError(KindInternal, "db error")
	}
	return b, nil
}
