package repository

import (
	"context"

	"kainpos/internal/domain/model"
)

// 仕入バッチの永続化。
type BatchRepository interface {
	FindByID(ctx context.Context, id int64) (model.Batch, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.Batch, error)

	// 残数>0のバッチを古い順（created_at昇順、同時刻はid昇順）で返す。
	// トランザクション内ではFOR UPDATEで行ロックを取る。
	ListAvailableForUpdate(ctx context.Context, productID int64) ([]model.Batch, error)

	Create(ctx context.Context, b model.Batch) (model.Batch, error)

	// 残数が足りるときだけ減算。減算できなければfalse。
	DecrementQuantity(ctx context.Context, id int64, qty int64) (bool, error)

	// 残数を戻す（返品）。対象がなければErrNotFound。
	IncrementQuantity(ctx context.Context, id int64, qty int64) error
}

// 在庫履歴。追記と参照のみ。
type StockHistoryRepository interface {
	Create(ctx context.Context, h model.StockHistory) error
	ListByProduct(ctx context.Context, productID int64) ([]model.StockHistory, error)
	ListByBatch(ctx context.Context, batchID int64) ([]model.StockHistory, error)

	// ある取引のある商品に紐づく履歴を新しい順で返す（返金の復元に使う）。
	ListByTransactionLine(ctx context.Context, transactionID int64, productID int64) ([]model.StockHistory, error)
}
