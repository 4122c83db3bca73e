package repository

import (
	"context"

	"kainpos/internal/domain/model"
)

// 販売取引の永続化。
type TransactionRepository interface {
	FindByID(ctx context.Context, id int64) (model.Transaction, error)
	Create(ctx context.Context, t model.Transaction) (int64, error)

	// 全明細の成功後に合計・割引・ポイントを確定する。
	UpdateTotals(ctx context.Context, id int64, total int64, discountBP int64, points int64) error

	// 顧客の累計購入額（取引合計の総和）。ロイヤルティ再計算の真実の源。
	SumTotalByCustomer(ctx context.Context, customerID int64) (int64, error)
}

// 取引明細の永続化。
type TransactionDetailRepository interface {
	CreateBulk(ctx context.Context, transactionID int64, items []model.TransactionDetail) error
	ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionDetail, error)
	FindByTransactionAndProduct(ctx context.Context, transactionID int64, productID int64) (model.TransactionDetail, error)
}

// 返金/返品の永続化。
type RefundRepository interface {
	Create(ctx context.Context, r model.Refund) (model.Refund, error)
	ListByTransaction(ctx context.Context, transactionID int64) ([]model.Refund, error)

	// ある明細に対する返金済み数量の合計（累計上限の検査に使う）。
	SumQuantityByLine(ctx context.Context, transactionID int64, productID int64) (int64, error)
}
