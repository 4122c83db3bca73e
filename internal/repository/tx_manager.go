package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Products() ProductRepository
	Colors() ColorRepository
	Batches() BatchRepository
	StockHistories() StockHistoryRepository
	Transactions() TransactionRepository
	TransactionDetails() TransactionDetailRepository
	Refunds() RefundRepository
	Customers() CustomerRepository
	LoyaltyHistories() LoyaltyHistoryRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全ての変更を巻き戻す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
