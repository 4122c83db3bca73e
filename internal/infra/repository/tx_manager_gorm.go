package repository

import (
	"context"

	repo "kainpos/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products           repo.ProductRepository
	colors             repo.ColorRepository
	batches            repo.BatchRepository
	stockHistories     repo.StockHistoryRepository
	transactions       repo.TransactionRepository
	transactionDetails repo.TransactionDetailRepository
	refunds            repo.RefundRepository
	customers          repo.CustomerRepository
	loyaltyHistories   repo.LoyaltyHistoryRepository
}

func (r *txReposGorm) Products() repo.ProductRepository                     { return r.products }
func (r *txReposGorm) Colors() repo.ColorRepository                         { return r.colors }
func (r *txReposGorm) Batches() repo.BatchRepository                        { return r.batches }
func (r *txReposGorm) StockHistories() repo.StockHistoryRepository          { return r.stockHistories }
func (r *txReposGorm) Transactions() repo.TransactionRepository             { return r.transactions }
func (r *txReposGorm) TransactionDetails() repo.TransactionDetailRepository { return r.transactionDetails }
func (r *txReposGorm) Refunds() repo.RefundRepository                       { return r.refunds }
func (r *txReposGorm) Customers() repo.CustomerRepository                   { return r.customers }
func (r *txReposGorm) LoyaltyHistories() repo.LoyaltyHistoryRepository      { return r.loyaltyHistories }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがエラーを返したらrollback、nilならcommit。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			products:           NewProductGormRepository(tx),
			colors:             NewColorGormRepository(tx),
			batches:            NewBatchGormRepository(tx),
			stockHistories:     NewStockHistoryGormRepository(tx),
			transactions:       NewTransactionGormRepository(tx),
			transactionDetails: NewTransactionDetailGormRepository(tx),
			refunds:            NewRefundGormRepository(tx),
			customers:          NewCustomerGormRepository(tx),
			loyaltyHistories:   NewLoyaltyHistoryGormRepository(tx),
		}
		return fn(r)
	})
}
