package repository

import (
	"context"
	"errors"

	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"gorm.io/gorm"
)

type TransactionGormRepository struct {
	db *gorm.DB
}

func NewTransactionGormRepository(db *gorm.DB) *TransactionGormRepository {
	return &TransactionGormRepository{db: db}
}

func (r *TransactionGormRepository) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Transaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionGormRepository) Create(ctx context.Context, t model.Transaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

// 全明細の成功後に確定値を書き込む
func (r *TransactionGormRepository) UpdateTotals(ctx context.Context, id int64, total int64, discountBP int64, points int64) error {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_price":   total,
			"discount_bp":   discountBP,
			"points_earned": points,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 顧客の累計購入額（取引合計の総和）
func (r *TransactionGormRepository) SumTotalByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

type TransactionDetailGormRepository struct {
	db *gorm.DB
}

func NewTransactionDetailGormRepository(db *gorm.DB) *TransactionDetailGormRepository {
	return &TransactionDetailGormRepository{db: db}
}

func (r *TransactionDetailGormRepository) CreateBulk(ctx context.Context, transactionID int64, items []model.TransactionDetail) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].TransactionID = transactionID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *TransactionDetailGormRepository) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionDetail, error) {
	var items []model.TransactionDetail
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.TransactionDetail{}, err
	}
	return items, nil
}

func (r *TransactionDetailGormRepository) FindByTransactionAndProduct(ctx context.Context, transactionID int64, productID int64) (model.TransactionDetail, error) {
	var d model.TransactionDetail
	err := r.db.WithContext(ctx).
		Where("transaction_id = ? AND product_id = ?", transactionID, productID).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TransactionDetail{}, repo.ErrNotFound
	}
	if err != nil {
		return model.TransactionDetail{}, err
	}
	return d, nil
}

type RefundGormRepository struct {
	db *gorm.DB
}

func NewRefundGormRepository(db *gorm.DB) *RefundGormRepository {
	return &RefundGormRepository{db: db}
}

func (r *RefundGormRepository) Create(ctx context.Context, rf model.Refund) (model.Refund, error) {
	if err := r.db.WithContext(ctx).Create(&rf).Error; err != nil {
		return model.Refund{}, err
	}
	return rf, nil
}

func (r *RefundGormRepository) ListByTransaction(ctx context.Context, transactionID int64) ([]model.Refund, error) {
	var items []model.Refund
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Refund{}, err
	}
	return items, nil
}

// 累計の返金済み数量。返金上限の検査に使う。
func (r *RefundGormRepository) SumQuantityByLine(ctx context.Context, transactionID int64, productID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("transaction_id = ? AND product_id = ?", transactionID, productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
