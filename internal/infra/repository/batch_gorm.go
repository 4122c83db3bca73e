package repository

import (
	"context"
	"errors"

	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchGormRepository struct {
	db *gorm.DB
}

func NewBatchGormRepository(db *gorm.DB) *BatchGormRepository {
	return &BatchGormRepository{db: db}
}

func (r *BatchGormRepository) FindByID(ctx context.Context, id int64) (model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Batch{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Batch{}, err
	}
	return b, nil
}

func (r *BatchGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at asc").Order("id asc").
		Find(&batches).Error
	if err != nil {
		return []model.Batch{}, err
	}
	return batches, nil
}

// FIFO消化の対象を行ロック付きで取る。
// 並び順はcreated_at昇順、同時刻はid昇順（テストで再現できる決定的な順序）。
func (r *BatchGormRepository) ListAvailableForUpdate(ctx context.Context, productID int64) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND quantity > 0", productID).
		Order("created_at asc").Order("id asc").
		Find(&batches).Error
	if err != nil {
		return []model.Batch{}, err
	}
	return batches, nil
}

func (r *BatchGormRepository) Create(ctx context.Context, b model.Batch) (model.Batch, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Batch{}, err
	}
	return b, nil
}

// 残数が足りるときだけ減らす。残数が負になる更新は絶対に通さない。
func (r *BatchGormRepository) DecrementQuantity(ctx context.Context, id int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Batch{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 残数を戻す（返品）
func (r *BatchGormRepository) IncrementQuantity(ctx context.Context, id int64, qty int64) error {
	res := r.db.WithContext(ctx).Model(&model.Batch{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type StockHistoryGormRepository struct {
	db *gorm.DB
}

func NewStockHistoryGormRepository(db *gorm.DB) *StockHistoryGormRepository {
	return &StockHistoryGormRepository{db: db}
}

func (r *StockHistoryGormRepository) Create(ctx context.Context, h model.StockHistory) error {
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return err
	}
	return nil
}

func (r *StockHistoryGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.StockHistory, error) {
	var items []model.StockHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.StockHistory{}, err
	}
	return items, nil
}

func (r *StockHistoryGormRepository) ListByBatch(ctx context.Context, batchID int64) ([]model.StockHistory, error) {
	var items []model.StockHistory
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.StockHistory{}, err
	}
	return items, nil
}

// 返金の復元用。新しい消化から順に戻すので降順。
func (r *StockHistoryGormRepository) ListByTransactionLine(ctx context.Context, transactionID int64, productID int64) ([]model.StockHistory, error) {
	var items []model.StockHistory
	err := r.db.WithContext(ctx).
		Where("transaction_id = ? AND product_id = ?", transactionID, productID).
		Order("created_at desc").Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.StockHistory{}, err
	}
	return items, nil
}
