package repository

import (
	"context"
	"errors"
	"time"

	"kainpos/internal/domain/membership"
	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) List(ctx context.Context, page int, limit int) ([]model.Customer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&total).Error; err != nil {
		return []model.Customer{}, 0, err
	}

	var items []model.Customer
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Customer{}, 0, err
	}

	return items, total, nil
}

func (r *CustomerGormRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// 名前は大文字小文字を区別せず一意
func (r *CustomerGormRepository) ExistsName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CustomerGormRepository) ExistsPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("phone = ?", phone).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CustomerGormRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ロイヤルティ状態の書き戻し。販売とは同じトランザクション内で呼ばれる。
func (r *CustomerGormRepository) UpdateLoyalty(ctx context.Context, id int64, totalSpent int64, points int64, tier membership.Tier, lastTxAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_spent":         totalSpent,
			"points":              points,
			"tier":                tier,
			"last_transaction_at": lastTxAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) UpdateTier(ctx context.Context, id int64, tier membership.Tier) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", id).
		Update("tier", tier)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 最終取引がcutoffより古い（またはnull）顧客
func (r *CustomerGormRepository) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]model.Customer, error) {
	var items []model.Customer
	err := r.db.WithContext(ctx).
		Where("last_transaction_at < ? OR last_transaction_at IS NULL", cutoff).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Customer{}, err
	}
	return items, nil
}

type LoyaltyHistoryGormRepository struct {
	db *gorm.DB
}

func NewLoyaltyHistoryGormRepository(db *gorm.DB) *LoyaltyHistoryGormRepository {
	return &LoyaltyHistoryGormRepository{db: db}
}

func (r *LoyaltyHistoryGormRepository) Create(ctx context.Context, h model.LoyaltyHistory) error {
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return err
	}
	return nil
}

func (r *LoyaltyHistoryGormRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.LoyaltyHistory, error) {
	var items []model.LoyaltyHistory
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.LoyaltyHistory{}, err
	}
	return items, nil
}
