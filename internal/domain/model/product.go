package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品カテゴリ
type ProductCategory string

const (
	CategoryFabric ProductCategory = "fabric"
	CategoryCollar ProductCategory = "collar"
	CategoryCuff   ProductCategory = "cuff"
	CategoryOther  ProductCategory = "other"
)

// ValidCategory はカテゴリが既知の値か確認する
func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryFabric, CategoryCollar, CategoryCuff, CategoryOther:
		return true
	}
	return false
}

// 商品（生地・襟・袖など）。
// 仕入バッチ/取引から参照された後は、販売価格以外は変更しない。
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Category  ProductCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	ColorCode string          `gorm:"type:varchar(50);not null;index" json:"color_code"`
	SellPrice int64           `gorm:"not null" json:"sell_price"`
	CreatedBy int64           `gorm:"not null" json:"created_by"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
