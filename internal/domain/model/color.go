package model

import "time"

// 色カタログ。FabricTypeは対象カテゴリの制約。
// 商品作成時に色コードの存在と生地種別の一致を検証する。
type Color struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code       string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	FabricType ProductCategory `gorm:"type:varchar(20);not null" json:"fabric_type"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
