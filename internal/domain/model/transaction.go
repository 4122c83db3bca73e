package model

import "time"

// 販売取引。TotalPriceは全明細成功後に確定した割引後合計。
// DiscountBPは適用した割引率（ベーシスポイント）。
type Transaction struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StaffID      int64     `gorm:"not null;index" json:"staff_id"`
	CustomerID   *int64    `gorm:"index" json:"customer_id,omitempty"`
	TotalPrice   int64     `gorm:"not null" json:"total_price"`
	DiscountBP   int64     `gorm:"not null" json:"discount_bp"`
	PointsEarned int64     `gorm:"not null" json:"points_earned"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 取引明細。販売時点の価格スナップショットを持つ。
// 後から商品価格が変わってもこの行は変わらない。
type TransactionDetail struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID       int64     `gorm:"not null;index" json:"transaction_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	SellPriceSnapshot   int64     `gorm:"not null" json:"sell_price_snapshot"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
