package model

import "time"

// 在庫履歴。追記のみで、更新・削除はしない。
// QuantityDeltaは符号付き（マイナス=出庫、プラス=入庫/返品）。
// バッチごとのDelta合計は常にそのバッチの残数と一致する。
type StockHistory struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchID       int64     `gorm:"not null;index" json:"batch_id"`
	ProductID     int64     `gorm:"not null;index" json:"product_id"`
	TransactionID *int64    `gorm:"index" json:"transaction_id,omitempty"`
	UnitPrice     int64     `gorm:"not null" json:"unit_price"`
	QuantityDelta int64     `gorm:"not null" json:"quantity_delta"`
	ActorID       int64     `gorm:"not null" json:"actor_id"`
	ActorName     string    `gorm:"type:varchar(100);not null" json:"actor_name"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}
