package model

import "time"

// 仕入バッチ。Quantityは残数で、0未満にはならない。
// PurchasePriceは一度でも販売に使われたら変更しない。
// 数量が0になっても履歴から参照される限り行は残す。
type Batch struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"code"`
	ProductID     int64     `gorm:"not null;index" json:"product_id"`
	PurchasePrice int64     `gorm:"not null" json:"purchase_price"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	CreatedBy     int64     `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}
