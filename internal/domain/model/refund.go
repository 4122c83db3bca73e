package model

import "time"

// 返金か返品か
type RefundKind string

const (
	RefundKindRefund RefundKind = "REFUND"
	RefundKindReturn RefundKind = "RETURN"
)

// 返金/返品の事実。Amountは元明細の販売価格スナップショットから計算する。
// 同一明細に対する返金数量の合計は元の販売数量を超えない。
type Refund struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID int64      `gorm:"not null;index" json:"transaction_id"`
	ProductID     int64      `gorm:"not null;index" json:"product_id"`
	BatchID       *int64     `json:"batch_id,omitempty"`
	Kind          RefundKind `gorm:"type:varchar(20);not null" json:"kind"`
	Quantity      int64      `gorm:"not null" json:"quantity"`
	Amount        int64      `gorm:"not null" json:"amount"`
	ActorID       int64      `gorm:"not null" json:"actor_id"`
	ActorName     string     `gorm:"type:varchar(100);not null" json:"actor_name"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}
