package model

import (
	"time"

	"kainpos/internal/domain/membership"
)

// 顧客。TotalSpent/Points/Tierはロイヤルティ更新からのみ書き換える。
// Tierは派生値で、TotalSpentからいつでも再計算できる。
type Customer struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Phone             string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"phone"`
	Email             string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	TotalSpent        int64           `gorm:"not null" json:"total_spent"`
	Points            int64           `gorm:"not null" json:"points"`
	Tier              membership.Tier `gorm:"type:varchar(20);not null" json:"tier"`
	LastTransactionAt *time.Time      `gorm:"index" json:"last_transaction_at,omitempty"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ロイヤルティ履歴。取引ごとの加算ポイントと加算後残高を残す。
type LoyaltyHistory struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64           `gorm:"not null;index" json:"customer_id"`
	TransactionID *int64          `gorm:"index" json:"transaction_id,omitempty"`
	PointsAdded   int64           `gorm:"not null" json:"points_added"`
	PointsBalance int64           `gorm:"not null" json:"points_balance"`
	Tier          membership.Tier `gorm:"type:varchar(20);not null" json:"tier"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
