package repository

import (
	"context"
	"time"

	"kainpos/internal/domain/membership"
	"kainpos/internal/domain/model"
)

// 顧客の永続化。ロイヤルティ項目の更新は専用メソッドに限定する。
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	List(ctx context.Context, page int, limit int) ([]model.Customer, int64, error)
	Create(ctx context.Context, c model.Customer) (model.Customer, error)

	// 一意性チェック（名前は大文字小文字を区別しない）
	ExistsName(ctx context.Context, name string) (bool, error)
	ExistsPhone(ctx context.Context, phone string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)

	// ロイヤルティ状態の書き戻し
	UpdateLoyalty(ctx context.Context, id int64, totalSpent int64, points int64, tier membership.Tier, lastTxAt time.Time) error
	UpdateTier(ctx context.Context, id int64, tier membership.Tier) error

	// 最終取引がcutoffより古い（またはnull）顧客
	ListInactiveSince(ctx context.Context, cutoff time.Time) ([]model.Customer, error)
}

// ロイヤルティ履歴。追記と参照のみ。
type LoyaltyHistoryRepository interface {
	Create(ctx context.Context, h model.LoyaltyHistory) error
	ListByCustomer(ctx context.Context, customerID int64) ([]model.LoyaltyHistory, error)
}
