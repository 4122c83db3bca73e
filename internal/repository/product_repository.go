package repository

import (
	"context"
	"errors"

	"kainpos/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	UpdateSellPrice(ctx context.Context, id int64, price int64) error
	SoftDelete(ctx context.Context, id int64) error
}

// 色カタログ。登録は管理系の外部フローが行う前提で、参照が主。
type ColorRepository interface {
	List(ctx context.Context) ([]model.Color, error)
	FindByCode(ctx context.Context, code string) (model.Color, error)
	Create(ctx context.Context, c model.Color) (model.Color, error)
}
