package cache

import (
	"context"
	"time"

	"kainpos/internal/domain/model"
)

// 商品カタログの参照キャッシュ。
// 販売・返金のトランザクション内からは使わない（価格はDBから読む）。
type ProductCache interface {
	Get(ctx context.Context, key string) (*model.Product, bool, error)
	Set(ctx context.Context, key string, value *model.Product, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type NoopProductCache struct{}

func (NoopProductCache) Get(_ context.Context, _ string) (*model.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) Set(_ context.Context, _ string, _ *model.Product, _ time.Duration) error {
	return nil
}

func (NoopProductCache) Delete(_ context.Context, _ string) error {
	return nil
}
