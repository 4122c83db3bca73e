package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kainpos/internal/cache"
	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"go.uber.org/zap"
)

// 商品詳細キャッシュのTTL
const productCacheTTL = 60 * time.Second

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

type InventoryUsecase struct {
	tx    repo.TransactionManager
	cache cache.ProductCache
	log   *zap.Logger
}

func NewInventoryUsecase(tx repo.TransactionManager, c cache.ProductCache, log *zap.Logger) *InventoryUsecase {
	return &InventoryUsecase{tx: tx, cache: c, log: log}
}

type CreateProductInput struct {
	Name      string
	Category  model.ProductCategory
	ColorCode string
	SellPrice int64
}

// CreateProduct は商品を登録する。
// 色コードがカタログに存在し、色の生地種別がカテゴリと一致すること。
func (u *InventoryUsecase) CreateProduct(ctx context.Context, actor model.Actor, in CreateProductInput) (model.Product, error) {
	if actor.ID <= 0 {
		return model.Product{}, NewAppError(KindInvalidInput, "invalid actor")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewAppError(KindInvalidInput, "name required")
	}
	if !model.ValidCategory(in.Category) {
		return model.Product{}, NewAppError(KindInvalidInput, "invalid category")
	}
	if strings.TrimSpace(in.ColorCode) == "" {
		return model.Product{}, NewAppError(KindInvalidInput, "color_code required")
	}
	if in.SellPrice <= 0 {
		return model.Product{}, NewAppError(KindInvalidInput, "sell_price must be > 0")
	}

	var created model.Product

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		color, err := r.Colors().FindByCode(ctx, strings.TrimSpace(in.ColorCode))
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindInvalidInput, "unknown color code")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		//色の生地種別と商品カテゴリの整合
		if color.FabricType != in.Category {
			return NewAppError(KindInvalidInput, "color fabric type does not match category")
		}

		now := time.Now()
		created, err = r.Products().Create(ctx, model.Product{
			Name:      strings.TrimSpace(in.Name),
			Category:  in.Category,
			ColorCode: color.Code,
			SellPrice: in.SellPrice,
			CreatedBy: actor.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return created, nil
}

func (u *InventoryUsecase) UpdateSellPrice(ctx context.Context, actor model.Actor, productID int64, price int64) error {
	if actor.ID <= 0 {
		return NewAppError(KindInvalidInput, "invalid actor")
	}
	if productID <= 0 {
		return NewAppError(KindInvalidInput, "invalid product id")
	}
	if price <= 0 {
		return NewAppError(KindInvalidInput, "sell_price must be > 0")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Products().UpdateSellPrice(ctx, productID, price)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "product not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.invalidateProduct(ctx, productID)
	return nil
}

func (u *InventoryUsecase) DeleteProduct(ctx context.Context, actor model.Actor, productID int64) error {
	if actor.ID <= 0 {
		return NewAppError(KindInvalidInput, "invalid actor")
	}
	if productID <= 0 {
		return NewAppError(KindInvalidInput, "invalid product id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Products().SoftDelete(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "product not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.invalidateProduct(ctx, productID)
	return nil
}

type AddStockInput struct {
	ProductID int64
	UnitPrice int64
	Quantity  int64
}

// AddStock は手動入庫。新しいバッチを作り、プラスの在庫履歴を残す。
func (u *InventoryUsecase) AddStock(ctx context.Context, actor model.Actor, in AddStockInput) (model.Batch, error) {
	if actor.ID <= 0 {
		return model.Batch{}, NewAppError(KindInvalidInput, "invalid actor")
	}
	if in.ProductID <= 0 {
		return model.Batch{}, NewAppError(KindInvalidInput, "invalid product id")
	}
	if in.Quantity <= 0 {
		return model.Batch{}, NewAppError(KindInvalidInput, "quantity must be > 0")
	}
	if in.UnitPrice <= 0 {
		return model.Batch{}, NewAppError(KindInvalidInput, "unit price must be > 0")
	}

	var created model.Batch

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "product not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}

		created, err = restock(ctx, r, p, in.UnitPrice, in.Quantity, actor.ID)
		if err != nil {
			return err
		}

		//入庫の履歴（プラス）
		if err := r.StockHistories().Create(ctx, model.StockHistory{
			BatchID:       created.ID,
			ProductID:     p.ID,
			UnitPrice:     created.PurchasePrice,
			QuantityDelta: created.Quantity,
			ActorID:       actor.ID,
			ActorName:     actor.Username,
			CreatedAt:     created.CreatedAt,
		}); err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		if ae, ok := AsAppError(err); ok && ae.Kind == KindInternal {
			u.log.Error("add stock failed",
				zap.Int64("product_id", in.ProductID),
				zap.Error(err),
			)
		}
		return model.Batch{}, err
	}
	return created, nil
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *InventoryUsecase) ListProducts(ctx context.Context, q repo.ProductListQuery) (ProductListOutput, error) {
	if q.Page < 1 {
		return ProductListOutput{}, NewAppError(KindInvalidInput, "invalid page")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return ProductListOutput{}, NewAppError(KindInvalidInput, "invalid limit")
	}
	if q.Category != "" && !model.ValidCategory(model.ProductCategory(q.Category)) {
		return ProductListOutput{}, NewAppError(KindInvalidInput, "invalid category")
	}

	var out ProductListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Products().List(ctx, q)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		out = ProductListOutput{Items: items, Total: total, Page: q.Page, Limit: q.Limit}
		return nil
	})
	if err != nil {
		return ProductListOutput{}, err
	}
	return out, nil
}

// GetProduct は商品詳細。read-throughでキャッシュする。
func (u *InventoryUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewAppError(KindInvalidInput, "invalid product id")
	}

	key := productCacheKey(productID)
	if cached, hit, err := u.cache.Get(ctx, key); err == nil && hit {
		return *cached, nil
	}

	var p model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "product not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		p = found
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	//書き込み失敗は無視してよい（次回DBから読むだけ）
	if err := u.cache.Set(ctx, key, &p, productCacheTTL); err != nil {
		u.log.Warn("product cache set failed", zap.Int64("product_id", productID), zap.Error(err))
	}
	return p, nil
}

// ListBatches は商品のバッチ一覧（残数0も含む、古い順）。
func (u *InventoryUsecase) ListBatches(ctx context.Context, productID int64) ([]model.Batch, error) {
	if productID <= 0 {
		return nil, NewAppError(KindInvalidInput, "invalid product id")
	}

	var items []model.Batch
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		items, err = r.Batches().ListByProduct(ctx, productID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// StockHistoryByProduct は商品の在庫履歴（新しい順）。
func (u *InventoryUsecase) StockHistoryByProduct(ctx context.Context, productID int64) ([]model.StockHistory, error) {
	if productID <= 0 {
		return nil, NewAppError(KindInvalidInput, "invalid product id")
	}

	var items []model.StockHistory
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		items, err = r.StockHistories().ListByProduct(ctx, productID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListColors は色カタログ。
func (u *InventoryUsecase) ListColors(ctx context.Context) ([]model.Color, error) {
	var items []model.Color
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		items, err = r.Colors().List(ctx)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (u *InventoryUsecase) invalidateProduct(ctx context.Context, productID int64) {
	if err := u.cache.Delete(ctx, productCacheKey(productID)); err != nil {
		u.log.Warn("product cache delete failed", zap.Int64("product_id", productID), zap.Error(err))
	}
}
