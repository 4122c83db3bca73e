package main

import (
	"context"
	"time"

	"kainpos/internal/cache"
	"kainpos/internal/config"
	"kainpos/internal/domain/model"
	"kainpos/internal/handler"
	"kainpos/internal/infra/db"
	infraRepo "kainpos/internal/infra/repository"
	"kainpos/internal/logger"
	"kainpos/internal/metrics"
	"kainpos/internal/server"
	"kainpos/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（コンテナでは環境変数を直接渡す）
	_ = godotenv.Load()

	log := logger.GetLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Color{},
		&model.Product{},
		&model.Batch{},
		&model.StockHistory{},
		&model.Transaction{},
		&model.TransactionDetail{},
		&model.Refund{},
		&model.Customer{},
		&model.LoyaltyHistory{},
	); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	//商品キャッシュ（REDIS_ADDRが空ならno-op）
	var productCache cache.ProductCache = cache.NoopProductCache{}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisProductCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			log.Warn("redis unavailable, cache disabled", zap.Error(err))
		} else {
			productCache = rc
			defer rc.Close()
		}
	}

	//TxManager（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	salesUC := usecase.NewSalesUsecase(txm, log)
	refundUC := usecase.NewRefundUsecase(txm, log)
	inventoryUC := usecase.NewInventoryUsecase(txm, productCache, log)
	customerUC := usecase.NewCustomerUsecase(txm)
	membershipUC := usecase.NewMembershipUsecase(txm, log)

	//降格スイープの定期実行
	go runDowngradeSweep(membershipUC, cfg, log)

	//Handler生成
	h := server.Handlers{
		Sales:    handler.NewSalesHandler(salesUC),
		Refund:   handler.NewRefundHandler(refundUC),
		Product:  handler.NewProductHandler(inventoryUC),
		Customer: handler.NewCustomerHandler(customerUC, membershipUC),
	}

	//Server起動
	log.Info("starting server", zap.String("port", cfg.Port))
	if err := server.Start(cfg, h); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// 休眠顧客の降格スイープ。1回の実行で1段だけ下げる。
func runDowngradeSweep(uc *usecase.MembershipUsecase, cfg config.Config, log *zap.Logger) {
	interval := time.Duration(cfg.SweepIntervalHours) * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		n, err := uc.DowngradeSweep(context.Background(), cfg.InactivityMonths)
		if err != nil {
			log.Error("downgrade sweep run failed", zap.Error(err))
			continue
		}
		metrics.DowngradeSweepCustomers.Add(float64(n))
	}
}
