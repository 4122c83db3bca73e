package server

import (
	"net/http"

	"kainpos/internal/config"
	"kainpos/internal/handler"
	"kainpos/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Sales    *handler.SalesHandler
	Refund   *handler.RefundHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
}

// New はecho本体を組み立てる。起動はしない（テストから使えるように）。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.MetricsMiddleware)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.Sales.RegisterRoutes(e, cfg)
	h.Refund.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e, cfg)
	h.Customer.RegisterRoutes(e, cfg)

	return e
}

func Start(cfg config.Config, h Handlers) error {
	e := New(cfg, h)
	return e.Start(":" + cfg.Port)
}
