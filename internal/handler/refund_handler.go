package handler

import (
	"net/http"
	"strconv"

	"kainpos/internal/config"
	"kainpos/internal/domain/model"
	"kainpos/internal/metrics"
	"kainpos/internal/middleware"
	"kainpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type RefundHandler struct {
	uc *usecase.RefundUsecase
}

func NewRefundHandler(uc *usecase.RefundUsecase) *RefundHandler {
	return &RefundHandler{uc: uc}
}

type RefundCreateRequest struct {
	TransactionID int64  `json:"transaction_id"`
	ProductID     int64  `json:"product_id"`
	Quantity      int64  `json:"quantity"`
	Kind          string `json:"kind,omitempty"` // REFUND / RETURN（省略時REFUND）
}

func (h *RefundHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/refunds")
	g.Use(middleware.ActorJWT(cfg))

	g.POST("", h.create, middleware.RequirePermission(middleware.PermRefundCreate))
	g.GET("/transaction/:id", h.listByTransaction, middleware.RequirePermission(middleware.PermSalesRead))
}

func (h *RefundHandler) create(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req RefundCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Refund(c.Request().Context(), actor, usecase.RefundInput{
		TransactionID: req.TransactionID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Kind:          model.RefundKind(req.Kind),
	})
	if err != nil {
		return writeError(c, err)
	}

	metrics.RefundsTotal.Inc()
	return c.JSON(http.StatusCreated, out)
}

func (h *RefundHandler) listByTransaction(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	items, err := h.uc.ListByTransaction(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
