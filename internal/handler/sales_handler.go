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

type SalesHandler struct {
	uc *usecase.SalesUsecase
}

func NewSalesHandler(uc *usecase.SalesUsecase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

type SaleLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type TransactionCreateRequest struct {
	CustomerID *int64            `json:"customer_id,omitempty"`
	Lines      []SaleLineRequest `json:"lines"`
}

func (h *SalesHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/transactions")
	g.Use(middleware.ActorJWT(cfg))

	g.POST("", h.create, middleware.RequirePermission(middleware.PermSalesCreate))
	g.GET("/:id", h.detail, middleware.RequirePermission(middleware.PermSalesRead))
}

func (h *SalesHandler) create(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req TransactionCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	lines := make([]usecase.SaleLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, usecase.SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	out, err := h.uc.CreateTransaction(c.Request().Context(), actor, usecase.CreateTransactionInput{
		CustomerID: req.CustomerID,
		Lines:      lines,
	})
	if err != nil {
		if ae, ok := usecase.AsAppError(err); ok && ae.Kind == usecase.KindInsufficientStock {
			metrics.InsufficientStockTotal.Inc()
		}
		return writeError(c, err)
	}

	metrics.TransactionsTotal.Inc()
	return c.JSON(http.StatusCreated, out)
}

type TransactionDetailResponse struct {
	Transaction model.Transaction         `json:"transaction"`
	Items       []model.TransactionDetail `json:"items"`
}

func (h *SalesHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	t, items, err := h.uc.GetTransaction(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, TransactionDetailResponse{Transaction: t, Items: items})
}
