package handler

import (
	"net/http"
	"strconv"

	"kainpos/internal/config"
	"kainpos/internal/middleware"
	"kainpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	uc         *usecase.CustomerUsecase
	membership *usecase.MembershipUsecase
}

func NewCustomerHandler(uc *usecase.CustomerUsecase, membership *usecase.MembershipUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc, membership: membership}
}

type CustomerCreateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/customers")
	g.Use(middleware.ActorJWT(cfg))

	g.GET("", h.list, middleware.RequirePermission(middleware.PermCustomerRead))
	g.GET("/:id", h.detail, middleware.RequirePermission(middleware.PermCustomerRead))
	g.GET("/:id/loyalty", h.loyaltyHistory, middleware.RequirePermission(middleware.PermCustomerRead))
	g.POST("", h.create, middleware.RequirePermission(middleware.PermCustomerManage))
	g.POST("/:id/recompute", h.recompute, middleware.RequirePermission(middleware.PermMembershipManage))
}

func (h *CustomerHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListCustomers(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) loyaltyHistory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	items, err := h.uc.LoyaltyHistoryByCustomer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHandler) create(c echo.Context) error {
	var req CustomerCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateCustomer(c.Request().Context(), usecase.CreateCustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CustomerHandler) recompute(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.membership.RecomputeMembership(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
