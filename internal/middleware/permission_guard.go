package middleware

import (
	"net/http"

	"kainpos/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// 操作タグ。ロールから静的に解決する（動的なロール文字列配列は持たない）。
type Permission string

const (
	PermSalesCreate      Permission = "sales.create"
	PermSalesRead        Permission = "sales.read"
	PermRefundCreate     Permission = "refund.create"
	PermInventoryManage  Permission = "inventory.manage"
	PermInventoryRead    Permission = "inventory.read"
	PermCustomerManage   Permission = "customer.manage"
	PermCustomerRead     Permission = "customer.read"
	PermMembershipManage Permission = "membership.manage"
)

// ロールごとの権限。閉じた列挙に対する固定マップ。
var rolePermissions = map[model.Role]map[Permission]bool{
	model.RoleOwner: {
		PermSalesCreate: true, PermSalesRead: true,
		PermRefundCreate:    true,
		PermInventoryManage: true, PermInventoryRead: true,
		PermCustomerManage: true, PermCustomerRead: true,
		PermMembershipManage: true,
	},
	model.RoleInventory: {
		PermInventoryManage: true, PermInventoryRead: true,
		PermSalesRead: true,
	},
	model.RoleCashier: {
		PermSalesCreate: true, PermSalesRead: true,
		PermRefundCreate:  true,
		PermInventoryRead: true,
		PermCustomerManage: true, PermCustomerRead: true,
	},
}

// HasPermission はロールが操作を許可されているか返す。
func HasPermission(role model.Role, p Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[p]
}

// contextに入っているroleが操作を許可されているかを確認します。
func RequirePermission(p Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxActorRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !HasPermission(model.Role(role), p) {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}
