package model

// スタッフのロール（閉じた列挙）
type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleInventory Role = "INVENTORY"
	RoleCashier   Role = "CASHIER"
)

// 認証済みの操作者。発行は外部（認証基盤）に任せる。
type Actor struct {
	ID       int64
	Username string
	Role     Role
}
