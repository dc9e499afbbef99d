package domain

// Permission slugs checked by the API layer.
const (
	PermManageRoles    = "manage:roles"
	PermManageClients  = "manage:clients"
	PermManageProducts = "manage:products"
	PermManageQuotes   = "manage:quotes"
	PermManageOrders   = "manage:orders"
	PermManagePayments = "manage:payments"
	PermViewDashboard  = "view:dashboard"
	PermViewInventory  = "view:inventory"
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Permission struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type RolePermission struct {
	RoleID       int64 `json:"role_id"`
	PermissionID int64 `json:"permission_id"`
}

type RBACData struct {
	Roles           []Role           `json:"roles"`
	Permissions     []Permission     `json:"permissions"`
	RolePermissions []RolePermission `json:"role_permissions"`
}
