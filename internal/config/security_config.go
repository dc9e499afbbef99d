package config

import "locadora-erp-backend/internal/domain"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps gRPC methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"/grpc.health.v1.Health/Check": SecurityPublic,
	"/grpc.health.v1.Health/Watch": SecurityPublic,
	"/grpc.health.v1.Health/List":  SecurityPublic,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}

// RequiredPermission maps every HTTP operation (route name) to the permission
// slug its caller must hold. Routes absent from the map only need a valid
// access token.
var RequiredPermission = map[string]string{
	"products.create":   domain.PermManageProducts,
	"products.list":     domain.PermViewInventory,
	"products.get":      domain.PermViewInventory,
	"categories.list":   domain.PermViewInventory,
	"availability.get":  domain.PermViewInventory,
	"clients.create":    domain.PermManageClients,
	"clients.list":      domain.PermManageClients,
	"cnpj.lookup":       domain.PermManageClients,
	"carts.create":      domain.PermManageQuotes,
	"carts.get":         domain.PermManageQuotes,
	"carts.addLine":     domain.PermManageQuotes,
	"carts.removeLine":  domain.PermManageQuotes,
	"carts.validate":    domain.PermManageQuotes,
	"carts.submit":      domain.PermManageQuotes,
	"quotes.list":       domain.PermManageQuotes,
	"quotes.get":        domain.PermManageQuotes,
	"orders.convert":    domain.PermManageOrders,
	"orders.list":       domain.PermManageOrders,
	"orders.get":        domain.PermManageOrders,
	"items.transition":  domain.PermManageOrders,
	"payments.create":   domain.PermManagePayments,
	"payments.list":     domain.PermManagePayments,
	"payments.markPaid": domain.PermManagePayments,
	"rbac.get":          domain.PermManageRoles,
	"rbac.update":       domain.PermManageRoles,
	"dashboard.get":     domain.PermViewDashboard,
}

// PermissionFor returns the slug required by a route, if any.
func PermissionFor(route string) (string, bool) {
	slug, ok := RequiredPermission[route]
	return slug, ok
}
