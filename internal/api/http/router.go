// Package http exposes the rental services as a JSON API.
package http

import (
	"net/http"
	"time"

	"locadora-erp-backend/internal/security"
	"locadora-erp-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Services bundles what the handlers call into.
type Services struct {
	Availability service.AvailabilityService
	Quotes       service.QuoteService
	Orders       service.OrderService
	Payments     service.PaymentService
	Clients      service.ClientService
	Products     service.ProductService
	Permissions  service.PermissionService
	Dashboard    service.DashboardService
}

type handler struct {
	svc      Services
	validate *validator.Validate
	now      func() time.Time
}

// NewRouter builds the API router. Every route under /api/v1 requires a valid
// access token and the permission named by its route in config.RequiredPermission.
func NewRouter(svc Services, tm security.TokenManager, requestTimeout time.Duration) *mux.Router {
	h := &handler{svc: svc, validate: validator.New(), now: time.Now}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware, accessLogMiddleware)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet).Name("health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(timeoutMiddleware(requestTimeout), authMiddleware(tm), permissionMiddleware(svc.Permissions))

	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet).Name("products.list")
	api.HandleFunc("/products", h.createProduct).Methods(http.MethodPost).Name("products.create")
	api.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet).Name("products.get")
	api.HandleFunc("/products/{id}/availability", h.getAvailability).Methods(http.MethodGet).Name("availability.get")
	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet).Name("categories.list")

	api.HandleFunc("/clients", h.listClients).Methods(http.MethodGet).Name("clients.list")
	api.HandleFunc("/clients", h.createClient).Methods(http.MethodPost).Name("clients.create")
	api.HandleFunc("/cnpj/{cnpj}", h.lookupCNPJ).Methods(http.MethodGet).Name("cnpj.lookup")

	api.HandleFunc("/carts", h.createCart).Methods(http.MethodPost).Name("carts.create")
	api.HandleFunc("/carts/{id}", h.getCart).Methods(http.MethodGet).Name("carts.get")
	api.HandleFunc("/carts/{id}/lines", h.addLine).Methods(http.MethodPost).Name("carts.addLine")
	api.HandleFunc("/carts/{id}/lines/{lineID}", h.removeLine).Methods(http.MethodDelete).Name("carts.removeLine")
	api.HandleFunc("/carts/{id}/lines/{lineID}/validate", h.validateLine).Methods(http.MethodPost).Name("carts.validate")
	api.HandleFunc("/carts/{id}/submit", h.submitCart).Methods(http.MethodPost).Name("carts.submit")

	api.HandleFunc("/quotes", h.listQuotes).Methods(http.MethodGet).Name("quotes.list")
	api.HandleFunc("/quotes/{id}", h.getQuote).Methods(http.MethodGet).Name("quotes.get")
	api.HandleFunc("/quotes/{id}/convert", h.convertQuote).Methods(http.MethodPost).Name("orders.convert")

	api.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet).Name("orders.list")
	api.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet).Name("orders.get")
	api.HandleFunc("/order-items/{id}/transitions", h.transitionItem).Methods(http.MethodPost).Name("items.transition")
	api.HandleFunc("/orders/{id}/payments", h.listPayments).Methods(http.MethodGet).Name("payments.list")
	api.HandleFunc("/orders/{id}/payments", h.createInvoice).Methods(http.MethodPost).Name("payments.create")
	api.HandleFunc("/payments/{id}/paid", h.markPaid).Methods(http.MethodPost).Name("payments.markPaid")

	api.HandleFunc("/rbac", h.getRBAC).Methods(http.MethodGet).Name("rbac.get")
	api.HandleFunc("/rbac/roles/{id}/permissions", h.updateRolePermissions).Methods(http.MethodPut).Name("rbac.update")

	api.HandleFunc("/dashboard", h.getDashboard).Methods(http.MethodGet).Name("dashboard.get")

	return router
}
