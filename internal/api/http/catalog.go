package http

import (
	"net/http"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type createProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	CategoryID    string          `json:"category_id" validate:"required"`
	TotalQuantity int             `json:"total_quantity" validate:"gte=0"`
	RentValue     decimal.Decimal `json:"rent_value"`
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.svc.Products.CreateProduct(r.Context(), service.ProductInput{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		TotalQuantity: req.TotalQuantity,
		RentValue:     req.RentValue,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Products.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Products.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GET /products/{id}/availability?start=yyyy-mm-dd&end=yyyy-mm-dd
func (h *handler) getAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := domain.ParseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	av, err := h.svc.Availability.AvailableQuantity(r.Context(), mux.Vars(r)["id"], rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}
