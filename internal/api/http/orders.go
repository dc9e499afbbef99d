package http

import (
	"net/http"
	"time"

	"locadora-erp-backend/internal/domain"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type transitionRequest struct {
	Event string `json:"event" validate:"required"`
}

type transitionResponse struct {
	ID     string                 `json:"id"`
	Status domain.OrderItemStatus `json:"status"`
}

type createInvoiceRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	DueDate string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *handler) convertQuote(w http.ResponseWriter, r *http.Request) {
	orderID, err := h.svc.Orders.ConvertQuoteToOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: orderID})
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.Orders.GetOrderDetails(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *handler) transitionItem(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ev, err := domain.ParseItemEvent(req.Event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID := mux.Vars(r)["id"]
	status, err := h.svc.Orders.TransitionOrderItem(r.Context(), itemID, ev)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transitionResponse{ID: itemID, Status: status})
}

func (h *handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Payments.ListPayments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var due *time.Time
	if req.DueDate != "" {
		d, err := domain.ParseDay(req.DueDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		due = &d
	}
	paymentID, err := h.svc.Payments.CreateInvoice(r.Context(), mux.Vars(r)["id"], req.Amount, due)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: paymentID})
}

func (h *handler) markPaid(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Payments.MarkPaid(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
