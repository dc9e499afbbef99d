package http

import (
	"net/http"

	"locadora-erp-backend/internal/domain"

	"github.com/gorilla/mux"
)

type addLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type submitCartRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

type idResponse struct {
	ID string `json:"id"`
}

func (h *handler) createCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Quotes.NewCart(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Quotes.GetCart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rng, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lineID, err := h.svc.Quotes.AddLine(r.Context(), mux.Vars(r)["id"], req.ProductID, req.Quantity, rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: lineID})
}

func (h *handler) removeLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Quotes.RemoveLine(r.Context(), vars["id"], vars["lineID"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) validateLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	verdict, err := h.svc.Quotes.ValidateLine(r.Context(), vars["id"], vars["lineID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func (h *handler) submitCart(w http.ResponseWriter, r *http.Request) {
	var req submitCartRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	quoteID, err := h.svc.Quotes.Submit(r.Context(), mux.Vars(r)["id"], req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: quoteID})
}

func (h *handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.svc.Quotes.ListConvertible(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (h *handler) getQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Quotes.GetQuote(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
