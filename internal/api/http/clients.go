package http

import (
	"net/http"

	"locadora-erp-backend/internal/service"

	"github.com/gorilla/mux"
)

type createClientRequest struct {
	Name     string `json:"name" validate:"max=200"`
	Document string `json:"document" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

func (h *handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.Clients.ListClients(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	client, err := h.svc.Clients.CreateClient(r.Context(), service.ClientInput{
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (h *handler) lookupCNPJ(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Clients.LookupCNPJ(r.Context(), mux.Vars(r)["cnpj"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
