package http

import (
	"net/http"
	"strconv"

	"locadora-erp-backend/internal/domain"

	"github.com/gorilla/mux"
)

type updateRolePermissionsRequest struct {
	PermissionIDs []int64 `json:"permission_ids" validate:"dive,gt=0"`
}

type dashboardResponse struct {
	KPIs            *domain.KPIs            `json:"kpis"`
	RecentActivity  []domain.ActivityItem   `json:"recent_activity"`
	UpcomingReturns []domain.UpcomingReturn `json:"upcoming_returns"`
}

func (h *handler) getRBAC(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Permissions.GetRBACData(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *handler) updateRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || roleID <= 0 {
		writeError(w, r, domain.InvalidInput("invalid role id"))
		return
	}
	var req updateRolePermissionsRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Permissions.UpdateRolePermissions(r.Context(), roleID, req.PermissionIDs); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	kpis, err := h.svc.Dashboard.GetKPIs(r.Context(), now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	activity, err := h.svc.Dashboard.GetRecentActivity(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	returns, err := h.svc.Dashboard.GetUpcomingReturns(r.Context(), now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{KPIs: kpis, RecentActivity: activity, UpcomingReturns: returns})
}
