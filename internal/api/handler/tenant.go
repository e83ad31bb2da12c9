package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	mw "github.com/edvin/chatrelay/internal/api/middleware"
	"github.com/edvin/chatrelay/internal/api/request"
	"github.com/edvin/chatrelay/internal/api/response"
	"github.com/edvin/chatrelay/internal/core"
)

// Reconfigurer pushes updated settings into an already provisioned workflow.
type Reconfigurer interface {
	Reconfigure(ctx context.Context, workflowID string, settings map[string]any) error
}

// Tenant handles the session-authenticated dashboard endpoints.
type Tenant struct {
	tenants *core.TenantService
	logs    *core.ChatLogService
	engine  Reconfigurer
}

func NewTenant(tenants *core.TenantService, logs *core.ChatLogService, engine Reconfigurer) *Tenant {
	return &Tenant{tenants: tenants, logs: logs, engine: engine}
}

// Profile returns the caller's own tenant record.
func (h *Tenant) Profile(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())

	tenant, err := h.tenants.GetByID(r.Context(), claims.TenantID)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, tenant)
}

// UpdateSettings stores the new settings document and pushes it into the
// tenant's workflow when one is bound. The store is authoritative; a failed
// push is logged and the request still succeeds.
func (h *Tenant) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())

	var req request.UpdateSettings
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var settings map[string]any
	if err := json.Unmarshal(req.Settings, &settings); err != nil {
		response.WriteError(w, http.StatusBadRequest, "settings must be a JSON object")
		return
	}

	if err := h.tenants.UpdateSettings(r.Context(), claims.TenantID, req.Settings); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tenant, err := h.tenants.GetByID(r.Context(), claims.TenantID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tenant.WorkflowID != nil {
		if err := h.engine.Reconfigure(r.Context(), *tenant.WorkflowID, settings); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).
				Str("tenant_id", tenant.ID).
				Str("workflow_id", *tenant.WorkflowID).
				Msg("pushing settings to workflow failed")
		}
	}

	response.WriteJSON(w, http.StatusOK, tenant)
}

// RegenerateAPIKey rotates the relay credential and returns the new key.
func (h *Tenant) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())

	key, err := h.tenants.RotateAPIKey(r.Context(), claims.TenantID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"api_key": key})
}

// ChatLogs returns one page of the caller's chat history.
func (h *Tenant) ChatLogs(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())
	pg := request.ParsePagination(r)

	logs, total, err := h.logs.ListByTenant(r.Context(), claims.TenantID, pg.Page, pg.Limit)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WritePaginated(w, http.StatusOK, logs, pg.Page, pg.Limit, total)
}
