package handler

import (
	"errors"
	"net/http"

	"github.com/edvin/chatrelay/internal/api/request"
	"github.com/edvin/chatrelay/internal/api/response"
	"github.com/edvin/chatrelay/internal/core"
)

// Auth handles tenant registration and dashboard login.
type Auth struct {
	tenants *core.TenantService
	auth    *core.AuthService
}

func NewAuth(tenants *core.TenantService, auth *core.AuthService) *Auth {
	return &Auth{tenants: tenants, auth: auth}
}

// Register creates a tenant account. The api key is returned here and stays
// visible on the profile afterwards.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req request.Register
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenant, err := h.tenants.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			response.WriteError(w, http.StatusConflict, "email already registered")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.auth.IssueToken(tenant.ID, tenant.Email)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"token":  token,
		"tenant": tenant,
	})
}

// Login verifies credentials and issues a session token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenant, err := h.tenants.VerifyLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			response.WriteError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.auth.IssueToken(tenant.ID, tenant.Email)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"tenant": tenant,
	})
}
