package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	mw "github.com/edvin/chatrelay/internal/api/middleware"
	"github.com/edvin/chatrelay/internal/api/request"
	"github.com/edvin/chatrelay/internal/api/response"
	"github.com/edvin/chatrelay/internal/model"
)

// CheckoutCreator opens a hosted payment session and returns its URL.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, tenantID, email, plan string) (string, error)
}

// Checkout handles checkout session creation for plan upgrades.
type Checkout struct {
	sessions CheckoutCreator
}

func NewCheckout(sessions CheckoutCreator) *Checkout {
	return &Checkout{sessions: sessions}
}

// Create starts a checkout for the authenticated tenant. The tenant id and
// email come from the session claims, never from the request body.
func (h *Checkout) Create(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		response.WriteError(w, http.StatusServiceUnavailable, "checkout is not configured")
		return
	}

	var req request.CreateCheckout
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !model.ValidPlan(req.Plan) {
		response.WriteError(w, http.StatusBadRequest, "invalid plan")
		return
	}

	claims := mw.GetClaims(r.Context())
	url, err := h.sessions.CreateSession(r.Context(), claims.TenantID, claims.Email, req.Plan)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("tenant_id", claims.TenantID).Msg("checkout session creation failed")
		response.WriteError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
