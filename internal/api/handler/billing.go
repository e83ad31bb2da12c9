package handler

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/chatrelay/internal/api/response"
	"github.com/edvin/chatrelay/internal/billing"
	"github.com/edvin/chatrelay/internal/core"
)

const maxWebhookBody = 1 << 20

// Billing handles payment provider webhooks.
type Billing struct {
	svc    *core.BillingService
	secret string
}

func NewBilling(svc *core.BillingService, webhookSecret string) *Billing {
	return &Billing{svc: svc, secret: webhookSecret}
}

// Webhook verifies the provider signature over the raw body, parses the
// event and applies it. All rejected requests get the same 400 message, so
// the response does not reveal which check failed. A verified event that
// fails to store returns 500 so the provider redelivers it.
func (h *Billing) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid webhook request")
		return
	}

	if err := billing.VerifySignature(payload, r.Header.Get("Stripe-Signature"), h.secret); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid webhook request")
		return
	}

	event, err := billing.ParseEvent(payload)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid webhook request")
		return
	}

	if err := h.svc.Process(r.Context(), event); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("event_id", event.ID).Msg("billing event failed")
		response.WriteError(w, http.StatusInternalServerError, "event not processed")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
