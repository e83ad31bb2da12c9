package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	mw "github.com/edvin/chatrelay/internal/api/middleware"
	"github.com/edvin/chatrelay/internal/api/request"
	"github.com/edvin/chatrelay/internal/api/response"
	"github.com/edvin/chatrelay/internal/core"
)

// DemoChatter forwards a message to the public demo workflow.
type DemoChatter interface {
	SendDemoChat(ctx context.Context, url, message string) (string, error)
}

// Chat handles the widget-facing relay endpoints.
type Chat struct {
	relay   *core.RelayService
	demo    DemoChatter
	demoURL string
}

func NewChat(relay *core.RelayService, demo DemoChatter, demoURL string) *Chat {
	return &Chat{relay: relay, demo: demo, demoURL: demoURL}
}

// Relay forwards one widget message to the tenant's workflow.
func (h *Chat) Relay(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "tenantID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.ChatMessage
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.relay.Relay(r.Context(), tenantID, r.Header.Get("X-API-Key"), req.Message, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			response.WriteError(w, http.StatusUnauthorized, "invalid API key or tenant")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, "message could not be processed")
		return
	}

	if reply == core.FallbackReply {
		mw.CountRelay("fallback")
	} else {
		mw.CountRelay("ok")
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Demo relays an unauthenticated message to the shared demo workflow. Any
// engine failure degrades to the fixed fallback reply.
func (h *Chat) Demo(w http.ResponseWriter, r *http.Request) {
	if h.demoURL == "" {
		response.WriteError(w, http.StatusServiceUnavailable, "demo is not configured")
		return
	}

	var req request.ChatMessage
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.demo.SendDemoChat(r.Context(), h.demoURL, req.Message)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("demo chat failed, serving fallback")
		reply = core.FallbackReply
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
