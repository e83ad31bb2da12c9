package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/chatrelay/internal/model"
)

// FallbackReply is returned to the visitor whenever the tenant's workflow
// cannot produce an answer in time.
const FallbackReply = "I apologize, but I am temporarily unavailable. Please try again later."

// attachTimeout bounds the background reply-attach write.
const attachTimeout = 10 * time.Second

// Chatter is the slice of the automation engine the relay needs.
type Chatter interface {
	SendChat(ctx context.Context, tenantID, apiKey, message string, settings json.RawMessage) (string, error)
}

type RelayService struct {
	tenants *TenantService
	logs    *ChatLogService
	engine  Chatter
	logger  zerolog.Logger
}

func NewRelayService(tenants *TenantService, logs *ChatLogService, engine Chatter, logger zerolog.Logger) *RelayService {
	return &RelayService{tenants: tenants, logs: logs, engine: engine, logger: logger}
}

// Relay authenticates the caller, records the message, forwards it to the
// tenant's workflow and hands the reply back. Engine failures degrade to
// FallbackReply instead of an error: the widget should always have something
// to show. The reply is attached to the stored log row in the background so
// a slow database write never delays the visitor.
func (s *RelayService) Relay(ctx context.Context, tenantID, apiKey, message, ipAddress, userAgent string) (string, error) {
	tenant, err := s.tenants.Authenticate(ctx, tenantID, apiKey)
	if err != nil {
		return "", err
	}

	logID, err := s.logs.Insert(ctx, &model.ChatLog{
		TenantID:  tenant.ID,
		Message:   message,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
	if err != nil {
		return "", err
	}

	reply, err := s.engine.SendChat(ctx, tenant.ID, tenant.APIKey, message, tenant.Settings)
	if err != nil {
		s.logger.Warn().Err(err).Str("tenant_id", tenant.ID).Msg("chat relay failed, serving fallback")
		reply = FallbackReply
	}

	go s.attachReply(logID, reply)

	return reply, nil
}

// attachReply runs detached from the request context: the visitor's reply is
// already on the wire by the time this write happens.
func (s *RelayService) attachReply(logID, reply string) {
	ctx, cancel := context.WithTimeout(context.Background(), attachTimeout)
	defer cancel()
	if err := s.logs.AttachReply(ctx, logID, reply); err != nil {
		s.logger.Error().Err(err).Str("chat_log_id", logID).Msg("attaching reply failed")
	}
}
