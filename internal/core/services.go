package core

import (
	"github.com/rs/zerolog"

	"github.com/edvin/chatrelay/internal/engine"
)

// Services bundles the business layer for handler wiring.
type Services struct {
	Tenants  *TenantService
	ChatLogs *ChatLogService
	Billing  *BillingService
	Relay    *RelayService
	Auth     *AuthService
}

func NewServices(db DB, eng *engine.Client, jwtSecret string, logger zerolog.Logger) *Services {
	tenants := NewTenantService(db)
	logs := NewChatLogService(db)
	return &Services{
		Tenants:  tenants,
		ChatLogs: logs,
		Billing:  NewBillingService(db, tenants, eng, logger),
		Relay:    NewRelayService(tenants, logs, eng, logger),
		Auth:     NewAuthService(jwtSecret),
	}
}
