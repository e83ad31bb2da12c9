package model

import "time"

// ChatLog records one inbound relay message. The row is inserted before the
// downstream forward is attempted; Reply transitions from nil to non-nil
// exactly once, addressed by ID.
type ChatLog struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Message   string    `json:"message"`
	Reply     *string   `json:"reply,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
