package model

import (
	"encoding/json"
	"time"
)

// Tenant is the authoritative record of a paying customer and its chatbot
// deployment. Field ownership is split: plan, stripe linkage, and active
// state are written by the billing event path; the workflow binding is
// written only after a successful provision; the api key only by explicit
// rotation.
type Tenant struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"-"`
	APIKey         string          `json:"api_key"`
	Plan           string          `json:"plan"`
	IsActive       bool            `json:"is_active"`
	StripeCustomer *string         `json:"stripe_customer,omitempty"`
	WorkflowID     *string         `json:"workflow_id,omitempty"`
	Settings       json.RawMessage `json:"settings,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
