package request

import "encoding/json"

// UpdateSettings replaces the tenant's chatbot settings document.
type UpdateSettings struct {
	Settings json.RawMessage `json:"settings" validate:"required"`
}

// CreateCheckout starts a hosted checkout for a plan subscription.
type CreateCheckout struct {
	Plan string `json:"plan" validate:"required"`
}
