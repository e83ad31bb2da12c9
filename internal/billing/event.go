package billing

import (
	"encoding/json"
	"fmt"
)

// Event kinds this system acts on. Anything else is acknowledged and ignored.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Event is the provider's webhook envelope with the nested object flattened
// into the fields the state machine needs.
type Event struct {
	ID   string
	Type string

	// checkout.session.completed
	CustomerEmail string
	Plan          string

	// both recognized kinds
	CustomerRef string
}

type envelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			Customer      string `json:"customer"`
			CustomerEmail string `json:"customer_email"`
			Metadata      struct {
				Plan string `json:"plan"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a verified webhook body. Parsing happens only after
// signature verification; a body that fails to decode here is a processing
// error, not an authentication signal.
func ParseEvent(payload []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if env.ID == "" || env.Type == "" {
		return nil, fmt.Errorf("webhook event missing id or type")
	}

	return &Event{
		ID:            env.ID,
		Type:          env.Type,
		CustomerEmail: env.Data.Object.CustomerEmail,
		Plan:          env.Data.Object.Metadata.Plan,
		CustomerRef:   env.Data.Object.Customer,
	}, nil
}
