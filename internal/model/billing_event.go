package model

import "time"

// BillingEvent marks a payment provider event as processed. Providers
// redeliver events; the unique ID claim is what keeps reprocessing from
// double-running side effects.
type BillingEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
