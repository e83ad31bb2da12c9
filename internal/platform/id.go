package platform

import "github.com/google/uuid"

// NewID returns a random UUID string. Used for tenant and chat log ids.
func NewID() string {
	return uuid.New().String()
}

// NewAPIKey returns a fresh relay credential. The raw value is stored on the
// tenant row and compared exactly on every relay call.
func NewAPIKey() string {
	return uuid.New().String()
}
