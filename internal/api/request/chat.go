package request

// ChatMessage is one widget message relayed to a tenant's workflow.
type ChatMessage struct {
	Message string `json:"message" validate:"required,max=4000"`
}
