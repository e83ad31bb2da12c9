package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// NoReplyText is returned when the engine answers successfully but without a
// reply field. It is a degraded reply, not an error.
const NoReplyText = "Sorry, I could not process your request."

type chatRequest struct {
	Message  string          `json:"message"`
	TenantID string          `json:"tenant_id,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// SendChat forwards a message to a tenant's provisioned webhook route under
// the relay timeout. A non-2xx status, timeout, or transport failure is an
// error; the caller decides how to degrade.
func (c *Client) SendChat(ctx context.Context, tenantID, apiKey, message string, settings json.RawMessage) (string, error) {
	url := fmt.Sprintf("%s/webhook/chat/%s", c.baseURL, tenantID)
	payload := chatRequest{Message: message, TenantID: tenantID, Settings: settings}
	return c.postChat(ctx, url, apiKey, payload)
}

// SendDemoChat forwards a message to the fixed demo endpoint. No tenant
// context and no credential beyond the endpoint itself.
func (c *Client) SendDemoChat(ctx context.Context, url, message string) (string, error) {
	return c.postChat(ctx, url, "", chatRequest{Message: message})
}

func (c *Client) postChat(ctx context.Context, url, apiKey string, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := c.relayClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("engine chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("engine chat %s: status %d", url, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if chatResp.Reply == "" {
		return NoReplyText, nil
	}
	return chatResp.Reply, nil
}
