// Package engine is the client for the external workflow automation engine.
// The engine owns the workflow schema; this client round-trips the document
// as-is and only rewrites the webhook trigger nodes it understands.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const webhookNodeType = "n8n-nodes-base.webhook"

// ProvisioningError wraps any failure talking to the engine's management API.
// Callers must not treat one as having mutated tenant state.
type ProvisioningError struct {
	Op  string
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning: %s: %v", e.Op, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

type Client struct {
	baseURL            string
	apiKey             string
	templateWorkflowID string
	httpClient         *http.Client
	relayClient        *http.Client
}

func NewClient(baseURL, apiKey, templateWorkflowID string) *Client {
	return &Client{
		baseURL:            baseURL,
		apiKey:             apiKey,
		templateWorkflowID: templateWorkflowID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		relayClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Provision clones the template workflow for a tenant: the template is
// fetched, stripped of its identity, renamed, every webhook trigger node is
// rewritten to the tenant-scoped route, and the result is created and
// activated. Returns the new workflow's id.
func (c *Client) Provision(ctx context.Context, tenantID string) (string, error) {
	var template map[string]any
	if err := c.get(ctx, "/rest/workflows/"+c.templateWorkflowID, &template); err != nil {
		return "", &ProvisioningError{Op: "fetch template", Err: err}
	}

	delete(template, "id")
	template["name"] = fmt.Sprintf("Chatbot-%s", tenantID)
	template["active"] = true

	rewriteWebhookNodes(template, map[string]any{
		"path":         fmt.Sprintf("chat/%s", tenantID),
		"httpMethod":   "POST",
		"responseMode": "onReceived",
	})

	var created struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/rest/workflows", template, &created); err != nil {
		return "", &ProvisioningError{Op: "create workflow", Err: err}
	}
	if created.ID == "" {
		return "", &ProvisioningError{Op: "create workflow", Err: fmt.Errorf("engine returned no workflow id")}
	}

	if err := c.doJSON(ctx, http.MethodPost, "/rest/workflows/"+created.ID+"/activate", nil, nil); err != nil {
		return "", &ProvisioningError{Op: "activate workflow", Err: err}
	}

	return created.ID, nil
}

// Reconfigure merges a settings patch into every webhook trigger node of an
// existing workflow and submits the full updated definition. The engine's
// unit of update is the whole document, so partial application cannot occur.
func (c *Client) Reconfigure(ctx context.Context, workflowID string, settings map[string]any) error {
	var workflow map[string]any
	if err := c.get(ctx, "/rest/workflows/"+workflowID, &workflow); err != nil {
		return &ProvisioningError{Op: "fetch workflow", Err: err}
	}

	rewriteWebhookNodes(workflow, settings)

	if err := c.doJSON(ctx, http.MethodPut, "/rest/workflows/"+workflowID, workflow, nil); err != nil {
		return &ProvisioningError{Op: "update workflow", Err: err}
	}
	return nil
}

// Deprovision deletes a tenant's workflow. Deletion is advisory cleanup:
// failure is reported as false, never as an error.
func (c *Client) Deprovision(ctx context.Context, workflowID string) bool {
	return c.doJSON(ctx, http.MethodDelete, "/rest/workflows/"+workflowID, nil, nil) == nil
}

// rewriteWebhookNodes merges params into the parameter set of every webhook
// trigger node in the workflow document. Later keys win on conflict. Nodes of
// other types, and anything else in the document, pass through untouched.
func rewriteWebhookNodes(workflow map[string]any, params map[string]any) {
	nodes, _ := workflow["nodes"].([]any)
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok || node["type"] != webhookNodeType {
			continue
		}
		nodeParams, _ := node["parameters"].(map[string]any)
		if nodeParams == nil {
			nodeParams = map[string]any{}
		}
		for k, v := range params {
			nodeParams[k] = v
		}
		node["parameters"] = nodeParams
	}
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("engine API %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("engine API %s %s: status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
