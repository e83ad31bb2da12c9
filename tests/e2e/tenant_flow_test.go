package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTenantDashboardFlow(t *testing.T) {
	token, tenantID, apiKey := registerTenant(t)
	auth := map[string]string{"Authorization": "Bearer " + token}

	// Profile reflects the fresh account.
	resp, body := httpGet(t, apiURL+"/tenant/profile", auth)
	require.Equal(t, 200, resp.StatusCode, body)
	profile := parseJSON(t, body)
	require.Equal(t, tenantID, profile["id"])
	require.Equal(t, "basic", profile["plan"])
	require.Equal(t, apiKey, profile["api_key"])

	// Settings patch is stored.
	resp, body = httpDo(t, "PATCH", apiURL+"/tenant/settings", map[string]any{
		"settings": map[string]any{"greeting": "welcome"},
	}, auth)
	require.Equal(t, 200, resp.StatusCode, body)
	updated := parseJSON(t, body)
	settings := updated["settings"].(map[string]any)
	require.Equal(t, "welcome", settings["greeting"])

	// Rotating the api key yields a different credential.
	resp, body = httpPost(t, apiURL+"/tenant/regenerate-api-key", nil, auth)
	require.Equal(t, 200, resp.StatusCode, body)
	rotated := parseJSON(t, body)["api_key"].(string)
	require.NotEmpty(t, rotated)
	require.NotEqual(t, apiKey, rotated)

	// Chat log listing starts empty.
	resp, body = httpGet(t, apiURL+"/tenant/chat-logs", auth)
	require.Equal(t, 200, resp.StatusCode, body)
	logs := parseJSON(t, body)
	require.EqualValues(t, 0, logs["total"])
}

func TestLoginWithWrongPassword(t *testing.T) {
	_, _, _ = registerTenant(t)

	resp, _ := httpPost(t, apiURL+"/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "wrong-password",
	}, nil)
	require.Equal(t, 401, resp.StatusCode)
}
