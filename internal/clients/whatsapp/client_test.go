package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendText(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages": [{"id": "wamid.abc123"}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-token", "12345", "919876543210",
		WithBaseURL(server.URL),
		WithTemplate(false, "", ""),
	)
	require.NoError(t, err)

	id, err := client.Notify(context.Background(), "5 stocks moved today")
	require.NoError(t, err)
	assert.Equal(t, "wamid.abc123", id)

	assert.Equal(t, "whatsapp", captured["messaging_product"])
	assert.Equal(t, "919876543210", captured["to"])
	assert.Equal(t, "text", captured["type"])
	text := captured["text"].(map[string]interface{})
	assert.Equal(t, "5 stocks moved today", text["body"])
}

func TestSendTemplate(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"messages": [{"id": "wamid.tpl1"}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-token", "12345", "919876543210",
		WithBaseURL(server.URL),
		WithTemplate(true, "holdings_alert", "en_US"),
	)
	require.NoError(t, err)

	id, err := client.Notify(context.Background(), "TCS up 6.1%")
	require.NoError(t, err)
	assert.Equal(t, "wamid.tpl1", id)

	assert.Equal(t, "template", captured["type"])
	tpl := captured["template"].(map[string]interface{})
	assert.Equal(t, "holdings_alert", tpl["name"])
	lang := tpl["language"].(map[string]interface{})
	assert.Equal(t, "en_US", lang["code"])

	components := tpl["components"].([]interface{})
	require.Len(t, components, 1)
	body := components[0].(map[string]interface{})
	assert.Equal(t, "body", body["type"])
	params := body["parameters"].([]interface{})
	require.Len(t, params, 1)
	param := params[0].(map[string]interface{})
	assert.Equal(t, "TCS up 6.1%", param["text"])
}

func TestSendErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Invalid OAuth access token", "type": "OAuthException"}}`))
	}))
	defer server.Close()

	client, err := NewClient("bad-token", "12345", "919876543210",
		WithBaseURL(server.URL),
	)
	require.NoError(t, err)

	_, err = client.Notify(context.Background(), "hello")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "OAuthException", apiErr.Type)
	assert.Contains(t, apiErr.Message, "Invalid OAuth")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "12345", "919876543210")
	assert.Error(t, err)

	_, err = NewClient("token", "", "919876543210")
	assert.Error(t, err)

	client, err := NewClient("token", "12345", "")
	require.NoError(t, err)

	_, err = client.Notify(context.Background(), "hello")
	assert.ErrorContains(t, err, "no WhatsApp recipient")
}
