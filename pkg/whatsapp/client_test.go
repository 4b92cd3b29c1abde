package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, response string, inspect func(r *http.Request, body map[string]interface{})) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		if inspect != nil {
			inspect(r, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func TestSendText(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"contacts":[{"input":"15551234567","wa_id":"15551234567"}],"messages":[{"id":"wamid.abc"}]}`,
		func(r *http.Request, body map[string]interface{}) {
			assert.Equal(t, "/123456/messages", r.URL.Path)
			assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			assert.Equal(t, "15551234567", body["to"])
			assert.Equal(t, "text", body["type"])
			assert.Equal(t, "Hello", body["text"].(map[string]interface{})["body"])
		})
	defer server.Close()

	client := New(server.URL, "123456", "token-1", 100, server.Client())
	result, err := client.SendText(context.Background(), "+1 555-123-4567", "Hello")

	require.NoError(t, err)
	assert.Equal(t, "wamid.abc", result.MessageID)
	assert.Equal(t, "15551234567", result.WaID)
}

func TestSendTemplate_NormalizesNameAndParams(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"messages":[{"id":"wamid.tpl"}]}`,
		func(r *http.Request, body map[string]interface{}) {
			tpl := body["template"].(map[string]interface{})
			assert.Equal(t, "birthday_wishes", tpl["name"])
			assert.Equal(t, "en_US", tpl["language"].(map[string]interface{})["code"])
			components := tpl["components"].([]interface{})
			params := components[0].(map[string]interface{})["parameters"].([]interface{})
			assert.Len(t, params, 2)
		})
	defer server.Close()

	client := New(server.URL, "123456", "token-1", 100, server.Client())
	result, err := client.SendTemplate(context.Background(), "15550000000", "Birthday Wishes", "", []string{"Ana", "BDAY1234"})

	require.NoError(t, err)
	assert.Equal(t, "wamid.tpl", result.MessageID)
}

func TestSend_APIError(t *testing.T) {
	server := newTestServer(t, http.StatusBadRequest, `{"error":{"message":"Invalid parameter","code":100}}`, nil)
	defer server.Close()

	client := New(server.URL, "123456", "token-1", 100, server.Client())
	_, err := client.SendText(context.Background(), "15550000000", "Hi")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 100, apiErr.Code)
	assert.Equal(t, "Invalid parameter", apiErr.Message)
}

func TestSendMedia_UnsupportedType(t *testing.T) {
	client := New("http://localhost", "1", "t", 100, nil)
	_, err := client.SendMedia(context.Background(), "1555", "sticker", "http://x", "")
	assert.Error(t, err)
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "15551234567", CleanPhone("+1 555-123-4567"))
	assert.Equal(t, "254700000000", CleanPhone("254700000000"))
}

func TestTemplateName(t *testing.T) {
	assert.Equal(t, "points_earned", TemplateName(" Points Earned "))
}

func TestInboundMessageContent(t *testing.T) {
	assert.Equal(t, "hi", InboundMessage{Text: &InboundText{Body: "hi"}}.Content())
	assert.Equal(t, "receipt", InboundMessage{Image: &InboundMedia{Caption: "receipt"}}.Content())
	assert.Equal(t, "", InboundMessage{Type: "audio", Audio: &InboundMedia{ID: "a"}}.Content())
}

func TestParseTimestamp(t *testing.T) {
	assert.Equal(t, int64(1700000000), ParseTimestamp("1700000000").Unix())
	assert.False(t, ParseTimestamp("garbage").IsZero())
}
