package facebook

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

func newTestClient(serverURL string) Client {
	return NewClient(ClientConfig{
		BaseURL:     serverURL,
		AccessToken: "test-token",
		PageID:      "page-1",
		PageName:    "Bright Smiles Dental",
	})
}

func TestListConversations(t *testing.T) {
	var gotRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequests++
		assert.Equal(t, "/page-1/conversations", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id":           "t_1",
					"updated_time": "2026-08-01T09:30:00+0000",
					"messages": map[string]any{
						"data": []map[string]any{
							{
								"id":           "mid.1",
								"message":      "hello",
								"created_time": "2026-08-01T09:30:00+0000",
								"from":         map[string]string{"id": "u1", "name": "Alice"},
							},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	conversations, err := newTestClient(server.URL).ListConversations(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.Len(t, conversations[0].Messages.Data, 1)
	assert.Equal(t, "mid.1", conversations[0].Messages.Data[0].ID)
	assert.Equal(t, "Alice", conversations[0].Messages.Data[0].From.Name)
	assert.Equal(t, 1, gotRequests)
}

func TestListConversationsAuthError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Invalid OAuth access token.",
				"type":    "OAuthException",
				"code":    190,
			},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListConversations(context.Background(), 25)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsAuthError())
	assert.Equal(t, 190, apiErr.Code)
	assert.Contains(t, apiErr.Message, "Invalid OAuth")

	// A failed call is never retried by the client itself.
	assert.Equal(t, 1, attempts)
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/messages", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "RESPONSE", payload["messaging_type"])

		json.NewEncoder(w).Encode(map[string]string{
			"recipient_id": "u1",
			"message_id":   "mid.out.1",
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).SendMessage(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "mid.out.1", resp.MessageID)
}

func TestSendMessageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SendMessage(context.Background(), "u1", "hello")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.False(t, apiErr.IsAuthError())
}

func TestMarkAsRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "mark_seen", payload["sender_action"])
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	assert.NoError(t, newTestClient(server.URL).MarkAsRead(context.Background(), "u1"))
}
