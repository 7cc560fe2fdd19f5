package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pantry/internal/apierror"
	"github.com/mrlokans/pantry/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.Extraction{
		APIKey:    "test-key",
		BaseURL:   baseURL,
		Model:     "test-model",
		MaxTokens: 2048,
	})
}

func TestClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 2048, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		json.NewEncoder(w).Encode(messagesResponse{
			Content: []contentBlock{
				{Type: "text", Text: "  first "},
				{Type: "tool_use", Text: "ignored"},
				{Type: "text", Text: "second  "},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "first second", reply, "text blocks concatenated, whitespace trimmed")
}

func TestClientCompleteWithLimitOverridesBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1024, req.MaxTokens)

		json.NewEncoder(w).Encode(messagesResponse{
			Content: []contentBlock{{Type: "text", Text: "ok"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CompleteWithLimit(context.Background(), "hello", 1024)
	require.NoError(t, err)
}

func TestClientMissingAPIKey(t *testing.T) {
	client := NewClient(config.Extraction{BaseURL: "http://localhost:1"})

	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Configuration Error", apiErr.Code)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestClientUpstreamErrorWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "max_tokens is too large"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Upstream Error", apiErr.Code)
	assert.Equal(t, "max_tokens is too large", apiErr.Message)
}

func TestClientUpstreamErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "extraction API error: 503 Service Unavailable", apiErr.Message)
}

func TestClientEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Malformed Response", apiErr.Code)
}

func TestServiceParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(messagesResponse{
			Content: []contentBlock{{
				Type: "text",
				Text: `[{"productName": "milk", "quantity": 2, "quantityType": "volume", "locationName": "Fridge"}, {"quantity": 5}]`,
			}},
		})
	}))
	defer server.Close()

	service := NewService(newTestClient(server.URL), NewRateLimiter(time.Minute, 10))

	items, err := service.Parse(context.Background(), "2 gallons of milk in the fridge")
	require.NoError(t, err)
	require.Len(t, items, 1, "candidate without a product name is dropped")
	assert.Equal(t, "milk", items[0].ProductName)
	assert.Equal(t, "fridge", items[0].LocationName)
}

func TestServiceParseRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(messagesResponse{
			Content: []contentBlock{{Type: "text", Text: `[]`}},
		})
	}))
	defer server.Close()

	service := NewService(newTestClient(server.URL), NewRateLimiter(time.Minute, 1))

	_, err := service.Parse(context.Background(), "milk")
	require.NoError(t, err)

	_, err = service.Parse(context.Background(), "milk")
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Too Many Requests", apiErr.Code)
	assert.Positive(t, apiErr.RetryAfter)
}
