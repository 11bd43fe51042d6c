package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/service"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/config"
)

func TestClientCreateSession(t *testing.T) {
	var received sessionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sessionResponse{ID: "sess-1", RedirectURL: "https://pay.example.com/sess-1"})
	}))
	defer server.Close()

	client := New(config.PaymentConfig{
		APIBaseURL: server.URL,
		APIKey:     "test-key",
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
		Timeout:    5 * time.Second,
	})

	session, err := client.CreateSession(context.Background(), service.CheckoutSessionParams{
		AmountCents: 800,
		Currency:    "usd",
		Description: "growth package",
		Reference:   "growth",
		Customer:    "hr@corp.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, "https://pay.example.com/sess-1", session.RedirectURL)
	assert.Equal(t, int64(800), received.AmountCents)
	assert.Equal(t, "https://app.example.com/success", received.SuccessURL)
}

func TestClientCreateSessionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(config.PaymentConfig{APIBaseURL: server.URL, APIKey: "test-key"})

	_, err := client.CreateSession(context.Background(), service.CheckoutSessionParams{AmountCents: 500})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientCreateSessionIncompletePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sessionResponse{ID: "sess-1"})
	}))
	defer server.Close()

	client := New(config.PaymentConfig{APIBaseURL: server.URL, APIKey: "test-key"})

	_, err := client.CreateSession(context.Background(), service.CheckoutSessionParams{AmountCents: 500})
	assert.Error(t, err)
}
