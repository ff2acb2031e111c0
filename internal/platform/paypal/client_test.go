package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// newTestServer fakes the PayPal token and orders endpoints and counts
// token requests.
func newTestServer(t *testing.T, tokenCalls *int, orders func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		*tokenCalls++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		orders(w, r)
	})
	return httptest.NewServer(mux)
}

func TestClient_TokenIsCachedAcrossCalls(t *testing.T) {
	tokenCalls := 0
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "ORDER-1", "status": "CREATED"})
	})
	defer srv.Close()

	client := NewClient(srv.URL, "client-id", "client-secret")

	_, err := client.GetOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)
	_, err = client.GetOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}

func TestClient_TokenRefreshedNearExpiry(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		// expires_in below the one-minute refresh margin forces a refresh
		// on the next call.
		json.NewEncoder(w).Encode(map[string]any{"access_token": "test-token", "expires_in": 30})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "ORDER-1", "status": "CREATED"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, "client-id", "client-secret")

	_, err := client.GetOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)
	_, err = client.GetOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)

	assert.Equal(t, 2, tokenCalls)
}

func TestClient_MissingCredentials(t *testing.T) {
	client := NewClient("http://paypal.invalid", "", "")
	_, err := client.GetOrder(context.Background(), "ORDER-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}

func TestClient_CreateOrder(t *testing.T) {
	tokenCalls := 0
	var captured map[string]any
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/checkout/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "ORDER-9",
			"status": "CREATED",
			"links": []map[string]string{
				{"href": "https://paypal.test/self", "rel": "self"},
				{"href": "https://paypal.test/approve", "rel": "approve"},
			},
			"purchase_units": []map[string]any{
				{"reference_id": "pay-42"},
			},
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, "client-id", "client-secret")
	order, err := client.CreateOrder(context.Background(), domain.OrderRequest{
		ExternalReference: "pay-42",
		Amount:            1234.5,
		Currency:          "ARS",
		Description:       "Pago de reserva",
		ReturnURLs: domain.ReturnURLs{
			Success: "https://app.test/success",
			Failure: "https://app.test/failure",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORDER-9", order.ID)
	assert.Equal(t, "CREATED", order.Status)
	assert.Equal(t, "pay-42", order.ExternalReference)
	assert.Equal(t, "https://paypal.test/approve", order.ApproveURL)

	assert.Equal(t, "CAPTURE", captured["intent"])
	units := captured["purchase_units"].([]any)
	unit := units[0].(map[string]any)
	amount := unit["amount"].(map[string]any)
	assert.Equal(t, "1234.50", amount["value"])
	assert.Equal(t, "ARS", amount["currency_code"])
	appCtx := captured["application_context"].(map[string]any)
	assert.Equal(t, "https://app.test/success", appCtx["return_url"])
	assert.Equal(t, "https://app.test/failure", appCtx["cancel_url"])
}

func TestClient_CaptureOrder_StatusFallsBackToCapture(t *testing.T) {
	tokenCalls := 0
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/checkout/orders/ORDER-9/capture", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "ORDER-9",
			"purchase_units": []map[string]any{
				{
					"reference_id": "pay-42",
					"payments": map[string]any{
						"captures": []map[string]any{
							{"id": "CAP-1", "status": "COMPLETED"},
						},
					},
				},
			},
		})
	})
	defer srv.Close()

	client := NewClient(srv.URL, "client-id", "client-secret")
	result, err := client.CaptureOrder(context.Background(), "ORDER-9")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
}

func TestClient_ProviderErrorsAreWrapped(t *testing.T) {
	tokenCalls := 0
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY"}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, "client-id", "client-secret")
	_, err := client.GetOrder(context.Background(), "ORDER-9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}
