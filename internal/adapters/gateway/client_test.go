package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		require.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "ada@example.com", req.CustomerEmail)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createOrderResponse{OrderID: "order-1", CheckoutURL: "https://pay.example/order-1"})
	}))
	defer srv.Close()

	gw := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "key-1"})
	order, err := gw.CreateOrder(context.Background(), domain.CreateOrderRequest{
		Amount:        decimal.RequireFromString("150.00"),
		Currency:      "USD",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "order-1", order.OrderID)
}

func TestClient_GetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/orders/order-1":
			json.NewEncoder(w).Encode(getOrderResponse{
				OrderID: "order-1", Status: "PAID",
				GatewayOrderRef: "gw-o-1", GatewayPayRef: "gw-p-1",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	gw := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "key-1"})

	state, err := gw.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, domain.GatewayStatusPaid, state.Status)
	require.Equal(t, "gw-p-1", state.GatewayPayRef)

	_, err = gw.GetOrder(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_GetOrder_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "key-1"})
	_, err := gw.GetOrder(context.Background(), "order-1")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
