package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 2*time.Second)
}

func Test_Client_ListProducts(t *testing.T) {
	// given
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Rice","price":50,"stock":10},{"id":2,"name":"Sugar","price":40.5,"stock":5}]`))
	})

	// when
	products, err := client.ListProducts(context.Background())

	// then
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Rice", products[0].Name)
	assert.Equal(t, "50", products[0].Price.String())
	assert.Equal(t, int64(10), products[0].Stock)
	assert.Equal(t, "40.5", products[1].Price.String())
}

func Test_Client_SubmitBill(t *testing.T) {
	// given: the server sees bare JSON numbers, not quoted decimals
	var received map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bills", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"totalAmount":250}`))
	})

	bill := BillCreate{
		Items: []BillItem{{
			Product:  ProductRef{ID: 1},
			Quantity: decimal.NewFromInt(5),
			Price:    decimal.NewFromInt(50),
		}},
		TotalAmount: decimal.NewFromInt(250),
	}

	// when
	created, err := client.SubmitBill(context.Background(), bill)

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, float64(250), received["totalAmount"])
	items := received["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(5), item["quantity"])
	assert.Equal(t, float64(50), item["price"])
	assert.Equal(t, float64(1), item["product"].(map[string]any)["id"])
}

func Test_Client_DeleteProduct(t *testing.T) {
	// given
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/products/42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	// when / then
	require.NoError(t, client.DeleteProduct(context.Background(), 42))
}

func Test_Client_DashboardStats(t *testing.T) {
	// given
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalSales":1234.5,"totalOrders":42}`))
	})

	// when
	stats, err := client.DashboardStats(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, "1234.5", stats.TotalSales.String())
	assert.Equal(t, int64(42), stats.TotalOrders)
}

func Test_Client_NonSuccessStatus(t *testing.T) {
	// given
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"product not found"}`))
	})

	// when
	err := client.DeleteProduct(context.Background(), 42)

	// then: typed error carrying the upstream status
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Message, "product not found")
}

func Test_Client_UpstreamUnreachable(t *testing.T) {
	// given: a server that is already gone
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	client := NewClient(url+"/api", time.Second)

	// when
	_, err := client.ListProducts(context.Background())

	// then: a transport failure, not a billing API status
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}

func Test_Client_Login(t *testing.T) {
	// given
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		w.Header().Set("Content-Type", "application/json")
		if creds.Password != "secret" {
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"user":{"username":"asha"},"shop":{"name":"Grocery Shop"}}`))
	})

	// when / then
	ok, err := client.Login(context.Background(), Credentials{ShopName: "Grocery Shop", Username: "asha", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, ok.Success)
	assert.Equal(t, "asha", ok.User.Username)

	bad, err := client.Login(context.Background(), Credentials{Username: "asha", Password: "nope"})
	require.NoError(t, err)
	assert.False(t, bad.Success)
	assert.Equal(t, "Invalid credentials", bad.Message)
}
