package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront/internal/port"
)

var _ port.CatalogClient = (*Client)(nil)

const productJSON = `{"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
}

func TestClient_ListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("[" + productJSON + "]"))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("109.95")))
	assert.Equal(t, 120, products[0].Rating.Count)
}

func TestClient_GetProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/1", r.URL.Path)
		_, _ = w.Write([]byte(productJSON))
	})

	product, err := client.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Fjallraven Backpack", product.Title)
}

func TestClient_GetProductEmptyBodyIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	product, err := client.GetProduct(context.Background(), 999)
	assert.Nil(t, product)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "product not found", apiErr.Message)
}

func TestClient_ListByCategoryEscapesPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category/men's clothing", r.URL.Path)
		_, _ = w.Write([]byte("[]"))
	})

	products, err := client.ListByCategory(context.Background(), "men's clothing")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClient_ListCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		_, _ = w.Write([]byte(`["electronics","jewelery"]`))
	})

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery"}, categories)
}

func TestClient_ErrorBodyMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad category","field":"category"}`))
	})

	_, err := client.ListByCategory(context.Background(), "x")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "bad category", apiErr.Message)
	assert.Equal(t, map[string]any{"message": "bad category", "field": "category"}, apiErr.Data)
}

func TestClient_ErrorWithoutMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ListProducts(context.Background())
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, map[string]any{}, apiErr.Data)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := NewClient(WithBaseURL(baseURL))
	_, err := client.ListCategories(context.Background())

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClient_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProducts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
