package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront/internal/adapter/catalog"
	"github.com/rl1809/storefront/internal/adapter/notify"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/pkg/logger"
)

// Mock CatalogClient
type mockCatalog struct {
	mu       sync.Mutex
	products map[int]domain.Product
	err      error
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[int]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	products := make([]domain.Product, 0, len(m.products))
	for id := 1; len(products) < len(m.products); id++ {
		if p, ok := m.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *mockCatalog) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, &catalog.APIError{Message: "product not found", Status: http.StatusNotFound, Data: map[string]any{}}
	}
	return &p, nil
}

func (m *mockCatalog) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	all, err := m.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) ListCategories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return []string{"electronics", "jewelery"}, nil
}

func testProduct(id int, title, price, category string) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: category,
	}
}

type fixture struct {
	cart     *service.CartService
	catalog  *mockCatalog
	snackbar *notify.Snackbar
	store    *storage.MemoryAdapter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := storage.NewMemoryAdapter()
	snackbar := notify.NewSnackbar(nil, time.Minute)
	cart, err := service.NewCartService(service.CartServiceParams{
		Store:    store,
		Notifier: snackbar,
		Logger:   logger.Nop(),
	})
	require.NoError(t, err)

	cart.Start(context.Background())
	select {
	case <-cart.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("cart service never became ready")
	}
	t.Cleanup(func() {
		_ = cart.Close(context.Background())
	})

	return &fixture{
		cart: cart,
		catalog: newMockCatalog(
			testProduct(1, "Backpack", "109.95", "men's clothing"),
			testProduct(2, "Ring", "9.99", "jewelery"),
		),
		snackbar: snackbar,
		store:    store,
	}
}
