package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CatalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}
