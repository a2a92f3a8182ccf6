package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storefront/internal/adapter/catalog"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
	"github.com/rl1809/storefront/pkg/logger"
)

type GRPCHandler struct {
	cart    CartManager
	catalog port.CatalogClient
}

var _ CartRPCServer = (*GRPCHandler)(nil)

func NewGRPCHandler(cart CartManager, catalogClient port.CatalogClient) (*GRPCHandler, error) {
	if cart == nil {
		return nil, errors.New("cart required")
	}
	if catalogClient == nil {
		return nil, errors.New("catalog client required")
	}
	return &GRPCHandler{cart: cart, catalog: catalogClient}, nil
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *GetCartRequest) (*CartView, error) {
	return newCartView(h.cart.State()), nil
}

func (h *GRPCHandler) AddToCart(ctx context.Context, req *AddToCartRequest) (*CartView, error) {
	if req.ProductID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "product_id must be positive")
	}
	if req.Quantity < 0 {
		return nil, status.Error(codes.InvalidArgument, "quantity must not be negative")
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, catalogStatus(err)
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = domain.DefaultAddQuantity
	}

	h.cart.AddToCart(ctx, *product, quantity)
	return newCartView(h.cart.State()), nil
}

func (h *GRPCHandler) RemoveFromCart(ctx context.Context, req *RemoveFromCartRequest) (*CartView, error) {
	h.cart.RemoveFromCart(ctx, req.ProductID)
	return newCartView(h.cart.State()), nil
}

func (h *GRPCHandler) UpdateQuantity(ctx context.Context, req *UpdateQuantityRequest) (*CartView, error) {
	h.cart.UpdateQuantity(ctx, req.ProductID, req.Quantity)
	return newCartView(h.cart.State()), nil
}

func (h *GRPCHandler) ClearCart(ctx context.Context, req *ClearCartRequest) (*CartView, error) {
	h.cart.ClearCart(ctx)
	return newCartView(h.cart.State()), nil
}

func catalogStatus(err error) error {
	apiErr, ok := catalog.AsAPIError(err)
	if !ok {
		return status.Errorf(codes.Internal, "error fetching product: %v", err)
	}

	switch {
	case apiErr.Status == http.StatusNotFound:
		return status.Error(codes.NotFound, apiErr.Message)
	case apiErr.Status >= 400 && apiErr.Status < 500:
		return status.Error(codes.InvalidArgument, apiErr.Message)
	default:
		return status.Error(codes.Unavailable, apiErr.Message)
	}
}

// UnaryLoggingInterceptor logs every call with its method, code and duration.
func UnaryLoggingInterceptor(logg *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if logg == nil {
			return resp, err
		}

		logCtx := logg.WithFields(ctx, map[string]any{
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if err != nil {
			logg.Warn(logg.WithField(logCtx, "error", err.Error()), "rpc.failed")
			return resp, err
		}
		logg.Info(logCtx, "rpc.complete")
		return resp, nil
	}
}
