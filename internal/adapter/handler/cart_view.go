package handler

import (
	"context"
	"encoding/json"

	"github.com/rl1809/storefront/internal/core/domain"
)

// CartManager is the part of the cart service the transports drive.
type CartManager interface {
	State() domain.CartState
	AddToCart(ctx context.Context, product domain.Product, quantity int)
	RemoveFromCart(ctx context.Context, productID int)
	UpdateQuantity(ctx context.Context, productID, quantity int)
	ClearCart(ctx context.Context)
}

// NotificationBoard exposes the snackbar to clients that render it.
type NotificationBoard interface {
	Current() domain.Notification
	Hide()
}

// CartView is the wire shape of the cart for both transports. Amounts are
// bare JSON numbers, like product prices.
type CartView struct {
	Items       []domain.CartLine `json:"items"`
	TotalAmount json.Number       `json:"total_amount"`
	TotalItems  int               `json:"total_items"`
}

func newCartView(state domain.CartState) *CartView {
	items := state.Items
	if items == nil {
		items = []domain.CartLine{}
	}
	return &CartView{
		Items:       items,
		TotalAmount: json.Number(state.TotalAmount.String()),
		TotalItems:  state.TotalItems,
	}
}
