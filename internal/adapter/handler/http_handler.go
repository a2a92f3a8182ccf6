package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
	"github.com/rl1809/storefront/pkg/logger"
)

type HTTPHandler struct {
	cart          CartManager
	catalog       port.CatalogClient
	notifications NotificationBoard
	logg          *logger.Logger
	metrics       http.Handler
}

type HTTPHandlerParams struct {
	Cart          CartManager
	Catalog       port.CatalogClient
	Notifications NotificationBoard
	Logger        *logger.Logger
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

type addItemRequest struct {
	ProductID int  `json:"product_id" validate:"required,min=1"`
	Quantity  *int `json:"quantity" validate:"omitempty,min=1"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func NewHTTPHandler(params HTTPHandlerParams) (*HTTPHandler, error) {
	if params.Cart == nil {
		return nil, errors.New("cart required")
	}
	if params.Catalog == nil {
		return nil, errors.New("catalog client required")
	}
	if params.Notifications == nil {
		return nil, errors.New("notification board required")
	}
	return &HTTPHandler{
		cart:          params.Cart,
		catalog:       params.Catalog,
		notifications: params.Notifications,
		logg:          params.Logger,
		metrics:       params.Metrics,
	}, nil
}

// Routes builds the router with the request middleware chain applied.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID(h.logg))
	r.Use(Logging(h.logg))
	r.Use(Recoverer(h.logg))

	r.Get("/health", h.HealthCheck)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/categories", h.ListCategories)
			r.Get("/category/{category}", h.ListByCategory)
			r.Get("/{id}", h.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Patch("/items/{id}", h.UpdateItem)
			r.Delete("/items/{id}", h.RemoveItem)
		})

		r.Get("/notification", h.GetNotification)
		r.Delete("/notification", h.DismissNotification)
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}
	writeSuccess(w, products)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}
	writeSuccess(w, categories)
}

func (h *HTTPHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}
	writeSuccess(w, products)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}
	writeSuccess(w, product)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, newCartView(h.cart.State()))
}

// AddItem resolves the product through the catalog, so the cart line always
// carries the catalog's current fields.
func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}

	quantity := domain.DefaultAddQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	h.cart.AddToCart(r.Context(), *product, quantity)
	writeSuccess(w, newCartView(h.cart.State()))
}

func (h *HTTPHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}

	var req updateQuantityRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}

	h.cart.UpdateQuantity(r.Context(), id, *req.Quantity)
	writeSuccess(w, newCartView(h.cart.State()))
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), h.logg, w, err)
		return
	}

	h.cart.RemoveFromCart(r.Context(), id)
	writeSuccess(w, newCartView(h.cart.State()))
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart(r.Context())
	writeSuccess(w, newCartView(h.cart.State()))
}

func (h *HTTPHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.notifications.Current())
}

func (h *HTTPHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	h.notifications.Hide()
	writeSuccess(w, h.notifications.Current())
}
