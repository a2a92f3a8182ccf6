package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
	"github.com/rl1809/storefront/pkg/logger"
	"github.com/rl1809/storefront/pkg/metrics"
)

const (
	DefaultStorageKey   = "cart"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

const (
	msgLoadFailed  = "Failed to load your cart"
	msgSaveFailed  = "Failed to save your cart"
	msgItemRemoved = "Item removed from cart"
	msgCartCleared = "Cart cleared"
)

// Listener observes every transition. It runs while the cart lock is held,
// so it must be quick and must not call back into the CartService.
type Listener func(action domain.Action, state domain.CartState)

type CartServiceParams struct {
	Store    port.KeyValueStore
	Notifier port.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CartMetrics

	StorageKey           string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	NotificationDuration time.Duration
}

// CartService owns the canonical cart state. Operations update memory
// synchronously and persist the line sequence in the background.
type CartService struct {
	store          port.KeyValueStore
	notifier       port.Notifier
	logg           *logger.Logger
	metrics        *metrics.CartMetrics
	key            string
	readTimeout    time.Duration
	notifyDuration time.Duration

	mu           sync.Mutex
	state        domain.CartState
	listeners    map[int]Listener
	nextListener int

	persister *persister
	loadOnce  sync.Once
	ready     chan struct{}
}

func NewCartService(params CartServiceParams) (*CartService, error) {
	if params.Store == nil {
		return nil, errors.New("key-value store required")
	}
	if params.Notifier == nil {
		return nil, errors.New("notifier required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.StorageKey == "" {
		params.StorageKey = DefaultStorageKey
	}
	if params.ReadTimeout <= 0 {
		params.ReadTimeout = defaultReadTimeout
	}
	if params.WriteTimeout <= 0 {
		params.WriteTimeout = defaultWriteTimeout
	}

	s := &CartService{
		store:          params.Store,
		notifier:       params.Notifier,
		logg:           params.Logger,
		metrics:        params.Metrics,
		key:            params.StorageKey,
		readTimeout:    params.ReadTimeout,
		notifyDuration: params.NotificationDuration,
		state:          domain.EmptyCart(),
		listeners:      make(map[int]Listener),
		ready:          make(chan struct{}),
	}
	s.persister = newPersister(params.Store, params.StorageKey, params.WriteTimeout, s.reportWrite)

	s.Subscribe(s.persistTransition)
	if params.Metrics != nil {
		s.Subscribe(func(action domain.Action, state domain.CartState) {
			params.Metrics.IncAction(string(action.Kind()))
			params.Metrics.SetTotals(state.TotalItems, state.TotalAmount.InexactFloat64())
		})
	}

	return s, nil
}

// Start launches the persistence worker and loads the stored cart in the
// background. Ready is closed once the load has finished.
func (s *CartService) Start(ctx context.Context) {
	s.persister.start()
	go func() {
		_ = s.Load(ctx)
	}()
}

func (s *CartService) Ready() <-chan struct{} {
	return s.ready
}

// Load reads the persisted line sequence and initializes the cart with it.
// It runs at most once. A failure leaves the cart empty, is shown to the
// user, and is returned for the caller's information only.
func (s *CartService) Load(ctx context.Context) error {
	var loadErr error
	s.loadOnce.Do(func() {
		defer close(s.ready)

		loadErr = s.load(ctx)
		if loadErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "key", s.key), "cart.load_failed", loadErr)
			s.notifier.Show(msgLoadFailed, domain.SeverityError, s.notifyDuration)
			return
		}
		s.logg.Info(s.logg.WithField(ctx, "items", s.State().TotalItems), "cart.loaded")
	})
	return loadErr
}

func (s *CartService) load(ctx context.Context) error {
	readCtx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	value, found, err := s.store.Get(readCtx, s.key)
	if err != nil {
		return fmt.Errorf("read cart: %w", err)
	}
	if !found || value == "" {
		return nil
	}

	lines, err := domain.UnmarshalLines(value)
	if err != nil {
		return err
	}

	s.dispatch(domain.Initialize{Lines: lines})
	return nil
}

// AddToCart adds quantity of product. Callers without a quantity pass
// domain.DefaultAddQuantity.
func (s *CartService) AddToCart(ctx context.Context, product domain.Product, quantity int) {
	s.dispatch(domain.AddToCart{Product: product, Quantity: quantity})
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": product.ID,
		"quantity":   quantity,
	}), "cart.add")
	s.notifier.Show(fmt.Sprintf("%s added to cart", product.Title), domain.SeveritySuccess, s.notifyDuration)
}

// RemoveFromCart removes the product's line. The notification is shown even
// when the product was not in the cart.
func (s *CartService) RemoveFromCart(ctx context.Context, productID int) {
	s.dispatch(domain.RemoveFromCart{ProductID: productID})
	s.logg.Info(s.logg.WithField(ctx, "product_id", productID), "cart.remove")
	s.notifier.Show(msgItemRemoved, domain.SeverityInfo, s.notifyDuration)
}

// UpdateQuantity sets the product's quantity; quantity <= 0 removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, productID, quantity int) {
	s.dispatch(domain.UpdateQuantity{ProductID: productID, Quantity: quantity})
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}), "cart.update_quantity")
}

func (s *CartService) ClearCart(ctx context.Context) {
	s.dispatch(domain.ClearCart{})
	s.logg.Info(ctx, "cart.clear")
	s.notifier.Show(msgCartCleared, domain.SeverityInfo, s.notifyDuration)
}

// State returns a copy of the current cart.
func (s *CartService) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers l for every subsequent transition.
func (s *CartService) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Flush waits until every scheduled write has been attempted.
func (s *CartService) Flush(ctx context.Context) error {
	return s.persister.flush(ctx)
}

// Close stops persistence after writing the latest pending state.
func (s *CartService) Close(ctx context.Context) error {
	return s.persister.close(ctx)
}

func (s *CartService) dispatch(action domain.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.Reduce(s.state, action)
	if len(s.listeners) == 0 {
		return
	}

	snap := s.state.Clone()
	for _, l := range s.listeners {
		l(action, snap)
	}
}

func (s *CartService) persistTransition(action domain.Action, state domain.CartState) {
	if !domain.MutatesStorage(action) {
		return
	}
	if _, ok := s.persister.schedule(state.Items); !ok {
		s.logg.Warn(s.logg.WithField(context.Background(), "action", string(action.Kind())), "cart.persist_after_close")
	}
}

func (s *CartService) reportWrite(seq uint64, duration time.Duration, err error) {
	s.metrics.ObservePersist(duration, err)

	ctx := s.logg.WithFields(context.Background(), map[string]any{
		"key":         s.key,
		"seq":         seq,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		s.logg.Error(ctx, "cart.persist_failed", err)
		s.notifier.Show(msgSaveFailed, domain.SeverityError, s.notifyDuration)
		return
	}
	s.logg.Debug(ctx, "cart.persisted")
}
