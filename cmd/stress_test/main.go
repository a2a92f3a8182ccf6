package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/adapter/notify"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/pkg/logger"
)

const (
	cartKey       = "stress-test-cart"
	productCount  = 5
	totalRequests = 500
)

func main() {
	ctx := context.Background()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	store := storage.NewRedisAdapter(rdb)
	if err := store.Remove(ctx, cartKey); err != nil {
		log.Fatalf("failed to reset cart: %v", err)
	}

	cart, err := service.NewCartService(service.CartServiceParams{
		Store:      store,
		Notifier:   notify.NewSnackbar(nil, time.Second),
		Logger:     logger.Nop(),
		StorageKey: cartKey,
	})
	if err != nil {
		log.Fatalf("failed to create cart service: %v", err)
	}
	cart.Start(ctx)
	<-cart.Ready()

	products := make([]domain.Product, productCount)
	for i := range products {
		products[i] = domain.Product{
			ID:    i + 1,
			Title: fmt.Sprintf("product-%d", i+1),
			Price: decimal.New(int64(100*(i+1)+99), -2),
		}
	}

	var adds atomic.Int32
	var updates atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			product := products[n%productCount]
			if n%10 == 9 {
				cart.UpdateQuantity(ctx, product.ID, n)
				updates.Add(1)
				return
			}
			cart.AddToCart(ctx, product, 1)
			adds.Add(1)
		}(i)
	}

	wg.Wait()
	dispatchElapsed := time.Since(start)

	closeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cart.Close(closeCtx); err != nil {
		log.Fatalf("failed to close cart service: %v", err)
	}
	totalElapsed := time.Since(start)

	memory := cart.State()

	raw, found, err := store.Get(ctx, cartKey)
	if err != nil || !found {
		log.Fatalf("failed to read persisted cart: found=%v err=%v", found, err)
	}
	persisted, err := domain.UnmarshalLines(raw)
	if err != nil {
		log.Fatalf("failed to decode persisted cart: %v", err)
	}
	persistedAmount, persistedItems := domain.Totals(persisted)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:    %d\n", totalRequests)
	fmt.Printf("Adds:              %d\n", adds.Load())
	fmt.Printf("Quantity Updates:  %d\n", updates.Load())
	fmt.Printf("Dispatch Duration: %v\n", dispatchElapsed)
	fmt.Printf("Flush Duration:    %v\n", totalElapsed)
	fmt.Printf("Memory:    %d lines, %d items, %s\n", len(memory.Items), memory.TotalItems, memory.TotalAmount)
	fmt.Printf("Persisted: %d lines, %d items, %s\n", len(persisted), persistedItems, persistedAmount)
	fmt.Println("==========================================")

	if persistedItems == memory.TotalItems && persistedAmount.Equal(memory.TotalAmount) && sameLines(persisted, memory.Items) {
		fmt.Println("PASS: Persisted cart matches the in-memory cart")
	} else {
		fmt.Println("FAIL: Persisted cart diverged from the in-memory cart")
		os.Exit(1)
	}
}

func sameLines(a, b []domain.CartLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Quantity != b[i].Quantity || !a[i].Price.Equal(b[i].Price) {
			return false
		}
	}
	return true
}
