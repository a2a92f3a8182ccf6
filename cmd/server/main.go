package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/storefront/internal/adapter/catalog"
	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/adapter/notify"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/pkg/config"
	"github.com/rl1809/storefront/pkg/logger"
	"github.com/rl1809/storefront/pkg/metrics"
)

const (
	shutdownTimeout = 5 * time.Second
	loadWait        = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "server.exit", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeStore())
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(reg)

	snackbar := notify.NewSnackbar(logg, cfg.Notification.Duration)

	cart, err := service.NewCartService(service.CartServiceParams{
		Store:                store,
		Notifier:             snackbar,
		Logger:               logg,
		Metrics:              cartMetrics,
		StorageKey:           cfg.Storage.CartKey,
		ReadTimeout:          cfg.Storage.ReadTimeout,
		WriteTimeout:         cfg.Storage.WriteTimeout,
		NotificationDuration: cfg.Notification.Duration,
	})
	if err != nil {
		return fmt.Errorf("create cart service: %w", err)
	}

	// Serving before the load finishes would let Initialize overwrite mutations.
	cart.Start(ctx)
	select {
	case <-cart.Ready():
	case <-time.After(loadWait):
		return errors.New("cart load did not finish in time")
	case <-ctx.Done():
		return nil
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = multierr.Append(err, cart.Close(closeCtx))
	}()

	catalogClient := catalog.NewClient(
		catalog.WithBaseURL(cfg.Catalog.BaseURL),
		catalog.WithTimeout(cfg.Catalog.Timeout),
	)

	httpHandler, err := handler.NewHTTPHandler(handler.HTTPHandlerParams{
		Cart:          cart,
		Catalog:       catalogClient,
		Notifications: snackbar,
		Logger:        logg,
		Metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           httpHandler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcHandler, err := handler.NewGRPCHandler(cart, catalogClient)
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer(
		handler.ServerCodec(),
		grpc.UnaryInterceptor(handler.UnaryLoggingInterceptor(logg)),
	)
	handler.RegisterCartServer(grpcServer, grpcHandler)

	lis, err := net.Listen("tcp", cfg.App.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logg.Info(logg.WithField(gctx, "addr", cfg.App.HTTPAddr), "http.listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logg.Info(logg.WithField(gctx, "addr", cfg.App.GRPCAddr), "grpc.listening")
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logg.Info(context.Background(), "server.shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return shutdownErr
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logg.Info(context.Background(), "server.stopped")
	return nil
}
