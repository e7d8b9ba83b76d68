package cli

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

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/storefront"
)

// ServerDependencies holds all dependencies needed for the demo storefront server
type ServerDependencies struct {
	ServerConfig        config.ServerConfig
	HomeHandler         http.Handler
	CatalogHandler      http.Handler
	ProductHandler      http.Handler
	CartHandler         http.Handler
	CheckoutHandler     http.Handler
	ConfirmationHandler http.Handler
	CreateOrderHandler  http.Handler
	NotifyOrderHandler  http.Handler
}

// RunServe starts the demo storefront and blocks until a shutdown signal
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil)
}

// NewRouter maps the storefront's pages and endpoints onto deps' handlers
func NewRouter(deps ServerDependencies) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/{$}", http.RedirectHandler(storefront.Routes{StoreID: deps.ServerConfig.StoreID}.Home(), http.StatusFound))
	mux.Handle("/store/{store}", deps.HomeHandler)
	mux.Handle("/store/{store}/catalog", deps.CatalogHandler)
	mux.Handle("/store/{store}/product/{id}", deps.ProductHandler)
	mux.Handle("/store/{store}/cart", deps.CartHandler)
	mux.Handle("/store/{store}/checkout", deps.CheckoutHandler)
	mux.Handle("/store/{store}/order/{id}", deps.ConfirmationHandler)
	mux.Handle("/functions/v1/create-order", deps.CreateOrderHandler)
	mux.Handle("/functions/v1/notify-order", deps.NotifyOrderHandler)
	return mux
}

// StartServer listens on the configured port and serves the storefront in the background.
// Port "0" picks a free port; read it back from the listener.
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	listener, err := net.Listen("tcp", deps.ServerConfig.Addr())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", deps.ServerConfig.Addr(), err)
	}

	server := &http.Server{
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Demo storefront for store %q listening on %s", deps.ServerConfig.StoreID, listener.Addr())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Demo storefront stopped serving: %v", err)
		}
	}()

	return listener, server, nil
}

// WaitForShutdown blocks until a signal arrives on shutdown, or on SIGINT/SIGTERM
// when shutdown is nil, then drains the server
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout is WaitForShutdown with a bounded drain period.
// In-flight requests still running after drain are cut off.
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, drain time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.Printf("Received %v, draining demo storefront", sig)

	ctx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Drain incomplete: %v", err)
		if err := server.Close(); err != nil {
			return fmt.Errorf("failed to close demo storefront: %w", err)
		}
	}

	log.Println("Demo storefront stopped")
	return nil
}
