package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmorenoc/retail-pos-platform/internal/api/handlers"
	"github.com/dmorenoc/retail-pos-platform/internal/api/middleware"
	"github.com/dmorenoc/retail-pos-platform/internal/cache"
	"github.com/dmorenoc/retail-pos-platform/internal/config"
	"github.com/dmorenoc/retail-pos-platform/internal/health"
	"github.com/dmorenoc/retail-pos-platform/internal/metrics"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
	"github.com/dmorenoc/retail-pos-platform/internal/tracing"
	"github.com/dmorenoc/retail-pos-platform/pkg/sendgrid"
	"github.com/dmorenoc/retail-pos-platform/pkg/stripe"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := tracing.Init(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error initializing tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	snapshotRepo := repository.NewCartSnapshotRepo(redisClient, cfg)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	userService := service.NewUserService(repos.User, rateLimitRepo, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, catalogCache)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(snapshotRepo, repos.Order, productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Product, snapshotRepo, productService, emailService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentService := service.NewPaymentService(repos.Payment, repos.Order, stripeClient, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	clientService := service.NewClientService(repos.Client)
	clientHandler := handlers.NewClientHandler(clientService)
	receptionService := service.NewReceptionService(repos.Reception, repos.Product, productService)
	receptionHandler := handlers.NewReceptionHandler(receptionService)
	dispatchService := service.NewDispatchService(repos.Dispatch, repos.Order, emailService)
	dispatchHandler := handlers.NewDispatchHandler(dispatchService)
	cashboxService := service.NewCashboxService(repos.Cashbox)
	cashboxHandler := handlers.NewCashboxHandler(cashboxService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:           repos.DB,
		RedisClient:  redisClient,
		StripeClient: stripeClient,
	})
	if err != nil {
		slog.Error("❌ Error registering health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products/catalog", authMiddleware.Authenticate(productHandler.Catalog()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.GetProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(productHandler.ListProducts()))

	routerMux.HandleFunc("POST /api/v1/cart/hydrate", authMiddleware.Authenticate(cartHandler.Hydrate()))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/lines", authMiddleware.Authenticate(cartHandler.AddLine()))
	routerMux.HandleFunc("PUT /api/v1/cart/lines/quantity", authMiddleware.Authenticate(cartHandler.SetQuantity()))
	routerMux.HandleFunc("PUT /api/v1/cart/lines/discount", authMiddleware.Authenticate(cartHandler.SetDiscount()))
	routerMux.HandleFunc("DELETE /api/v1/cart/lines/{productId}", authMiddleware.Authenticate(cartHandler.RemoveLine()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.Clear()))

	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.SubmitOrder()))
	routerMux.HandleFunc("PUT /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.ResubmitOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(orderHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}/receipt", authMiddleware.Authenticate(orderHandler.Receipt()))

	routerMux.HandleFunc("POST /api/v1/payments", authMiddleware.Authenticate(paymentHandler.CreatePayment()))
	routerMux.HandleFunc("GET /api/v1/payments/{id}", authMiddleware.Authenticate(paymentHandler.GetPayment()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}/payments", authMiddleware.Authenticate(paymentHandler.ListPaymentsByOrder()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleWebhook())

	routerMux.HandleFunc("POST /api/v1/clients", authMiddleware.Authenticate(clientHandler.CreateClient()))
	routerMux.HandleFunc("GET /api/v1/clients/search", authMiddleware.Authenticate(clientHandler.SearchByDocument()))
	routerMux.HandleFunc("GET /api/v1/clients/{id}", authMiddleware.Authenticate(clientHandler.GetClient()))
	routerMux.HandleFunc("PUT /api/v1/clients/{id}", authMiddleware.Authenticate(clientHandler.UpdateClient()))
	routerMux.HandleFunc("GET /api/v1/clients", authMiddleware.Authenticate(clientHandler.ListClients()))

	routerMux.HandleFunc("POST /api/v1/receptions", authMiddleware.Authenticate(receptionHandler.CreateReception()))
	routerMux.HandleFunc("GET /api/v1/receptions/{id}", authMiddleware.Authenticate(receptionHandler.GetReception()))
	routerMux.HandleFunc("GET /api/v1/receptions", authMiddleware.Authenticate(receptionHandler.ListReceptions()))
	routerMux.HandleFunc("POST /api/v1/receptions/{id}/apply", authMiddleware.Authenticate(receptionHandler.ApplyReception()))

	routerMux.HandleFunc("POST /api/v1/orders/{id}/dispatch", authMiddleware.Authenticate(dispatchHandler.CreateDispatch()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}/dispatch", authMiddleware.Authenticate(dispatchHandler.GetDispatch()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/dispatch/status", authMiddleware.Authenticate(dispatchHandler.UpdateDispatchStatus()))
	routerMux.HandleFunc("GET /api/v1/dispatches", authMiddleware.Authenticate(dispatchHandler.ListDispatches()))

	routerMux.HandleFunc("POST /api/v1/cashbox/entries", authMiddleware.Authenticate(cashboxHandler.CreateEntry()))
	routerMux.HandleFunc("GET /api/v1/cashbox/summary", authMiddleware.Authenticate(cashboxHandler.DailySummary()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(handler, "retail-pos-platform")
	}

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}

}
