package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront-gateway/internal/domain/cart"
	"github.com/xenking/storefront-gateway/internal/domain/catalog"
	"github.com/xenking/storefront-gateway/internal/domain/theme"
	"github.com/xenking/storefront-gateway/internal/fakestore"
	"github.com/xenking/storefront-gateway/internal/fetch"
	"github.com/xenking/storefront-gateway/internal/handler"
	"github.com/xenking/storefront-gateway/internal/storage/themefile"
	"github.com/xenking/storefront-gateway/pkg/health"
	"github.com/xenking/storefront-gateway/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("catalog_url", cfg.Catalog.BaseURL),
	)

	// Remote catalog client.
	client := fakestore.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)

	// Health check service: the gateway is ready when the catalog answers.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", 5*time.Second,
		health.HTTPEndpointCheck(nil, cfg.Catalog.BaseURL+"/products/categories"))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Theme preference store, persisted across restarts. The detection
	// fallback is the configured default mode; it only applies on the very
	// first start, before anything has been persisted.
	themeStore, err := theme.NewStore(themefile.New(cfg.Theme.File), func() theme.Mode {
		mode := theme.Mode(cfg.Theme.Default)
		if !mode.Valid() {
			return theme.ModeLight
		}
		return mode
	})
	if err != nil {
		return errors.Wrap(err, "create theme store")
	}

	// Cart engine: in-memory, process lifetime, instrumented.
	cartEngine := cart.New()
	if err := cartEngine.InstrumentWith(m.MeterProvider().Meter("storefront")); err != nil {
		return errors.Wrap(err, "instrument cart engine")
	}

	// Catalog snapshot tasks: products and categories load independently and
	// concurrently, then refresh in the background.
	products := fetch.NewTask(func(ctx context.Context) ([]catalog.Product, error) {
		return client.List(ctx)
	})
	categories := fetch.NewTask(func(ctx context.Context) ([]string, error) {
		return client.Categories(ctx)
	})

	var tasks errgroup.Group
	tasks.Go(func() error {
		products.Run(ctx, cfg.Catalog.RefreshInterval)
		return nil
	})
	tasks.Go(func() error {
		categories.Run(ctx, cfg.Catalog.RefreshInterval)
		return nil
	})

	// HTTP surface.
	h := handler.NewHandler(client, products, categories, cartEngine, themeStore)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	wrapped := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(wrapped, "storefront",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	_ = tasks.Wait()
	return nil
}
