package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pricepulse/pricepulse/internal/api/handlers"
	"github.com/pricepulse/pricepulse/internal/api/middleware"
	"github.com/pricepulse/pricepulse/internal/config"
	"github.com/pricepulse/pricepulse/internal/engine"
	"github.com/pricepulse/pricepulse/internal/notify"
	"github.com/pricepulse/pricepulse/internal/scrape"
	"github.com/pricepulse/pricepulse/internal/sites"
	"github.com/pricepulse/pricepulse/internal/store"
	"github.com/pricepulse/pricepulse/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scrape scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelConnect()

	st, err := store.NewPostgresStore(connectCtx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	fetcher := scrape.NewHTTPFetcher(
		scrape.WithTimeout(cfg.Scrape.Timeout),
		scrape.WithRateLimit(cfg.Scrape.RateLimit.PerSecond, cfg.Scrape.RateLimit.Burst),
		scrape.WithUserAgent(cfg.Scrape.UserAgent),
	)
	registry := sites.DefaultRegistry()
	coordinator := scrape.NewCoordinator(registry, fetcher, scrape.WithLogger(log))

	var notifier notify.Notifier = notify.NewNoOpNotifier(log)
	if cfg.Notifications.Discord.Enabled {
		notifier = notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}

	eng := engine.NewEngine(st, coordinator, notifier,
		engine.WithLogger(log),
		engine.WithEngineMaxConcurrent(cfg.Scrape.MaxConcurrent),
	)

	scheduler, err := engine.NewScheduler(
		eng,
		cfg.Schedule.HourlySpec,
		cfg.Schedule.DailySpec,
		log,
	)
	if err != nil {
		return fmt.Errorf("building scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("PricePulse API", Version))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(st, registry, eng))
	handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(st))
	handlers.RegisterAlertRoutes(api, handlers.NewAlertsHandler(st))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(st))
	handlers.RegisterSiteRoutes(api, handlers.NewSitesHandler(registry))
	handlers.RegisterTriggerRoutes(
		api,
		handlers.NewBatchHandler(eng),
		handlers.NewScrapeNowHandler(eng),
	)

	scheduler.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	// Let in-flight cron jobs finish before the store goes away.
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		log.Warn("scheduler jobs still running at shutdown deadline")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
