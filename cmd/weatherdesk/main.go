package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jmalden/weatherdesk/internal/client"
	"github.com/jmalden/weatherdesk/internal/config"
	"github.com/jmalden/weatherdesk/internal/controller"
	"github.com/jmalden/weatherdesk/internal/diag"
	"github.com/jmalden/weatherdesk/internal/geo"
	"github.com/jmalden/weatherdesk/internal/models"
	"github.com/jmalden/weatherdesk/internal/observability"
	"github.com/jmalden/weatherdesk/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	weatherClient, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}

	var st store.Store
	var memcacheCloser *store.MemcachedStore
	switch cfg.StoreBackend {
	case "memcached":
		mc, err := store.NewMemcachedStore(cfg.MemcachedAddrs, cfg.StoreTTL, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached store", zap.Error(err))
		}
		memcacheCloser = mc
		st = mc
		logger.Info("store backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		st = store.NewFileStore(cfg.StorePath, cfg.StoreTTL)
		logger.Info("store backend: file", zap.String("path", cfg.StorePath))
	}

	locator := geo.NewIPLocator(cfg.GeoAPIURL, cfg.GeoTimeout)

	tv := newTermView(os.Stdout)
	ctrl := controller.New(weatherClient, st, locator, tv, logger, controller.Options{
		IconBaseURL:     cfg.IconBaseURL,
		QueryMinLength:  cfg.QueryMinLength,
		QueryMaxLength:  cfg.QueryMaxLength,
		MessageDuration: cfg.MessageDuration,
	})
	ctrl.RestoreFromStore()

	var srv *http.Server
	if cfg.DiagPort != "" {
		limiter := rate.NewLimiter(rate.Limit(cfg.DiagRateLimitRPS), cfg.DiagRateLimitBurst)
		var storePing func() error
		if memcacheCloser != nil {
			storePing = memcacheCloser.Ping
		}
		handler := diag.NewHandler(logger, storePing)
		srv = &http.Server{
			Addr:         ":" + cfg.DiagPort,
			Handler:      diag.NewRouter(handler, limiter),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("diagnostics server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("diagnostics server", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("weatherdesk - enter a city name, :loc for current location, :unit c|f, :clear, :quit")
	go readLoop(ctx, ctrl, tv, cfg.WeatherAPITimeout, stop)

	<-ctx.Done()

	logger.Info("shutting down")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("diagnostics shutdown", zap.Error(err))
		}
	}
	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}

// readLoop turns stdin lines into controller intents. Submissions while
// a lookup is in flight are dropped, matching a disabled input field.
func readLoop(ctx context.Context, ctrl *controller.Controller, tv *termView, fetchTimeout time.Duration, quit func()) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if tv.Loading() {
			continue
		}

		switch {
		case line == ":quit" || line == ":q":
			quit()
			return
		case line == ":clear":
			ctrl.Clear()
		case line == ":loc":
			reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			ctrl.SearchByCurrentLocation(reqCtx)
			cancel()
		case strings.HasPrefix(line, ":unit"):
			arg := strings.TrimSpace(strings.TrimPrefix(line, ":unit"))
			switch strings.ToLower(arg) {
			case "c", "celsius":
				ctrl.SetUnit(models.UnitCelsius)
			case "f", "fahrenheit":
				ctrl.SetUnit(models.UnitFahrenheit)
			default:
				fmt.Println("usage: :unit c|f")
			}
		default:
			reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			ctrl.Search(reqCtx, line)
			cancel()
		}
	}
	quit()
}
