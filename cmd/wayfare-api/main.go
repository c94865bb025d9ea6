// README: Entry point; loads config, wires providers and services, starts HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfare/internal/ai"
	"wayfare/internal/cache"
	"wayfare/internal/config"
	"wayfare/internal/enhancer"
	"wayfare/internal/formatter"
	httptransport "wayfare/internal/http"
	"wayfare/internal/infra"
	"wayfare/internal/intent"
	"wayfare/internal/maps"
	"wayfare/internal/modules/flight"
	"wayfare/internal/modules/history"
	"wayfare/internal/modules/hotel"
	"wayfare/internal/providers"
	"wayfare/internal/ratelimit"
	"wayfare/internal/service"
	"wayfare/pkg/logger"
	"wayfare/pkg/metrics"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal("database init failed", "error", err)
	}
	defer dbPool.Close()

	var store cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		store = cache.NewRedisCache(infra.NewRedis(cfg.Redis.Addr))
	}
	defer store.Close()

	limiter := ratelimit.NewProviderLimiterWithDefaults()

	deps := service.Deps{
		Router:      intent.NewRouter(),
		Formatter:   formatter.New(log),
		FlightStore: flight.NewStore(dbPool, log),
		HotelStore:  hotel.NewStore(dbPool, log),
		History:     history.NewStore(dbPool),
		Cache:       store,
		CacheTTL:    cfg.Cache.TTL,
		Metrics:     metrics.New("wayfare"),
		Log:         log,
	}

	if cfg.Providers.BookingKey != "" {
		booking := providers.NewBookingClient(providers.BookingConfig{
			BaseURL: cfg.Providers.BookingBaseURL,
			Key:     cfg.Providers.BookingKey,
			Secret:  cfg.Providers.BookingSecret,
			Timeout: cfg.Providers.Timeout,
		}, limiter, log)
		deps.Flights = booking
		deps.Hotels = booking
	} else {
		log.Warn("booking provider disabled, no credentials")
	}

	if cfg.Providers.WeatherKey != "" {
		deps.Weather = providers.NewWeatherClient(
			cfg.Providers.WeatherBaseURL, cfg.Providers.WeatherKey, cfg.Providers.Timeout, limiter)
	} else {
		log.Warn("weather provider disabled, no credentials")
	}

	if cfg.Providers.SearchKey != "" {
		deps.WebSearch = providers.NewSearchClient(
			cfg.Providers.SearchBaseURL, cfg.Providers.SearchKey, cfg.Providers.Timeout, limiter)
	} else {
		log.Warn("web search provider disabled, no credentials")
	}

	if cfg.AI.MapsKey != "" {
		places, err := maps.NewPlacesService(cfg.AI.MapsKey)
		if err != nil {
			log.Warn("places service init failed", "error", err)
		} else {
			deps.Places = places
		}
	}

	if client := newAIClient(ctx, cfg, log); client != nil {
		deps.Advisor = enhancer.New(client, log)
	}

	assistant := service.NewAssistant(deps)
	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httptransport.NewRouter(assistant, cfg.History.DefaultLimit, log),
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

// newAIClient picks the configured model backend, preferring Gemini.
func newAIClient(ctx context.Context, cfg config.Config, log logger.Logger) ai.Client {
	switch {
	case cfg.AI.Backend == "openai" && cfg.AI.OpenAIKey != "":
		return ai.NewOpenAIClient(cfg.AI.OpenAIKey)
	case cfg.AI.GeminiKey != "":
		client, err := ai.NewGeminiClient(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Warn("gemini init failed", "error", err)
			return nil
		}
		return client
	case cfg.AI.OpenAIKey != "":
		return ai.NewOpenAIClient(cfg.AI.OpenAIKey)
	default:
		log.Warn("no model backend configured, AI features disabled")
		return nil
	}
}
