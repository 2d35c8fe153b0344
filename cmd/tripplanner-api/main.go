// README: Entry point; loads config, wires services, starts HTTP server and the session sweeper.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/ai"
	"tripplanner/internal/config"
	httptransport "tripplanner/internal/http"
	"tripplanner/internal/infra"
	"tripplanner/internal/logger"
	"tripplanner/internal/maps"
	"tripplanner/internal/modules/delivery"
	"tripplanner/internal/modules/itinerary"
	"tripplanner/internal/modules/location"
	"tripplanner/internal/modules/offer"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/session"
	"tripplanner/internal/modules/suggestion"
	"tripplanner/internal/search"
	"tripplanner/internal/service"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = appLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openai := ai.NewOpenAIClient(cfg.OpenAI)
	var llm ai.TextCompleter = openai
	if cfg.LLM.Provider == config.ProviderGemini {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		llm = gemini
	}

	table, err := location.DefaultTable()
	if err != nil {
		log.Fatalf("airport table: %v", err)
	}
	var geocoder location.Geocoder
	if cfg.GoogleMaps.APIKey != "" {
		gs, err := maps.NewGeocodeService(cfg.GoogleMaps.APIKey)
		if err != nil {
			log.Fatalf("geocoder init: %v", err)
		}
		geocoder = gs
	}
	locationSvc := location.NewService(table, geocoder, appLog.With(map[string]interface{}{"module": "location"}))

	timeout := cfg.Planning.CallTimeout()
	offerSvc := offer.NewService(search.NewClient(cfg.SerpAPI), locationSvc, timeout, appLog.With(map[string]interface{}{"module": "offer"}))
	selector := planning.NewSelector(offerSvc, cfg.Planning.MaxParallel, appLog.With(map[string]interface{}{"module": "planning"}))
	suggestionSvc := suggestion.NewService(llm, cfg.Planning.SuggestionCount, timeout, appLog.With(map[string]interface{}{"module": "suggestion"}))
	itinerarySvc := itinerary.NewService(llm, openai, timeout, appLog.With(map[string]interface{}{"module": "itinerary"}))

	sessions, err := newSessionStore(ctx, cfg, appLog)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	var sender delivery.Sender = delivery.NewLogSender(appLog.With(map[string]interface{}{"module": "delivery"}))
	if cfg.Delivery.SES.Enabled {
		sesClient, err := infra.NewSES(ctx, cfg.Delivery.SES.Region)
		if err != nil {
			log.Fatalf("ses init: %v", err)
		}
		sender = delivery.NewSESSender(sesClient, cfg.Delivery.SES.FromEmail)
	}
	deliverySvc := delivery.NewService(sender, timeout, appLog.With(map[string]interface{}{"module": "delivery"}))

	planner := service.NewTripPlanner(service.TripPlannerDeps{
		Suggestions:   suggestionSvc,
		Selector:      selector,
		Generator:     itinerarySvc,
		Delivery:      deliverySvc,
		Sessions:      sessions,
		DefaultOrigin: cfg.Planning.DefaultOrigin,
		Logger:        appLog.With(map[string]interface{}{"module": "service"}),
	})

	gin.SetMode(gin.ReleaseMode)
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Planner:       planner,
		AllowedOrigin: cfg.HTTP.AllowedOrigin,
		Logger:        appLog.With(map[string]interface{}{"module": "http"}),
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.Error("http shutdown", map[string]interface{}{"error": err.Error()})
		}
	}()

	appLog.Info("listening", map[string]interface{}{
		"addr": cfg.HTTP.Addr, "llm_provider": cfg.LLM.Provider, "session_backend": cfg.Session.Backend,
	})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newSessionStore(ctx context.Context, cfg config.Config, appLog logger.Logger) (session.Store, error) {
	if cfg.Session.Backend == config.SessionBackendRedis {
		rdb, err := infra.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		appLog.Info("sessions in redis", map[string]interface{}{"address": cfg.Redis.Address})
		return session.NewRedisStore(rdb, cfg.Session.TTL()), nil
	}

	store := session.NewMemoryStore(cfg.Session.TTL())
	go store.RunSweeper(ctx, sweepInterval)
	return store, nil
}
