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

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"

	"termometro/config"
	"termometro/controllers"
	"termometro/dao"
	"termometro/events"
	mqtthandlers "termometro/handlers"
	"termometro/metrics"
	"termometro/routes"
	"termometro/services"
	"termometro/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Error initializing report store: %v", err)
	}
	defer store.Close()

	var cache services.StatsCache
	if cfg.RedisAddr != "" {
		rdb, err := config.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("Error initializing Redis:", err)
		}
		defer rdb.Close()
		cache = dao.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)
	}

	m := metrics.New()
	stats := services.NewStatsService(store, cache)

	gateOpts := []services.GateOption{
		services.WithMetrics(m),
		services.WithTimeouts(cfg.LocationTimeout, cfg.StoreTimeout),
		services.OnAccepted(stats.Invalidate),
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		gateOpts = append(gateOpts, services.OnAccepted(publisher.ReportAccepted))
		log.Printf("Publishing accepted reports to Kafka topic %s", cfg.KafkaTopic)
	}

	fence := cfg.ActiveGeofence()
	if fence == nil {
		log.Println("Geofence disabled, reports are accepted without a position")
	} else {
		log.Printf("Geofence: center %s, radius %.0f m", fence.Center, fence.RadiusMeters)
	}
	gate := services.NewGate(fence, store, gateOpts...)

	if cfg.MQTTBroker != "" {
		ingestor := mqtthandlers.NewMQTTIngestor(gate, cfg.MQTTTopic, m)
		if err := ingestor.Connect(cfg.MQTTBroker); err != nil {
			log.Fatalf("Error connecting to MQTT: %v", err)
		}
		defer ingestor.Close()
	}

	h := routes.Handlers{
		Rooms:   controllers.NewRoomController(services.NewRoomCatalog(cfg.AulasSource, resty.New().SetTimeout(10*time.Second))),
		Reports: controllers.NewReportController(gate, store),
		Stats:   controllers.NewStatsController(stats),
		Metrics: m.Handler(),
		WebDir:  cfg.WebDir,
	}
	if cfg.Auth.Enabled() {
		issuer, err := cfg.Auth.IssuerURL()
		if err != nil {
			log.Fatalf("Invalid AUTH0_DOMAIN: %v", err)
		}
		auth, err := utils.EnsureValidToken(issuer, cfg.Auth.Audience)
		if err != nil {
			log.Fatalf("Error setting up JWT validation: %v", err)
		}
		h.Admin = controllers.NewAdminController(store, stats)
		h.AdminAuth = auth
		log.Printf("Admin routes enabled for issuer %s", issuer)
	}
	router := routes.SetupRouter(h)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(c.Handler(router))
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatal("Error starting server:", err)
	}
	log.Printf("Server is running on port %s...", cfg.Port)
	if err := serve(ctx, srv, ln, 10*time.Second); err != nil {
		log.Fatal("Error serving:", err)
	}
	log.Println("Server stopped")
}

// serve runs srv on ln until ctx is done. It returns only after Shutdown has
// drained in-flight requests or grace has run out.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (dao.ReportStore, error) {
	switch cfg.StoreBackend {
	case config.BackendInflux:
		client, err := config.NewInfluxClient(ctx, cfg.InfluxDBURL, cfg.InfluxDBToken)
		if err != nil {
			return nil, err
		}
		store, err := dao.NewInfluxReportStore(ctx, client, cfg.InfluxDBOrg, cfg.InfluxDBBucket)
		if err != nil {
			client.Close()
			return nil, err
		}
		return store, nil
	default:
		return dao.NewSQLiteReportStore(ctx, cfg.SQLitePath)
	}
}
