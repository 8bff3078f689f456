package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SirThane/BattleMaps-sub000/internal/awbwapi"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
	"github.com/SirThane/BattleMaps-sub000/internal/config"
	"github.com/SirThane/BattleMaps-sub000/internal/events"
	"github.com/SirThane/BattleMaps-sub000/internal/events/subscribers"
	"github.com/SirThane/BattleMaps-sub000/internal/listener"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
	"github.com/SirThane/BattleMaps-sub000/internal/monitoring"
	"github.com/SirThane/BattleMaps-sub000/internal/server/grpcapi"
	"github.com/SirThane/BattleMaps-sub000/internal/server/httpapi"
	"github.com/SirThane/BattleMaps-sub000/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	grpcPort := flag.Int("grpc-port", -1, "gRPC port (-1 to use config default)")
	httpPort := flag.Int("http-port", -1, "HTTP port (-1 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *grpcPort == -1 {
		*grpcPort = cfg.Server.GRPC.Port
	}
	if *httpPort == -1 {
		*httpPort = cfg.Server.HTTP.Port
	}
	if *logLevel == "" {
		*logLevel = cfg.Server.LogLevel
	}
	if !*enableReflection {
		*enableReflection = cfg.Server.GRPC.EnableReflection
	}
	config.SetupLogging(*logLevel, cfg.Server.LogFormat)

	fetcher, closeFetcher, err := newFetcher(cfg.AWBW)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up AWBW fetcher")
	}
	defer closeFetcher()

	store := session.NewStore(cfg.Session.TTLDuration())
	defer store.Close()

	bus := events.NewEventBus()
	eventLogger := subscribers.NewLoggerSubscriber("map_event_logger", log.Logger, zerolog.DebugLevel)
	eventLogger.SetDevMode(os.Getenv("APP_ENV") != "production")
	bus.Subscribe(eventLogger)

	svc := mapservice.New(fetcher, store, bus)

	monitor := monitoring.New(monitoring.Options{})
	monitor.Register("sessions", store.Len)
	monitor.Register("event_subscribers", bus.SubscriberCount)
	monitor.Register("events_published", bus.PublishedTotal)
	monitor.Start()
	defer monitor.Stop()

	if path := config.ConfigFilePath(); path != "" {
		config.WatchConfig(func(c *config.Config) {
			config.SetupLogging(c.Server.LogLevel, c.Server.LogFormat)
			log.Info().Str("file", path).Msg("Config reloaded")
		})
	}

	log.Info().
		Int("grpc_port", *grpcPort).
		Int("http_port", *httpPort).
		Str("awbw_endpoint", cfg.AWBW.Endpoint).
		Bool("listen_for_maps", cfg.Chat.ListenForMaps).
		Msg("Starting map server")

	grpcLis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.GRPC.Host, *grpcPort))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen for gRPC")
	}
	grpcServer, healthServer := grpcapi.NewGRPCServer(svc, *enableReflection)

	httpServer := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, *httpPort),
		Handler: httpapi.NewRouter(svc, httpapi.Options{
			Monitor:  monitor,
			Listener: listener.New(cfg.Chat, svc),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		log.Info().Str("address", grpcLis.Addr().String()).Msg("gRPC server listening")
		if err := grpcServer.Serve(grpcLis); err != nil {
			log.Error().Err(err).Msg("gRPC server stopped")
			cancel()
		}
	}()
	go func() {
		log.Info().Str("address", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server stopped")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	grpcapi.SetServing(healthServer, false)
	time.Sleep(time.Duration(cfg.Server.GRPC.GracefulShutdownDelay) * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown incomplete")
	}
	grpcServer.GracefulStop()
	log.Info().Msg("Server shutdown complete")
}

// newFetcher builds the AWBW client, wrapped in the response cache when
// awbw.cache_path is set.
func newFetcher(c config.AWBWConfig) (awbw.Fetcher, func(), error) {
	client := awbwapi.NewClient(awbwapi.Options{
		Endpoint:      c.Endpoint,
		Timeout:       c.TimeoutDuration(),
		RatePerSecond: c.RatePerSecond,
		Burst:         c.Burst,
	})
	if c.CachePath == "" {
		return client, func() {}, nil
	}
	cache, err := awbwapi.OpenCache(c.CachePath, c.CacheTTLDuration())
	if err != nil {
		return nil, nil, err
	}
	return awbwapi.NewCachingFetcher(client, cache), func() {
		if err := cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close AWBW cache")
		}
	}, nil
}
