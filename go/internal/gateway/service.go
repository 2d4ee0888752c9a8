package gateway

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/internal/race"
	"github.com/mcdev12/podracer/go/internal/race/events"
)

// Service serves the race page and its websocket sessions
type Service struct {
	connectionManager *ConnectionManager
	handler           *Handler
	config            Config

	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	Title            string
	// AllowedOrigins restricts CORS and websocket origins. Empty allows any origin.
	AllowedOrigins []string
	RaceOptions    race.Options
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		Title:            "Podracer",
		RaceOptions:      race.DefaultOptions(),
	}
}

// NewService creates a gateway whose sessions race against api
func NewService(config Config, api race.RaceAPI, publisher events.Publisher) *Service {
	return NewServiceWithSessions(config, NewRaceSessionFactory(api, publisher, config.RaceOptions))
}

// NewServiceWithSessions creates a gateway with a custom session factory
func NewServiceWithSessions(config Config, sessions SessionFactory) *Service {
	if len(config.AllowedOrigins) > 0 {
		config.ConnectionConfig.CheckOrigin = originChecker(config.AllowedOrigins)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cm := NewConnectionManager(config.ConnectionConfig, sessions)

	return &Service{
		connectionManager: cm,
		handler:           NewHandler(ctx, cm, config.Title),
		config:            config,
		ctx:               ctx,
		cancel:            cancel,
	}
}

// Handler returns the gateway routes wrapped with CORS
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handler.RegisterRoutes(mux)

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"*"},
	})

	log.Info().Strs("allowed_origins", origins).Msg("gateway routes registered")
	return c.Handler(mux)
}

// Start blocks until ctx is done, then stops the service
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting race gateway service")
	<-ctx.Done()
	log.Info().Msg("race gateway service shutting down")
	return s.Stop()
}

// Stop cancels every session and closes their connections
func (s *Service) Stop() error {
	s.cancel()
	log.Info().Int("open_connections", s.connectionManager.Count()).Msg("closing race sessions")
	s.connectionManager.CloseAll()
	log.Info().Msg("race gateway service stopped")
	return nil
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set["*"]; ok {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
