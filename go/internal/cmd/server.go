package main

import (
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/podracer/go/internal/config"
	"github.com/mcdev12/podracer/go/internal/gateway"
)

func setupServer(cfg config.Config, gw *gateway.Service) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(gw.Handler(), &http2.Server{}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func newGateway(cfg config.Config, services *Services) *gateway.Service {
	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.AllowedOrigins = cfg.AllowedOrigins
	gatewayConfig.RaceOptions = raceOptions(cfg)
	return gateway.NewService(gatewayConfig, services.RaceAPI, services.Publisher)
}
