package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/auctionpro/go/internal/config"
	"github.com/mcdev12/auctionpro/go/internal/gateway"
)

func setupServer(cfg *config.Config, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Register RPC services
	services.Users.Register(mux)
	services.Catalogue.Register(mux)
	services.Auction.Register(mux)

	// Real-time gateway and snapshots
	gateway.NewWebSocketHandler(services.Connections, services.Registry).RegisterRoutes(mux)
	gateway.NewStateHandler(services.Registry, services.Coordinator).RegisterStateRoutes(mux)

	setupHealthCheck(mux)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h2c.NewHandler(gateway.CORS(cfg.CORSOrigins, mux), &http2.Server{}),
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
