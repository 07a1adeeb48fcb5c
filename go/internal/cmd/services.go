package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/auction"
	"github.com/mcdev12/auctionpro/go/internal/auction/audit"
	auditdb "github.com/mcdev12/auctionpro/go/internal/auction/audit/db"
	"github.com/mcdev12/auctionpro/go/internal/auction/broadcast"
	"github.com/mcdev12/auctionpro/go/internal/auction/coordinator"
	"github.com/mcdev12/auctionpro/go/internal/auction/janitor"
	"github.com/mcdev12/auctionpro/go/internal/auction/ledger"
	ledgerdb "github.com/mcdev12/auctionpro/go/internal/auction/ledger/db"
	"github.com/mcdev12/auctionpro/go/internal/auction/recommend"
	"github.com/mcdev12/auctionpro/go/internal/auction/room"
	"github.com/mcdev12/auctionpro/go/internal/catalogue"
	"github.com/mcdev12/auctionpro/go/internal/config"
	"github.com/mcdev12/auctionpro/go/internal/gateway"
	"github.com/mcdev12/auctionpro/go/internal/relay"
	"github.com/mcdev12/auctionpro/go/internal/users"
	usersdb "github.com/mcdev12/auctionpro/go/internal/users/db"
)

type bidStore interface {
	coordinator.BidLog
	auction.BidHistory
}

type Services struct {
	Users     *users.Service
	Catalogue *catalogue.Service
	Auction   *auction.Service

	Registry    *room.Registry
	Coordinator *coordinator.Coordinator
	Hub         *broadcast.Hub
	Connections *gateway.ConnectionManager
	Janitor     *janitor.Janitor
	Relay       *relay.Relay
}

func setupServices(ctx context.Context, cfg *config.Config, database *sql.DB, clock clockwork.Clock) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer

	var (
		usersRepo     users.UsersRepository
		catalogueRepo catalogue.ItemsRepository
		settlements   ledger.SettlementStore
		bids          bidStore
	)
	if database == nil {
		usersRepo = users.NewMemoryRepository()
		catalogueRepo = catalogue.NewMemoryRepository()
		settlements = ledger.NewMemoryStore()
		bids = audit.NewMemoryLog()
	} else {
		usersRepo = users.NewRepository(usersdb.New(database))
		catalogueRepo = catalogue.NewRepository(database)
		settlements = ledger.NewRepository(ledgerdb.New(database))
		bids = audit.NewRepository(auditdb.New(database))
	}

	// Users
	usersApp := users.NewApp(usersRepo, clock)

	// Catalogue
	catalogueApp := catalogue.NewApp(catalogueRepo, usersApp, clock)
	if cfg.CatalogueFile != "" {
		reqs, err := catalogue.LoadFile(cfg.CatalogueFile)
		if err != nil {
			return nil, err
		}
		if _, err := catalogueApp.Import(ctx, reqs); err != nil {
			return nil, fmt.Errorf("import catalogue: %w", err)
		}
	}

	// Event fan-out: in-process subscribers, plus the stream when configured
	hub := broadcast.NewHub(broadcast.DefaultBufferSize, clock)
	var publisher broadcast.Publisher = hub
	var rel *relay.Relay
	if cfg.NATSURL != "" {
		relayCfg := relay.DefaultConfig()
		relayCfg.URL = cfg.NATSURL
		relayCfg.Stream = cfg.NATSStream
		var err error
		if rel, err = relay.Connect(ctx, relayCfg); err != nil {
			return nil, err
		}
		publisher = broadcast.Fanout{hub, rel}
	}

	// Auction core
	led := ledger.New(settlements, cfg.StartingBudget, clock)
	registry := room.NewRegistry(led, usersApp, clock)
	coord := coordinator.New(registry, led, publisher, bids, clock, coordinator.Config{
		BidDuration: cfg.BidDuration,
		NumWorkers:  cfg.ExpiryWorkers,
		InstanceID:  cfg.InstanceID,
	})
	matcher := recommend.NewMatcher(registry, led, catalogueApp)

	auctionService := auction.NewService(auction.Deps{
		Rooms:       registry,
		Coordinator: coord,
		Ledger:      led,
		Recommender: matcher,
		Items:       catalogueApp,
		Hosts:       usersApp,
		Bids:        bids,
		Settlements: settlements,
	})

	janitorCfg := janitor.Config{Schedule: cfg.ArchiveSchedule, ArchiveAfter: cfg.ArchiveAfter}
	log.Info().Bool("relay", rel != nil).Msg("services wired")

	return &Services{
		Users:       users.NewService(usersApp, cfg.StartingBudget),
		Catalogue:   catalogue.NewService(catalogueApp),
		Auction:     auctionService,
		Registry:    registry,
		Coordinator: coord,
		Hub:         hub,
		Connections: gateway.NewConnectionManager(hub, coord, gateway.DefaultConnectionConfig()),
		Janitor:     janitor.New(registry, led, coord, hub, clock, janitorCfg),
		Relay:       rel,
	}, nil
}

// Close releases the event fan-out after the coordinator has stopped
func (s *Services) Close() {
	s.Hub.Close()
	if s.Relay != nil {
		s.Relay.Close()
	}
}
