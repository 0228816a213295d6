package main

import (
	"net/http"

	"github.com/GonzaloH5/league-bot/go/internal/friendlies"
	"github.com/GonzaloH5/league-bot/go/internal/market"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/notify"
	"github.com/GonzaloH5/league-bot/go/internal/roster"
	"github.com/GonzaloH5/league-bot/go/internal/screenshots"
	"github.com/GonzaloH5/league-bot/go/internal/tenants"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/GonzaloH5/league-bot/go/internal/transfers"
	"github.com/jonboulle/clockwork"
)

type Services struct {
	Roster      *roster.Service
	Market      *market.Service
	Transfers   *transfers.Service
	Friendlies  *friendlies.Service
	Screenshots *screenshots.Service
	Tenants     *tenants.Service
}

func setupServices(registry tenants.Registry, stores *tenantstore.Manager, notifier notify.Notifier, operators []models.ActorID, clock clockwork.Clock) *Services {
	// Wire up dependency injection chain
	// Tenant store → Repository layer (per transaction) → App layer → Service layer

	rosterApp := roster.NewApp(stores, clock)
	marketApp := market.NewApp(stores)
	transfersApp := transfers.NewApp(stores, notifier, clock)
	friendliesApp := friendlies.NewApp(stores, notifier, clock)
	screenshotsApp := screenshots.NewApp(stores, clock)
	tenantsApp := tenants.NewApp(registry, stores, operators, clock)

	return &Services{
		Roster:      roster.NewService(rosterApp),
		Market:      market.NewService(marketApp),
		Transfers:   transfers.NewService(transfersApp),
		Friendlies:  friendlies.NewService(friendliesApp),
		Screenshots: screenshots.NewService(screenshotsApp),
		Tenants:     tenants.NewService(tenantsApp),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	services.Roster.Register(mux)
	services.Market.Register(mux)
	services.Transfers.Register(mux)
	services.Friendlies.Register(mux)
	services.Screenshots.Register(mux)
	services.Tenants.Register(mux)
}
