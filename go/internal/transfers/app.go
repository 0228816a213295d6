package transfers

import (
	"context"
	"fmt"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/market"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/notify"
	"github.com/GonzaloH5/league-bot/go/internal/roster"
	"github.com/GonzaloH5/league-bot/go/internal/tenantstore"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// StoreProvider resolves the store of a tenant
type StoreProvider interface {
	Get(ctx context.Context, tenant models.TenantID) (*tenantstore.Store, error)
}

// App handles the transfer ledger: offers, clause purchases, balances and contract decay
type App struct {
	stores   StoreProvider
	notifier notify.Notifier
	clock    clockwork.Clock
}

// NewApp creates a new transfers App
func NewApp(stores StoreProvider, notifier notify.Notifier, clock clockwork.Clock) *App {
	return &App{
		stores:   stores,
		notifier: notifier,
		clock:    clock,
	}
}

// tx bundles the repositories bound to one tenant transaction
type tx struct {
	q      *tenantstore.Queries
	roster *roster.Repository
	ledger *Repository
}

func (a *App) run(ctx context.Context, tenant models.TenantID, fn func(t *tx) error) error {
	store, err := a.stores.Get(ctx, tenant)
	if err != nil {
		return err
	}
	return store.Run(ctx, func(q *tenantstore.Queries) error {
		return fn(&tx{q: q, roster: roster.NewRepository(q), ledger: NewRepository(q)})
	})
}

func (a *App) notify(ctx context.Context, tenant models.TenantID, kind notify.Kind, message string, data map[string]string, recipients ...models.ActorID) {
	notify.Send(ctx, a.notifier, notify.Notification{
		TenantID:   tenant,
		Kind:       kind,
		Recipients: recipients,
		Message:    message,
		Data:       data,
		CreatedAt:  a.clock.Now().UTC(),
	})
}

func sameTeam(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// managedTeam returns the team actor manages, failing with ErrNotManager
func (t *tx) managedTeam(ctx context.Context, actor models.Actor) (*models.Team, error) {
	team, err := t.roster.FindTeamByManager(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, leagueerr.ErrNotManager
	}
	return team, nil
}

// CreateOffer records a pending contract proposal from the actor's team to a player
func (a *App) CreateOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, req CreateOfferRequest) (*models.TransferOffer, error) {
	var (
		offer *models.TransferOffer
		team  *models.Team
	)
	err := a.run(ctx, tenant, func(t *tx) error {
		if err := market.RequireOpen(ctx, t.q); err != nil {
			return err
		}
		var err error
		team, err = t.managedTeam(ctx, actor)
		if err != nil {
			return err
		}
		if req.Price <= 0 || req.ContractDuration <= 0 || req.ReleaseClause <= 0 {
			return leagueerr.ErrInvalidAmount.WithMessage("price, duration and clause must be greater than 0")
		}
		player, err := t.roster.GetPlayer(ctx, req.PlayerID)
		if err != nil {
			return err
		}
		if player.Banned {
			return leagueerr.ErrPlayerBanned
		}
		if player.PlaysFor(team.ID) {
			return leagueerr.ErrSameTeam.WithMessage("%s already plays for %s", player.Name, team.Name)
		}
		open, err := t.ledger.HasOpenOffer(ctx, actor.ID, player.ActorID)
		if err != nil {
			return err
		}
		if open {
			return leagueerr.ErrDuplicateOffer
		}

		duration, clause := req.ContractDuration, req.ReleaseClause
		teamID := team.ID
		offer, err = t.ledger.CreateOffer(ctx, &models.TransferOffer{
			ID:               uuid.New(),
			Kind:             models.OfferKindContract,
			PlayerID:         player.ActorID,
			FromTeamID:       player.TeamID,
			ToTeamID:         &teamID,
			ManagerID:        actor.ID,
			Price:            req.Price,
			ContractDuration: &duration,
			ReleaseClause:    &clause,
			Status:           models.OfferStatusPending,
			CreatedAt:        a.clock.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("offer_id", offer.ID.String()).
		Str("player_id", string(offer.PlayerID)).
		Str("team_id", team.ID.String()).
		Int64("price", offer.Price).
		Msg("Created transfer offer")

	a.notify(ctx, tenant, notify.KindOfferCreated,
		fmt.Sprintf("%s offers you a %d month contract with a %d release clause", team.Name, req.ContractDuration, req.ReleaseClause),
		offerData(offer), offer.PlayerID)
	return offer, nil
}

// PayClause pays a player's release clause on behalf of the actor's team.
// Funds are only checked here; the debit happens when the player accepts.
func (a *App) PayClause(ctx context.Context, tenant models.TenantID, actor models.Actor, req PayClauseRequest) (*models.TransferOffer, error) {
	var (
		offer *models.TransferOffer
		team  *models.Team
	)
	err := a.run(ctx, tenant, func(t *tx) error {
		if err := market.RequireOpen(ctx, t.q); err != nil {
			return err
		}
		var err error
		team, err = t.managedTeam(ctx, actor)
		if err != nil {
			return err
		}
		if req.ContractDuration <= 0 || req.NewClause <= 0 {
			return leagueerr.ErrInvalidAmount.WithMessage("duration and new clause must be greater than 0")
		}
		player, err := t.roster.GetPlayer(ctx, req.PlayerID)
		if err != nil {
			return err
		}
		if player.Banned {
			return leagueerr.ErrPlayerBanned
		}
		if !player.HasClause() {
			return leagueerr.ErrNoClause
		}
		if player.PlaysFor(team.ID) {
			return leagueerr.ErrSameTeam.WithMessage("%s already plays for %s", player.Name, team.Name)
		}
		price := *player.ReleaseClause
		balance, err := t.ledger.Balance(ctx, team.ID)
		if err != nil {
			return err
		}
		if balance < price {
			return leagueerr.ErrInsufficientFunds.WithMessage("%s has %d, the clause costs %d", team.Name, balance, price)
		}
		open, err := t.ledger.HasOpenOffer(ctx, actor.ID, player.ActorID)
		if err != nil {
			return err
		}
		if open {
			return leagueerr.ErrDuplicateOffer
		}

		duration, clause := req.ContractDuration, req.NewClause
		teamID := team.ID
		offer, err = t.ledger.CreateOffer(ctx, &models.TransferOffer{
			ID:               uuid.New(),
			Kind:             models.OfferKindClause,
			PlayerID:         player.ActorID,
			FromTeamID:       player.TeamID,
			ToTeamID:         &teamID,
			ManagerID:        actor.ID,
			Price:            price,
			ContractDuration: &duration,
			ReleaseClause:    &clause,
			Status:           models.OfferStatusBoughtClause,
			CreatedAt:        a.clock.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("offer_id", offer.ID.String()).
		Str("player_id", string(offer.PlayerID)).
		Str("team_id", team.ID.String()).
		Int64("price", offer.Price).
		Msg("Release clause paid")

	a.notify(ctx, tenant, notify.KindClausePaid,
		fmt.Sprintf("%s paid your %d release clause and offers a %d month contract", team.Name, offer.Price, req.ContractDuration),
		offerData(offer), offer.PlayerID)
	return offer, nil
}

// AcceptOffer lets the target player accept an open offer.
// A clause offer moves the funds and the player in the same transaction.
func (a *App) AcceptOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, offerID uuid.UUID) (*AcceptResult, error) {
	var (
		result *AcceptResult
		dest   *models.Team
		source *uuid.UUID
	)
	err := a.run(ctx, tenant, func(t *tx) error {
		offer, err := t.ledger.GetOffer(ctx, offerID)
		if err != nil {
			return err
		}
		if !offer.Status.IsOpen() {
			return leagueerr.ErrInvalidState.WithMessage("offer is %s", offer.Status)
		}
		if offer.PlayerID != actor.ID {
			return leagueerr.ErrNotTargetPlayer
		}
		player, err := t.roster.GetPlayer(ctx, offer.PlayerID)
		if err != nil {
			return err
		}
		if player.Banned {
			return leagueerr.ErrPlayerBanned
		}
		if err := market.RequireOpen(ctx, t.q); err != nil {
			return err
		}
		if offer.ToTeamID == nil {
			return leagueerr.ErrTeamNotFound
		}
		dest, err = t.roster.GetTeam(ctx, *offer.ToTeamID)
		if err != nil {
			return err
		}

		if player.PlaysFor(dest.ID) {
			return leagueerr.ErrSameTeam.WithMessage("%s already plays for %s", player.Name, dest.Name)
		}

		status := models.OfferStatusAccepted
		if offer.Kind == models.OfferKindClause {
			// the clause paid must still be the current owner's clause
			if !sameTeam(player.TeamID, offer.FromTeamID) || !player.HasClause() || *player.ReleaseClause != offer.Price {
				return leagueerr.ErrInvalidState.WithMessage("clause changed since purchase")
			}
			source = player.TeamID
			if _, err := t.ledger.Debit(ctx, dest.ID, offer.Price); err != nil {
				return err
			}
			if source != nil {
				if _, err := t.ledger.Credit(ctx, *source, offer.Price); err != nil {
					return err
				}
			}
			status = models.OfferStatusFinalized
		}

		player.SignWith(dest.ID, offer.ContractDuration, offer.ReleaseClause)
		if err := t.roster.SaveContract(ctx, player); err != nil {
			return err
		}
		if err := t.ledger.CloseOffer(ctx, offer, status, a.clock.Now().UnixMilli()); err != nil {
			return err
		}
		result = &AcceptResult{Offer: offer, Player: player}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := log.Info().
		Str("tenant_id", string(tenant)).
		Str("offer_id", offerID.String()).
		Str("player_id", string(result.Player.ActorID)).
		Str("team_id", dest.ID.String()).
		Str("status", string(result.Offer.Status))
	if result.Offer.Kind == models.OfferKindClause {
		event = event.Int64("price", result.Offer.Price)
		if source != nil {
			event = event.Str("source_team_id", source.String())
		}
	}
	event.Msg("Accepted transfer offer")

	a.notify(ctx, tenant, notify.KindOfferAccepted,
		fmt.Sprintf("%s accepted your offer and joins %s", result.Player.Name, dest.Name),
		offerData(result.Offer), result.Offer.ManagerID)
	return result, nil
}

// RejectOffer lets the target player reject an open offer
func (a *App) RejectOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, offerID uuid.UUID) (*models.TransferOffer, error) {
	var offer *models.TransferOffer
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		offer, err = t.ledger.GetOffer(ctx, offerID)
		if err != nil {
			return err
		}
		if !offer.Status.IsOpen() {
			return leagueerr.ErrInvalidState.WithMessage("offer is %s", offer.Status)
		}
		if offer.PlayerID != actor.ID {
			return leagueerr.ErrNotTargetPlayer
		}
		player, err := t.roster.GetPlayer(ctx, offer.PlayerID)
		if err != nil {
			return err
		}
		if player.Banned {
			return leagueerr.ErrPlayerBanned
		}
		return t.ledger.CloseOffer(ctx, offer, models.OfferStatusRejected, a.clock.Now().UnixMilli())
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("offer_id", offerID.String()).
		Str("player_id", string(offer.PlayerID)).
		Msg("Rejected transfer offer")

	a.notify(ctx, tenant, notify.KindOfferRejected,
		fmt.Sprintf("%s rejected your offer", offer.PlayerID),
		offerData(offer), offer.ManagerID)
	return offer, nil
}

// CancelOffer lets the proposing manager withdraw an open offer
func (a *App) CancelOffer(ctx context.Context, tenant models.TenantID, actor models.Actor, offerID uuid.UUID) (*models.TransferOffer, error) {
	var offer *models.TransferOffer
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		offer, err = t.ledger.GetOffer(ctx, offerID)
		if err != nil {
			return err
		}
		if offer.ManagerID != actor.ID {
			return leagueerr.ErrUnauthorized.WithMessage("only the manager who made the offer can cancel it")
		}
		if !offer.Status.IsOpen() {
			return leagueerr.ErrInvalidState.WithMessage("offer is %s", offer.Status)
		}
		return t.ledger.CloseOffer(ctx, offer, models.OfferStatusCancelled, a.clock.Now().UnixMilli())
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Str("offer_id", offerID.String()).
		Str("manager_id", string(offer.ManagerID)).
		Msg("Cancelled transfer offer")

	a.notify(ctx, tenant, notify.KindOfferCancelled,
		"an offer you received was withdrawn",
		offerData(offer), offer.PlayerID)
	return offer, nil
}

// AdvanceSeason decrements every running contract and releases the players whose contract ended
func (a *App) AdvanceSeason(ctx context.Context, tenant models.TenantID, actor models.Actor) (*SeasonResult, error) {
	if err := roster.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var result *SeasonResult
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		result, err = t.ledger.AdvanceContracts(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", string(tenant)).
		Int("decremented", result.Decremented).
		Int("released", len(result.Released)).
		Msg("Advanced season")

	if len(result.Released) > 0 {
		recipients := make([]models.ActorID, len(result.Released))
		for i, p := range result.Released {
			recipients[i] = p.ActorID
		}
		a.notify(ctx, tenant, notify.KindContractExpired, "your contract ended and you are now a free agent", nil, recipients...)
	}
	return result, nil
}

// ListPlayer puts a player on the market, optionally with a new clause while listed
func (a *App) ListPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID, newClause *int64) (*models.Player, error) {
	if newClause != nil && *newClause <= 0 {
		return nil, leagueerr.ErrInvalidAmount
	}

	var player *models.Player
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		player, err = t.roster.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if err := t.roster.RequirePlayerAuthority(ctx, actor, player); err != nil {
			return err
		}
		if player.Banned {
			return leagueerr.ErrPlayerBanned
		}
		if player.Transferable {
			return leagueerr.ErrAlreadyListed
		}
		player.ListOnMarket(newClause)
		return t.roster.SaveContract(ctx, player)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("tenant_id", string(tenant)).Str("player_id", string(playerID)).Msg("Listed player on the market")
	return player, nil
}

// UnlistPlayer takes a player off the market and restores the pre-listing clause
func (a *App) UnlistPlayer(ctx context.Context, tenant models.TenantID, actor models.Actor, playerID models.ActorID) (*models.Player, error) {
	var player *models.Player
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		player, err = t.roster.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if err := t.roster.RequirePlayerAuthority(ctx, actor, player); err != nil {
			return err
		}
		if !player.Transferable {
			return leagueerr.ErrNotListed
		}
		player.Unlist()
		return t.roster.SaveContract(ctx, player)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("tenant_id", string(tenant)).Str("player_id", string(playerID)).Msg("Removed player from the market")
	return player, nil
}

func offerData(offer *models.TransferOffer) map[string]string {
	data := map[string]string{
		"offer_id":  offer.ID.String(),
		"player_id": string(offer.PlayerID),
		"status":    string(offer.Status),
		"price":     fmt.Sprintf("%d", offer.Price),
	}
	if offer.ToTeamID != nil {
		data["to_team_id"] = offer.ToTeamID.String()
	}
	if offer.FromTeamID != nil {
		data["from_team_id"] = offer.FromTeamID.String()
	}
	return data
}

// Balance returns the balance of a team
func (a *App) Balance(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) (*models.ClubBalance, error) {
	var balance int64
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		balance, err = t.ledger.Balance(ctx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &models.ClubBalance{TeamID: teamID, Balance: balance}, nil
}

// AddFunds credits a team's balance
func (a *App) AddFunds(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, amount int64) (*models.ClubBalance, error) {
	return a.adjustFunds(ctx, tenant, actor, teamID, amount, false)
}

// RemoveFunds debits a team's balance, never below zero
func (a *App) RemoveFunds(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, amount int64) (*models.ClubBalance, error) {
	return a.adjustFunds(ctx, tenant, actor, teamID, amount, true)
}

func (a *App) adjustFunds(ctx context.Context, tenant models.TenantID, actor models.Actor, teamID uuid.UUID, amount int64, debit bool) (*models.ClubBalance, error) {
	if err := roster.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, leagueerr.ErrInvalidAmount.WithMessage("amount must be greater than 0")
	}

	var balance int64
	err := a.run(ctx, tenant, func(t *tx) error {
		if _, err := t.roster.GetTeam(ctx, teamID); err != nil {
			return err
		}
		var err error
		if debit {
			balance, err = t.ledger.Debit(ctx, teamID, amount)
		} else {
			balance, err = t.ledger.Credit(ctx, teamID, amount)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	delta := amount
	if debit {
		delta = -amount
	}
	log.Info().
		Str("tenant_id", string(tenant)).
		Str("team_id", teamID.String()).
		Int64("delta", delta).
		Int64("balance", balance).
		Msg("Adjusted club balance")
	return &models.ClubBalance{TeamID: teamID, Balance: balance}, nil
}

// GetOffer retrieves an offer by ID
func (a *App) GetOffer(ctx context.Context, tenant models.TenantID, offerID uuid.UUID) (*models.TransferOffer, error) {
	var offer *models.TransferOffer
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		offer, err = t.ledger.GetOffer(ctx, offerID)
		return err
	})
	return offer, err
}

// OpenOffersByManager lists the open offers a manager made
func (a *App) OpenOffersByManager(ctx context.Context, tenant models.TenantID, manager models.ActorID) ([]models.TransferOffer, error) {
	var offers []models.TransferOffer
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		offers, err = t.ledger.OpenOffersByManager(ctx, manager)
		return err
	})
	return offers, err
}

// OpenOffersForPlayer lists the open offers addressed to a player
func (a *App) OpenOffersForPlayer(ctx context.Context, tenant models.TenantID, player models.ActorID) ([]models.TransferOffer, error) {
	var offers []models.TransferOffer
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		offers, err = t.ledger.OpenOffersForPlayer(ctx, player)
		return err
	})
	return offers, err
}

// PlayerHistory lists the transfer history of a player
func (a *App) PlayerHistory(ctx context.Context, tenant models.TenantID, player models.ActorID) ([]models.TransferRecord, error) {
	var records []models.TransferRecord
	err := a.run(ctx, tenant, func(t *tx) error {
		if _, err := t.roster.GetPlayer(ctx, player); err != nil {
			return err
		}
		var err error
		records, err = t.ledger.PlayerHistory(ctx, player)
		return err
	})
	return records, err
}

// TeamHistory lists the transfer history of a team
func (a *App) TeamHistory(ctx context.Context, tenant models.TenantID, teamID uuid.UUID) ([]models.TransferRecord, error) {
	var records []models.TransferRecord
	err := a.run(ctx, tenant, func(t *tx) error {
		if _, err := t.roster.GetTeam(ctx, teamID); err != nil {
			return err
		}
		var err error
		records, err = t.ledger.TeamHistory(ctx, teamID)
		return err
	})
	return records, err
}

// RecentTransfers lists the latest transfers, limit must be in 1..MaxRecentTransfers
func (a *App) RecentTransfers(ctx context.Context, tenant models.TenantID, limit int) ([]models.TransferRecord, error) {
	if limit < 1 || limit > MaxRecentTransfers {
		return nil, leagueerr.ErrInvalidLimit.WithMessage("limit must be between 1 and %d", MaxRecentTransfers)
	}
	var records []models.TransferRecord
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		records, err = t.ledger.RecentTransfers(ctx, limit)
		return err
	})
	return records, err
}

// ListTransferable lists the players on the market
func (a *App) ListTransferable(ctx context.Context, tenant models.TenantID) ([]models.Player, error) {
	var players []models.Player
	err := a.run(ctx, tenant, func(t *tx) error {
		var err error
		players, err = t.roster.ListTransferable(ctx)
		return err
	})
	return players, err
}
