package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/GonzaloH5/league-bot/go/internal/leagueerr"
	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/GonzaloH5/league-bot/go/internal/roster"
	"github.com/GonzaloH5/league-bot/go/internal/rpc"
	"github.com/GonzaloH5/league-bot/go/internal/transfers"
	"gopkg.in/yaml.v3"
)

// Fixture mirrors the YAML seed file
type Fixture struct {
	Tenant  models.TenantID `yaml:"tenant"`
	Admin   models.ActorID  `yaml:"admin"`
	Teams   []TeamSeed      `yaml:"teams"`
	Players []PlayerSeed    `yaml:"players"`
}

type TeamSeed struct {
	Name     string           `yaml:"name"`
	Division string           `yaml:"division"`
	Manager  models.ActorID   `yaml:"manager"`
	Captains []models.ActorID `yaml:"captains"`
	Funds    int64            `yaml:"funds"`
}

type PlayerSeed struct {
	ActorID models.ActorID `yaml:"actor_id"`
	Name    string         `yaml:"name"`
}

type clients struct {
	createTeam     func(context.Context, *roster.CreateTeamMessage) (*roster.TeamResponse, error)
	addCaptain     func(context.Context, *roster.TeamActorMessage) (*rpc.Empty, error)
	registerPlayer func(context.Context, *roster.RegisterPlayerMessage) (*roster.PlayerResponse, error)
	addFunds       func(context.Context, *transfers.FundsMessage) (*transfers.BalanceResponse, error)
}

func newClients(baseURL string) clients {
	createTeam := rpc.NewClient[roster.CreateTeamMessage, roster.TeamResponse](http.DefaultClient, baseURL, rpc.Procedure("RosterService", "CreateTeam"))
	addCaptain := rpc.NewClient[roster.TeamActorMessage, rpc.Empty](http.DefaultClient, baseURL, rpc.Procedure("RosterService", "AddCaptain"))
	registerPlayer := rpc.NewClient[roster.RegisterPlayerMessage, roster.PlayerResponse](http.DefaultClient, baseURL, rpc.Procedure("RosterService", "RegisterPlayer"))
	addFunds := rpc.NewClient[transfers.FundsMessage, transfers.BalanceResponse](http.DefaultClient, baseURL, rpc.Procedure("TransferService", "AddFunds"))

	return clients{
		createTeam: func(ctx context.Context, m *roster.CreateTeamMessage) (*roster.TeamResponse, error) {
			return rpc.Call(ctx, createTeam, m)
		},
		addCaptain: func(ctx context.Context, m *roster.TeamActorMessage) (*rpc.Empty, error) {
			return rpc.Call(ctx, addCaptain, m)
		},
		registerPlayer: func(ctx context.Context, m *roster.RegisterPlayerMessage) (*roster.PlayerResponse, error) {
			return rpc.Call(ctx, registerPlayer, m)
		},
		addFunds: func(ctx context.Context, m *transfers.FundsMessage) (*transfers.BalanceResponse, error) {
			return rpc.Call(ctx, addFunds, m)
		},
	}
}

func main() {
	path := flag.String("file", "go/internal/assets/league.yaml", "seed fixture")
	baseURL := flag.String("url", "http://localhost:8080", "league engine base url")
	flag.Parse()

	// 1) Load the YAML fixture
	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read fixture: %v\n", err)
		os.Exit(1)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal fixture: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	c := newClients(*baseURL)
	caller := rpc.Caller{TenantID: fixture.Tenant, ActorID: fixture.Admin, Admin: true}

	var (
		created int
		skipped int
		errs    int
	)

	// 2) Teams, captains and opening balances
	for _, t := range fixture.Teams {
		req := &roster.CreateTeamMessage{
			Caller:            caller,
			CreateTeamRequest: roster.CreateTeamRequest{Name: t.Name, Division: t.Division},
		}
		if t.Manager != "" {
			manager := t.Manager
			req.ManagerID = &manager
		}
		res, err := c.createTeam(ctx, req)
		if err != nil {
			if rpc.ErrorCode(err) == leagueerr.ErrTeamExists.Code {
				skipped++
				continue
			}
			fmt.Fprintf(os.Stderr, "error creating team %s: %v\n", t.Name, err)
			errs++
			continue
		}
		created++

		for _, captain := range t.Captains {
			if _, err := c.addCaptain(ctx, &roster.TeamActorMessage{Caller: caller, TeamID: res.Team.ID, ActorID: captain}); err != nil {
				fmt.Fprintf(os.Stderr, "error adding captain %s to %s: %v\n", captain, t.Name, err)
				errs++
			}
		}
		if t.Funds > 0 {
			if _, err := c.addFunds(ctx, &transfers.FundsMessage{Caller: caller, TeamID: res.Team.ID, Amount: t.Funds}); err != nil {
				fmt.Fprintf(os.Stderr, "error funding %s: %v\n", t.Name, err)
				errs++
			}
		}
	}

	// 3) Free agents
	for _, p := range fixture.Players {
		_, err := c.registerPlayer(ctx, &roster.RegisterPlayerMessage{
			Caller:                caller,
			RegisterPlayerRequest: roster.RegisterPlayerRequest{ActorID: p.ActorID, Name: p.Name},
		})
		if err != nil {
			if rpc.ErrorCode(err) == leagueerr.ErrAlreadyRegistered.Code {
				skipped++
				continue
			}
			fmt.Fprintf(os.Stderr, "error registering player %s: %v\n", p.ActorID, err)
			errs++
			continue
		}
		created++
	}

	// 4) Print summary
	fmt.Printf(
		"League seed complete: %d teams, %d players, %d created, %d skipped, %d errors\n",
		len(fixture.Teams), len(fixture.Players), created, skipped, errs,
	)
}
