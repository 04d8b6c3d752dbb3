package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/pitchnight/arena/go/internal/auth"
	"github.com/pitchnight/arena/go/internal/control"
	"github.com/pitchnight/arena/go/internal/hub"
	"github.com/pitchnight/arena/go/internal/live"
	"github.com/pitchnight/arena/go/internal/phaseclock"
	"github.com/pitchnight/arena/go/internal/quiz"
	"github.com/pitchnight/arena/go/internal/ratings"
	"github.com/pitchnight/arena/go/internal/scoreboard"
	"github.com/pitchnight/arena/go/internal/teams"
	"github.com/pitchnight/arena/go/internal/votes"
)

// Round bundles one round type's live machinery.
type Round struct {
	Hub     *hub.Hub
	Clock   *phaseclock.Clock
	Control *control.Handler
	SSE     *live.SSEHandler
	WS      *live.WebSocketHandler
}

type Services struct {
	Voting *Round
	Final  *Round

	Teams      *teams.Handler
	Quiz       *quiz.Handler
	Votes      *votes.Handler
	Ratings    *ratings.Handler
	Scoreboard *scoreboard.Handler
}

func newRound(cfg phaseclock.RoundConfig, clk clockwork.Clock, lookup control.TeamLookup, authz auth.Authorizer) *Round {
	h := hub.New(cfg.Round)
	clock := phaseclock.New(cfg, clk, h)
	return &Round{
		Hub:     h,
		Clock:   clock,
		Control: control.NewHandler(clock, lookup, authz),
		SSE:     live.NewSSEHandler(h, clock.Snapshot),
		WS:      live.NewWebSocketHandler(h, clock.Snapshot, live.DefaultConnConfig()),
	}
}

func setupServices(pool *pgxpool.Pool, config *Config) *Services {
	authz := auth.NewJWTAuthorizer(getEnv("ADMIN_JWT_SECRET", "dev-secret-change-me"))
	clk := clockwork.NewRealClock()

	teamsRepo := teams.NewRepository(pool)
	teamsService := teams.NewService(teamsRepo)

	voting := newRound(applyDurations(phaseclock.VotingConfig(), config.Rounds.Voting), clk, teamsService, authz)
	final := newRound(applyDurations(phaseclock.FinalConfig(), config.Rounds.Final), clk, teamsService, authz)

	quizRepo := quiz.NewRepository(pool)
	quizService := quiz.NewService(quizRepo)

	votesRepo := votes.NewRepository(pool)
	votesService := votes.NewService(votesRepo, voting.Clock)

	ratingsRepo := ratings.NewRepository(pool)
	ratingsService := ratings.NewService(ratingsRepo, final.Clock)

	boardService := scoreboard.NewService(teamsService, quizService, votesService, ratingsService)

	return &Services{
		Voting:     voting,
		Final:      final,
		Teams:      teams.NewHandler(teamsService, authz),
		Quiz:       quiz.NewHandler(quizService),
		Votes:      votes.NewHandler(votesService),
		Ratings:    ratings.NewHandler(ratingsService),
		Scoreboard: scoreboard.NewHandler(boardService),
	}
}
