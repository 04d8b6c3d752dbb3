package scoreboard

import (
	"context"
	"fmt"

	"github.com/pitchnight/arena/go/internal/models"
)

// Weights for combining the three score sources into a total.
const (
	voteWeight   = 1.0
	ratingWeight = 10.0
)

// TeamLister lists all registered teams.
type TeamLister interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// TokenSource returns a team's quiz token balance.
type TokenSource interface {
	TokensForTeam(ctx context.Context, teamID int64) (int, error)
}

// VoteSource returns a team's vote tally.
type VoteSource interface {
	Tally(ctx context.Context, teamID int64) (*models.VoteTally, error)
}

// RatingSource returns a team's rating average.
type RatingSource interface {
	Average(ctx context.Context, teamID int64) (*models.RatingAverage, error)
}

// Service builds the live scoreboard by aggregating the stored quiz, vote and
// rating results per team. Pure reads; no timing involvement.
type Service struct {
	teams   TeamLister
	tokens  TokenSource
	votes   VoteSource
	ratings RatingSource
}

func NewService(teams TeamLister, tokens TokenSource, votes VoteSource, ratings RatingSource) *Service {
	return &Service{teams: teams, tokens: tokens, votes: votes, ratings: ratings}
}

// Board returns one row per team, ordered as the teams are listed.
func (s *Service) Board(ctx context.Context) ([]models.ScoreRow, error) {
	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for scoreboard: %w", err)
	}

	rows := make([]models.ScoreRow, 0, len(teams))
	for _, team := range teams {
		tokens, err := s.tokens.TokensForTeam(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		tally, err := s.votes.Tally(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		avg, err := s.ratings.Average(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.ScoreRow{
			Team:          team.Ref(),
			QuizTokens:    tokens,
			VoteCount:     tally.Count,
			VoteTotal:     tally.Total,
			RatingAverage: avg.Average,
			TotalScore:    Total(tokens, tally.Total, avg.Average),
		})
	}
	return rows, nil
}

// Total combines tokens, vote total and rating average into one score.
func Total(tokens, voteTotal int, ratingAvg float64) float64 {
	return float64(tokens) + voteWeight*float64(voteTotal) + ratingWeight*ratingAvg
}
