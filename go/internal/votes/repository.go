package votes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchnight/arena/go/internal/models"
)

// Repository implements vote data access over Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new votes repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertVote stores a voter's vote for a team. A repeat vote from the same
// voter for the same team replaces the earlier one.
func (r *Repository) UpsertVote(ctx context.Context, vote *models.Vote) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO votes (id, team_id, voter_id, value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (team_id, voter_id) DO UPDATE
		 SET value = EXCLUDED.value, created_at = now()
		 RETURNING created_at`,
		vote.ID, vote.TeamID, vote.VoterID, vote.Value,
	).Scan(&vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// Tally aggregates the votes for one team
func (r *Repository) Tally(ctx context.Context, teamID int64) (*models.VoteTally, error) {
	tally := &models.VoteTally{TeamID: teamID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(value), 0) FROM votes WHERE team_id = $1`,
		teamID,
	).Scan(&tally.Count, &tally.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}
	return tally, nil
}
