package ratings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchnight/arena/go/internal/models"
)

// Repository implements rating data access over Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new ratings repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertRating stores a judge's rating for a team, replacing an earlier one
// from the same judge.
func (r *Repository) UpsertRating(ctx context.Context, rating *models.Rating) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ratings (id, team_id, judge_id, score)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (team_id, judge_id) DO UPDATE
		 SET score = EXCLUDED.score, created_at = now()
		 RETURNING created_at`,
		rating.ID, rating.TeamID, rating.JudgeID, rating.Score,
	).Scan(&rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// Average aggregates the ratings for one team
func (r *Repository) Average(ctx context.Context, teamID int64) (*models.RatingAverage, error) {
	avg := &models.RatingAverage{TeamID: teamID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0) FROM ratings WHERE team_id = $1`,
		teamID,
	).Scan(&avg.Count, &avg.Average)
	if err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}
	return avg, nil
}
