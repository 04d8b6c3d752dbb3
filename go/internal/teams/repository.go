package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchnight/arena/go/internal/models"
)

// ErrNotFound is returned when a team id does not resolve.
var ErrNotFound = errors.New("team not found")

// Repository implements team data access over Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new teams repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateTeam creates a new team
func (r *Repository) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	var team models.Team
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teams (name) VALUES ($1) RETURNING id, name, created_at`,
		name,
	).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return &team, nil
}

// GetTeam retrieves a team by ID
func (r *Repository) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM teams WHERE id = $1`,
		id,
	).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// ListTeams retrieves all teams ordered by name
func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM teams ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
