package teams

import (
	"context"

	"github.com/pitchnight/arena/go/internal/models"
)

// TeamRepo defines what the service layer needs from the repository
type TeamRepo interface {
	CreateTeam(ctx context.Context, name string) (*models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// Service implements team operations, including the id-to-reference lookup
// consumed by the live control endpoints.
type Service struct {
	repo TeamRepo
}

// NewService creates a new teams service
func NewService(repo TeamRepo) *Service {
	return &Service{repo: repo}
}

// CreateTeam creates a new team
func (s *Service) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	return s.repo.CreateTeam(ctx, name)
}

// GetTeam retrieves a team by ID
func (s *Service) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	return s.repo.GetTeam(ctx, id)
}

// ListTeams retrieves all teams
func (s *Service) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.repo.ListTeams(ctx)
}

// Lookup resolves a bare team id into a live-state reference.
func (s *Service) Lookup(ctx context.Context, id int64) (*models.TeamRef, error) {
	team, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := team.Ref()
	return &ref, nil
}
