package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pitchnight/arena/go/internal/models"
)

// Rating scale bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// ErrRatingClosed is returned when a rating arrives outside the rating phase.
var ErrRatingClosed = errors.New("rating is not open")

// Gate reports whether judge input is currently accepted. The final round's
// phase clock satisfies it.
type Gate interface {
	InteractionActive() bool
}

// RatingRepo defines what the service layer needs from the repository
type RatingRepo interface {
	UpsertRating(ctx context.Context, rating *models.Rating) error
	Average(ctx context.Context, teamID int64) (*models.RatingAverage, error)
}

// Service accepts judge and peer ratings while the rating phase is live.
type Service struct {
	repo RatingRepo
	gate Gate
}

// NewService creates a new ratings service
func NewService(repo RatingRepo, gate Gate) *Service {
	return &Service{repo: repo, gate: gate}
}

// Submit records a rating, rejecting it unless the rating phase is live.
func (s *Service) Submit(ctx context.Context, teamID int64, judgeID string, score int) (*models.Rating, error) {
	if !s.gate.InteractionActive() {
		return nil, ErrRatingClosed
	}
	if score < MinScore || score > MaxScore {
		return nil, fmt.Errorf("score %d out of range [%d, %d]", score, MinScore, MaxScore)
	}
	rating := &models.Rating{
		ID:      uuid.New(),
		TeamID:  teamID,
		JudgeID: judgeID,
		Score:   score,
	}
	if err := s.repo.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// Average returns the aggregated rating result for a team.
func (s *Service) Average(ctx context.Context, teamID int64) (*models.RatingAverage, error) {
	return s.repo.Average(ctx, teamID)
}
