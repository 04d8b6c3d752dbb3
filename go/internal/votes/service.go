package votes

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pitchnight/arena/go/internal/models"
)

// ErrVotingClosed is returned when a vote arrives outside the voting phase.
var ErrVotingClosed = errors.New("voting is not open")

// Gate reports whether audience input is currently accepted. The voting
// round's phase clock satisfies it.
type Gate interface {
	InteractionActive() bool
}

// VoteRepo defines what the service layer needs from the repository
type VoteRepo interface {
	UpsertVote(ctx context.Context, vote *models.Vote) error
	Tally(ctx context.Context, teamID int64) (*models.VoteTally, error)
}

// Service accepts audience votes while the voting phase is live.
type Service struct {
	repo VoteRepo
	gate Gate
}

// NewService creates a new votes service
func NewService(repo VoteRepo, gate Gate) *Service {
	return &Service{repo: repo, gate: gate}
}

// Submit records a vote, rejecting it unless the voting phase is live.
func (s *Service) Submit(ctx context.Context, teamID int64, voterID string, value int) (*models.Vote, error) {
	if !s.gate.InteractionActive() {
		return nil, ErrVotingClosed
	}
	vote := &models.Vote{
		ID:      uuid.New(),
		TeamID:  teamID,
		VoterID: voterID,
		Value:   value,
	}
	if err := s.repo.UpsertVote(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// Tally returns the aggregated vote result for a team.
func (s *Service) Tally(ctx context.Context, teamID int64) (*models.VoteTally, error) {
	return s.repo.Tally(ctx, teamID)
}
