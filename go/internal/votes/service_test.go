package votes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchnight/arena/go/internal/models"
)

type fakeRepo struct {
	votes map[string]*models.Vote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{votes: make(map[string]*models.Vote)}
}

func (f *fakeRepo) UpsertVote(ctx context.Context, vote *models.Vote) error {
	key := vote.VoterID
	f.votes[key] = vote
	return nil
}

func (f *fakeRepo) Tally(ctx context.Context, teamID int64) (*models.VoteTally, error) {
	tally := &models.VoteTally{TeamID: teamID}
	for _, v := range f.votes {
		if v.TeamID == teamID {
			tally.Count++
			tally.Total += v.Value
		}
	}
	return tally, nil
}

type fakeGate bool

func (g fakeGate) InteractionActive() bool { return bool(g) }

func TestSubmitRejectedWhenVotingClosed(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeGate(false))

	_, err := svc.Submit(context.Background(), 7, "viewer-1", 3)
	assert.ErrorIs(t, err, ErrVotingClosed)
	assert.Empty(t, repo.votes)
}

func TestSubmitStoredWhileVotingOpen(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeGate(true))

	vote, err := svc.Submit(context.Background(), 7, "viewer-1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), vote.TeamID)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", vote.ID.String())

	tally, err := svc.Tally(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Count)
	assert.Equal(t, 3, tally.Total)
}

func TestResubmitReplacesEarlierVote(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeGate(true))

	_, err := svc.Submit(context.Background(), 7, "viewer-1", 2)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), 7, "viewer-1", 5)
	require.NoError(t, err)

	tally, err := svc.Tally(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Count)
	assert.Equal(t, 5, tally.Total)
}
