package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchnight/arena/go/internal/models"
)

type fakeRepo struct {
	questions map[int64]*models.Question
	recorded  []*models.QuizResult
	tokens    map[int64]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		questions: make(map[int64]*models.Question),
		tokens:    make(map[int64]int),
	}
}

func (f *fakeRepo) ListQuestions(ctx context.Context, round int) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.questions {
		if q.Round == round {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeRepo) RecordResult(ctx context.Context, res *models.QuizResult) error {
	f.recorded = append(f.recorded, res)
	if res.Correct {
		f.tokens[res.TeamID] += res.TokensAwarded
	}
	return nil
}

func (f *fakeRepo) TokensForTeam(ctx context.Context, teamID int64) (int, error) {
	return f.tokens[teamID], nil
}

func TestGrade(t *testing.T) {
	assert.True(t, Grade("Runway", "runway"))
	assert.True(t, Grade("  runway  ", "Runway"))
	assert.False(t, Grade("run way", "runway"))
	assert.False(t, Grade("", "runway"))
}

func TestSubmitAnswerCorrectAwardsTokens(t *testing.T) {
	repo := newFakeRepo()
	repo.questions[1] = &models.Question{ID: 1, Round: 1, Text: "What burns first?", Answer: "runway", Tokens: 50}
	svc := NewService(repo)

	res, err := svc.SubmitAnswer(context.Background(), 7, 1, " Runway ")
	require.NoError(t, err)

	assert.True(t, res.Correct)
	assert.Equal(t, 50, res.TokensAwarded)

	tokens, err := svc.TokensForTeam(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 50, tokens)
}

func TestSubmitAnswerWrongAwardsNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.questions[1] = &models.Question{ID: 1, Round: 1, Answer: "runway", Tokens: 50}
	svc := NewService(repo)

	res, err := svc.SubmitAnswer(context.Background(), 7, 1, "burn rate")
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Zero(t, res.TokensAwarded)
	require.Len(t, repo.recorded, 1)
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.SubmitAnswer(context.Background(), 7, 99, "anything")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestListQuestionsBlanksAnswers(t *testing.T) {
	repo := newFakeRepo()
	repo.questions[1] = &models.Question{ID: 1, Round: 1, Text: "q1", Answer: "secret", Tokens: 10}
	repo.questions[2] = &models.Question{ID: 2, Round: 2, Text: "q2", Answer: "secret", Tokens: 10}
	svc := NewService(repo)

	questions, err := svc.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Empty(t, questions[0].Answer)

	// Blanking must not leak back into the stored question.
	assert.Equal(t, "secret", repo.questions[1].Answer)
}
