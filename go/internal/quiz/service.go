package quiz

import (
	"context"
	"strings"

	"github.com/pitchnight/arena/go/internal/models"
)

// QuizRepo defines what the service layer needs from the repository
type QuizRepo interface {
	ListQuestions(ctx context.Context, round int) ([]models.Question, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	RecordResult(ctx context.Context, res *models.QuizResult) error
	TokensForTeam(ctx context.Context, teamID int64) (int, error)
}

// Service grades quiz answers and awards resource tokens.
type Service struct {
	repo QuizRepo
}

// NewService creates a new quiz service
func NewService(repo QuizRepo) *Service {
	return &Service{repo: repo}
}

// ListQuestions returns one round's questions with the answers blanked, for
// serving to participants.
func (s *Service) ListQuestions(ctx context.Context, round int) ([]models.Question, error) {
	questions, err := s.repo.ListQuestions(ctx, round)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Answer = ""
	}
	return questions, nil
}

// SubmitAnswer grades one team's answer and records the token award.
func (s *Service) SubmitAnswer(ctx context.Context, teamID, questionID int64, answer string) (*models.QuizResult, error) {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	res := &models.QuizResult{
		TeamID:     teamID,
		QuestionID: questionID,
		Answer:     answer,
	}
	if Grade(answer, q.Answer) {
		res.Correct = true
		res.TokensAwarded = q.Tokens
	}

	if err := s.repo.RecordResult(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// TokensForTeam returns a team's total token balance.
func (s *Service) TokensForTeam(ctx context.Context, teamID int64) (int, error) {
	return s.repo.TokensForTeam(ctx, teamID)
}

// Grade compares a submitted answer against the expected one, ignoring case
// and surrounding whitespace.
func Grade(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}
