package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchnight/arena/go/internal/models"
)

// ErrQuestionNotFound is returned when a question id does not resolve.
var ErrQuestionNotFound = errors.New("question not found")

// Repository implements quiz data access over Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new quiz repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListQuestions retrieves the questions for one quiz round in display order
func (r *Repository) ListQuestions(ctx context.Context, round int) ([]models.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, round, text, answer, tokens, sort_order
		 FROM questions WHERE round = $1 ORDER BY sort_order`,
		round,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Round, &q.Text, &q.Answer, &q.Tokens, &q.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion retrieves a question by ID
func (r *Repository) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	err := r.pool.QueryRow(ctx,
		`SELECT id, round, text, answer, tokens, sort_order FROM questions WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.Round, &q.Text, &q.Answer, &q.Tokens, &q.SortOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &q, nil
}

// RecordResult stores one team's answer. Re-answering the same question
// replaces the previous result.
func (r *Repository) RecordResult(ctx context.Context, res *models.QuizResult) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO quiz_results (team_id, question_id, answer, correct, tokens_awarded)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (team_id, question_id) DO UPDATE
		 SET answer = EXCLUDED.answer,
		     correct = EXCLUDED.correct,
		     tokens_awarded = EXCLUDED.tokens_awarded,
		     answered_at = now()
		 RETURNING id, answered_at`,
		res.TeamID, res.QuestionID, res.Answer, res.Correct, res.TokensAwarded,
	).Scan(&res.ID, &res.AnsweredAt)
	if err != nil {
		return fmt.Errorf("failed to record quiz result: %w", err)
	}
	return nil
}

// TokensForTeam sums the tokens a team earned across the quiz
func (r *Repository) TokensForTeam(ctx context.Context, teamID int64) (int, error) {
	var tokens int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(tokens_awarded), 0) FROM quiz_results WHERE team_id = $1`,
		teamID,
	).Scan(&tokens)
	if err != nil {
		return 0, fmt.Errorf("failed to sum tokens: %w", err)
	}
	return tokens, nil
}
