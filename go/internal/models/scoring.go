package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one audience member's vote for a team during the voting round
type Vote struct {
	ID        uuid.UUID `json:"id"`
	TeamID    int64     `json:"team_id"`
	VoterID   string    `json:"voter_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating is one judge's or peer's rating of a team during the final round
type Rating struct {
	ID        uuid.UUID `json:"id"`
	TeamID    int64     `json:"team_id"`
	JudgeID   string    `json:"judge_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteTally is the aggregated vote result for one team
type VoteTally struct {
	TeamID int64 `json:"team_id"`
	Count  int   `json:"count"`
	Total  int   `json:"total"`
}

// RatingAverage is the aggregated rating result for one team
type RatingAverage struct {
	TeamID  int64   `json:"team_id"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// ScoreRow is one team's line on the live scoreboard
type ScoreRow struct {
	Team          TeamRef `json:"team"`
	QuizTokens    int     `json:"quiz_tokens"`
	VoteCount     int     `json:"vote_count"`
	VoteTotal     int     `json:"vote_total"`
	RatingAverage float64 `json:"rating_average"`
	TotalScore    float64 `json:"total_score"`
}
