package models

import "time"

// Question represents a quiz question teams answer for resource tokens
type Question struct {
	ID        int64  `json:"id"`
	Round     int    `json:"round"`
	Text      string `json:"text"`
	Answer    string `json:"answer"`
	Tokens    int    `json:"tokens"`
	SortOrder int    `json:"sort_order"`
}

// QuizResult represents one team's answer to one question
type QuizResult struct {
	ID            int64     `json:"id"`
	TeamID        int64     `json:"team_id"`
	QuestionID    int64     `json:"question_id"`
	Answer        string    `json:"answer"`
	Correct       bool      `json:"correct"`
	TokensAwarded int       `json:"tokens_awarded"`
	AnsweredAt    time.Time `json:"answered_at"`
}
