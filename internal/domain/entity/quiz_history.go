package entity

import "time"

// QuizHistoryEntry is an immutable record of a past quiz session, returned
// by the backend for display only.
type QuizHistoryEntry struct {
	ID             string       `json:"id"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	StartedAt      time.Time    `json:"started_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	Settings       QuizSettings `json:"settings"`
}
