package entity

import "time"

// Draft is one in-progress quiz configuration. It is created when a user
// opens the configuration page for a category, mutated field-by-field, and
// consumed exactly once on successful submission. Category, Stats, History
// and Chapters are the best-effort snapshot fetched at creation time; Stats
// is nil when the stats fetch failed, which disables submission.
type Draft struct {
	ID         string             `json:"id"`
	SessionID  string             `json:"session_id"`
	CategoryID string             `json:"category_id"`
	Generation uint64             `json:"generation"`
	Settings   QuizSettings       `json:"settings"`
	Category   *Category          `json:"category,omitempty"`
	Stats      *QuestionStats     `json:"stats,omitempty"`
	History    []QuizHistoryEntry `json:"history"`
	Chapters   []string           `json:"chapters"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// OwnedBy reports whether the draft belongs to the given session subject.
func (d *Draft) OwnedBy(subject string) bool {
	return d.SessionID == subject
}
