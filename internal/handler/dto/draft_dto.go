package dto

import (
	"time"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	"github.com/yourusername/quizsetup-api/internal/service/sessionconfig"
)

// DraftView is the full client-facing representation of one draft: the
// stored settings plus everything derived from them (bounds, visibility
// flags, the custom-selection total) and the best-effort category snapshot.
type DraftView struct {
	ID         string                `json:"id"`
	CategoryID string                `json:"category_id"`
	Category   *entity.Category      `json:"category,omitempty"`
	Settings   entity.QuizSettings   `json:"settings"`
	Stats      *entity.QuestionStats `json:"stats,omitempty"`
	Bounds     sessionconfig.Bounds  `json:"bounds"`
	Flags      sessionconfig.Flags   `json:"flags"`
	History    []HistoryEntry        `json:"history"`
	Chapters   []string              `json:"chapters"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// HistoryEntry is a past session in the client-facing shape.
type HistoryEntry struct {
	ID             string              `json:"id"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	StartedAt      time.Time           `json:"started_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	Settings       entity.QuizSettings `json:"settings"`
}

// NewDraftView builds the view for a draft, recomputing every derived value.
func NewDraftView(draft *entity.Draft) *DraftView {
	if draft == nil {
		return nil
	}

	history := make([]HistoryEntry, len(draft.History))
	for i, h := range draft.History {
		history[i] = NewHistoryEntry(h)
	}

	chapters := draft.Chapters
	if chapters == nil {
		chapters = []string{}
	}

	return &DraftView{
		ID:         draft.ID,
		CategoryID: draft.CategoryID,
		Category:   draft.Category,
		Settings:   draft.Settings,
		Stats:      draft.Stats,
		Bounds:     sessionconfig.BoundsFor(draft.Stats),
		Flags:      sessionconfig.DeriveFlags(draft.Settings, draft.Stats, draft.Chapters),
		History:    history,
		Chapters:   chapters,
		CreatedAt:  draft.CreatedAt,
		UpdatedAt:  draft.UpdatedAt,
	}
}

// NewHistoryEntry builds the client-facing shape of one history record.
func NewHistoryEntry(h entity.QuizHistoryEntry) HistoryEntry {
	return HistoryEntry{
		ID:             h.ID,
		Score:          h.Score,
		TotalQuestions: h.TotalQuestions,
		StartedAt:      h.StartedAt,
		CompletedAt:    h.CompletedAt,
		Settings:       h.Settings,
	}
}
