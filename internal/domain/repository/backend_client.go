package repository

import (
	"context"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
)

// BackendClient is the read/write boundary to the quiz backend. Each method
// returns a single canonical type regardless of which wire shape the backend
// chose — response normalization lives behind this interface.
type BackendClient interface {
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
	GetQuestionStats(ctx context.Context, categoryID string) (*entity.QuestionStats, error)
	GetQuizHistory(ctx context.Context, categoryID string) ([]entity.QuizHistoryEntry, error)
	GetChapters(ctx context.Context, categoryID string) ([]string, error)

	// CreateQuizSession submits the full settings object and returns the new
	// session identifier.
	CreateQuizSession(ctx context.Context, categoryID string, settings entity.QuizSettings) (string, error)
}
