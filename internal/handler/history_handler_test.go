package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
	"github.com/yourusername/quizsetup-api/internal/service"
)

// stubBackend implements repository.BackendClient; the history endpoints
// only touch GetQuizHistory.
type stubBackend struct {
	history    []entity.QuizHistoryEntry
	historyErr error
}

func (s *stubBackend) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	return nil, nil
}

func (s *stubBackend) GetQuestionStats(ctx context.Context, categoryID string) (*entity.QuestionStats, error) {
	return nil, nil
}

func (s *stubBackend) GetQuizHistory(ctx context.Context, categoryID string) ([]entity.QuizHistoryEntry, error) {
	return s.history, s.historyErr
}

func (s *stubBackend) GetChapters(ctx context.Context, categoryID string) ([]string, error) {
	return nil, nil
}

func (s *stubBackend) CreateQuizSession(ctx context.Context, categoryID string, settings entity.QuizSettings) (string, error) {
	return "", nil
}

func newHistoryHandler(backend *stubBackend) *HistoryHandler {
	// History reads never touch the draft store or the locker.
	return NewHistoryHandler(service.NewConfiguratorService(nil, nil, backend))
}

func sampleHistory() []entity.QuizHistoryEntry {
	completed := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	settings := entity.DefaultQuizSettings()
	settings.Mode = entity.QuizModeExam
	settings.Chapter = "chapter-2"
	return []entity.QuizHistoryEntry{
		{
			ID:             "sess-1",
			Score:          8,
			TotalQuestions: 10,
			StartedAt:      time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
			CompletedAt:    &completed,
			Settings:       settings,
		},
		{
			ID:             "sess-2",
			Score:          4,
			TotalQuestions: 15,
			StartedAt:      time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			Settings:       entity.DefaultQuizSettings(),
		},
	}
}

func TestListHistory_ReturnsSessions(t *testing.T) {
	handler := newHistoryHandler(&stubBackend{history: sampleHistory()})

	c, w := newTestGinContext("GET", "/api/categories/cat-7/history", nil)
	c.Params = gin.Params{{Key: "id", Value: "cat-7"}}
	handler.ListHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	sessions, ok := resp["sessions"].([]interface{})
	require.True(t, ok, "Response should carry a sessions array")
	require.Len(t, sessions, 2)

	first := sessions[0].(map[string]interface{})
	assert.Equal(t, "sess-1", first["id"])
	assert.Equal(t, float64(8), first["score"])
	assert.Equal(t, float64(10), first["total_questions"])
	assert.Equal(t, "exam", first["settings"].(map[string]interface{})["mode"])
}

func TestListHistory_EmptyHistoryIsAnEmptyArray(t *testing.T) {
	handler := newHistoryHandler(&stubBackend{})

	c, w := newTestGinContext("GET", "/api/categories/cat-7/history", nil)
	c.Params = gin.Params{{Key: "id", Value: "cat-7"}}
	handler.ListHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessions": []}`, w.Body.String())
}

func TestListHistory_BackendUnavailable(t *testing.T) {
	backend := &stubBackend{
		historyErr: fmt.Errorf("%w: quiz backend timed out", apperrors.ErrUnavailable),
	}
	handler := newHistoryHandler(backend)

	c, w := newTestGinContext("GET", "/api/categories/cat-7/history", nil)
	c.Params = gin.Params{{Key: "id", Value: "cat-7"}}
	handler.ListHistory(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Contains(t, resp["error"], "quiz backend timed out")
}

func TestExportHistory_StreamsWorkbook(t *testing.T) {
	handler := newHistoryHandler(&stubBackend{history: sampleHistory()})

	c, w := newTestGinContext("GET", "/api/categories/cat-7/history/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "cat-7"}}
	handler.ExportHistory(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="quiz-history-cat-7.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err, "Exported body should be a readable workbook")
	defer f.Close()

	rows, err := f.GetRows("Quiz History")
	require.NoError(t, err)
	require.Len(t, rows, 3, "Header row plus one row per session")
	assert.Equal(t, "Session", rows[0][0])
	assert.Equal(t, []string{"sess-1", "8", "10", "exam", "mixed", "chapter-2", "2025-03-10 14:00", "2025-03-10 14:30"}, rows[1])
	assert.Equal(t, "sess-2", rows[2][0])
	assert.Equal(t, "all", rows[2][5], "Missing chapter filter exports as all")
	if len(rows[2]) > 7 {
		assert.Empty(t, rows[2][7], "Unfinished session has no completion time")
	}
}

func TestExportHistory_BackendErrorSkipsDownloadHeaders(t *testing.T) {
	backend := &stubBackend{
		historyErr: fmt.Errorf("%w: category not found", apperrors.ErrNotFound),
	}
	handler := newHistoryHandler(backend)

	c, w := newTestGinContext("GET", "/api/categories/cat-404/history/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "cat-404"}}
	handler.ExportHistory(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Header().Get("Content-Type"), "spreadsheet")
}
