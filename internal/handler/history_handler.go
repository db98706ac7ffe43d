package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quizsetup-api/internal/handler/dto"
	"github.com/yourusername/quizsetup-api/internal/service"
)

// HistoryHandler serves the per-category quiz history: the JSON listing the
// configuration page displays, and an xlsx export.
type HistoryHandler struct {
	configurator *service.ConfiguratorService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(configurator *service.ConfiguratorService) *HistoryHandler {
	return &HistoryHandler{configurator: configurator}
}

// ListHistory handles GET /api/categories/:id/history.
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	history, err := h.configurator.CategoryHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]dto.HistoryEntry, len(history))
	for i, entry := range history {
		entries[i] = dto.NewHistoryEntry(entry)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": entries})
}

// ExportHistory handles GET /api/categories/:id/history/export and streams
// the history as an xlsx download.
func (h *HistoryHandler) ExportHistory(c *gin.Context) {
	categoryID := c.Param("id")
	history, err := h.configurator.CategoryHistory(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"quiz-history-%s.xlsx\"", categoryID))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Quiz History"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[HistoryHandler] Failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Session", "Score", "Questions", "Mode", "Difficulty", "Chapter", "Started", "Completed"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[HistoryHandler] Failed to write header row: %v", err)
	}

	for i, entry := range history {
		completed := ""
		if entry.CompletedAt != nil {
			completed = entry.CompletedAt.Format("2006-01-02 15:04")
		}
		chapter := entry.Settings.Chapter
		if chapter == "" {
			chapter = "all"
		}
		row := []interface{}{
			entry.ID,
			entry.Score,
			entry.TotalQuestions,
			string(entry.Settings.Mode),
			string(entry.Settings.Difficulty),
			chapter,
			entry.StartedAt.Format("2006-01-02 15:04"),
			completed,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[HistoryHandler] Failed to write row %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[HistoryHandler] Failed to flush stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize Excel file"})
		return
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[HistoryHandler] Failed to stream Excel file: %v", err)
	}
}
