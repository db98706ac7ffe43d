package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizsetup-api/internal/handler/dto"
	"github.com/yourusername/quizsetup-api/internal/middleware"
	"github.com/yourusername/quizsetup-api/internal/service"
)

// DraftHandler exposes the quiz configuration workflow: draft creation,
// reading the derived view, single-field updates and submission.
type DraftHandler struct {
	configurator *service.ConfiguratorService
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(configurator *service.ConfiguratorService) *DraftHandler {
	return &DraftHandler{configurator: configurator}
}

// CreateDraft handles POST /api/categories/:id/drafts.
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.configurator.StartDraft(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewDraftView(draft))
}

// GetDraft handles GET /api/drafts/:id.
func (h *DraftHandler) GetDraft(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.configurator.GetDraft(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDraftView(draft))
}

// UpdateFieldRequest names one settings field and its new raw value. The
// value stays raw JSON so numeric self-correction can see exactly what the
// client sent (number, string, or garbage).
type UpdateFieldRequest struct {
	Field string          `json:"field" binding:"required"`
	Value json.RawMessage `json:"value"`
}

// UpdateField handles PATCH /api/drafts/:id.
func (h *DraftHandler) UpdateField(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	draft, err := h.configurator.SetField(c.Request.Context(), sess, c.Param("id"), req.Field, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDraftView(draft))
}

// SubmitDraft handles POST /api/drafts/:id/submit. On success the client is
// expected to navigate to the quiz view for the returned session.
func (h *DraftHandler) SubmitDraft(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sessionID, err := h.configurator.Submit(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}
