package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	"github.com/yourusername/quizsetup-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
	"github.com/yourusername/quizsetup-api/internal/service/sessionconfig"
)

// submitLockTTL bounds how long a submit lock can outlive a crashed request.
const submitLockTTL = 30 * time.Second

// ConfiguratorService owns the quiz configuration drafts: creation with a
// best-effort snapshot of category data, field-by-field mutation, and the
// one-shot submission that turns a draft into a quiz session.
type ConfiguratorService struct {
	draftRepo repository.DraftRepository
	locker    repository.ActionLocker
	backend   repository.BackendClient
}

// NewConfiguratorService creates a new configurator service.
func NewConfiguratorService(
	draftRepo repository.DraftRepository,
	locker repository.ActionLocker,
	backend repository.BackendClient,
) *ConfiguratorService {
	return &ConfiguratorService{
		draftRepo: draftRepo,
		locker:    locker,
		backend:   backend,
	}
}

// StartDraft creates a fresh draft for the category with default settings and
// a snapshot of category metadata, question stats, quiz history and chapters.
// The four fetches run concurrently; if any of them fails the whole snapshot
// falls back to empty/default values — the draft stays usable for display,
// only submission is gated (on missing stats).
//
// Each call supersedes earlier loads for the same (session, category) pair:
// a slower fetch belonging to an older generation discards its results
// instead of saving a stale draft.
func (s *ConfiguratorService) StartDraft(ctx context.Context, sess entity.SessionContext, categoryID string) (*entity.Draft, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	}

	generation, err := s.draftRepo.NextGeneration(ctx, sess.Subject, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate load generation: %w", err)
	}

	var (
		category *entity.Category
		stats    *entity.QuestionStats
		history  []entity.QuizHistoryEntry
		chapters []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		category, err = s.backend.GetCategory(gctx, categoryID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.backend.GetQuestionStats(gctx, categoryID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.backend.GetQuizHistory(gctx, categoryID)
		return err
	})
	g.Go(func() error {
		var err error
		chapters, err = s.backend.GetChapters(gctx, categoryID)
		return err
	})

	if err := g.Wait(); err != nil {
		// Best-effort display policy: log and fall back instead of blocking
		// the page. Submission stays disabled while stats are missing.
		log.Printf("[ConfiguratorService] Category data fetch failed for %s, falling back to defaults: %v", categoryID, err)
		category = &entity.Category{ID: categoryID}
		stats = nil
		history = nil
		chapters = nil
	}

	current, err := s.draftRepo.CurrentGeneration(ctx, sess.Subject, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check load generation: %w", err)
	}
	if current != generation {
		log.Printf("[ConfiguratorService] Discarding stale load for category %s (generation %d superseded by %d)", categoryID, generation, current)
		return nil, fmt.Errorf("%w: draft load superseded by a newer request", apperrors.ErrConflict)
	}

	now := time.Now()
	draft := &entity.Draft{
		ID:         uuid.NewString(),
		SessionID:  sess.Subject,
		CategoryID: categoryID,
		Generation: generation,
		Settings:   entity.DefaultQuizSettings(),
		Category:   category,
		Stats:      stats,
		History:    history,
		Chapters:   chapters,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

// GetDraft returns the draft by ID after an ownership check.
func (s *ConfiguratorService) GetDraft(ctx context.Context, sess entity.SessionContext, draftID string) (*entity.Draft, error) {
	draft, err := s.draftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !draft.OwnedBy(sess.Subject) {
		return nil, fmt.Errorf("%w: draft belongs to another session", apperrors.ErrForbidden)
	}
	return draft, nil
}

// SetField replaces exactly one settings field, leaving all others unchanged.
// Cross-field validation is deliberately deferred to submission.
func (s *ConfiguratorService) SetField(ctx context.Context, sess entity.SessionContext, draftID, field string, value json.RawMessage) (*entity.Draft, error) {
	draft, err := s.GetDraft(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}

	next, err := sessionconfig.ApplyField(draft.Settings, field, value)
	if err != nil {
		return nil, err
	}

	draft.Settings = next
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

// Submit validates the draft against live availability, creates the quiz
// session on the backend and consumes the draft. A per-draft lock rejects a
// second submit while one is in flight. On backend failure the draft is left
// untouched so the user can retry without re-entering settings.
func (s *ConfiguratorService) Submit(ctx context.Context, sess entity.SessionContext, draftID string) (string, error) {
	draft, err := s.GetDraft(ctx, sess, draftID)
	if err != nil {
		return "", err
	}

	if err := sessionconfig.ValidateForSubmit(draft.Settings, draft.Stats); err != nil {
		return "", err
	}

	lockKey := "submit:" + draft.ID
	acquired, err := s.locker.AcquireLock(ctx, lockKey, submitLockTTL)
	if err != nil {
		return "", fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !acquired {
		return "", fmt.Errorf("%w: submission already in progress", apperrors.ErrConflict)
	}

	sessionID, err := s.backend.CreateQuizSession(ctx, draft.CategoryID, draft.Settings)
	if err != nil {
		// Draft is preserved for retry.
		if relErr := s.locker.ReleaseLock(ctx, lockKey); relErr != nil {
			log.Printf("[ConfiguratorService] Failed to release submit lock for draft %s: %v", draft.ID, relErr)
		}
		log.Printf("[ConfiguratorService] Session creation failed for draft %s: %v", draft.ID, err)
		return "", err
	}

	// The draft's lifetime ends on successful submission. A failed cleanup is
	// not surfaced: the session was created and the draft TTL will reap it.
	if err := s.draftRepo.Delete(ctx, draft.ID); err != nil {
		log.Printf("[ConfiguratorService] Failed to delete consumed draft %s: %v", draft.ID, err)
	}
	if err := s.locker.ReleaseLock(ctx, lockKey); err != nil {
		log.Printf("[ConfiguratorService] Failed to release submit lock for draft %s: %v", draft.ID, err)
	}

	log.Printf("[ConfiguratorService] Draft %s submitted, quiz session %s created", draft.ID, sessionID)
	return sessionID, nil
}

// CategoryHistory returns the quiz history for a category straight from the
// backend, for listing and export.
func (s *ConfiguratorService) CategoryHistory(ctx context.Context, categoryID string) ([]entity.QuizHistoryEntry, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	}
	return s.backend.GetQuizHistory(ctx, categoryID)
}
