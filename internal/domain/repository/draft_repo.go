package repository

import (
	"context"
	"time"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
)

// DraftRepository stores in-progress quiz configuration drafts.
type DraftRepository interface {
	// Save persists the draft, replacing any previous version.
	Save(ctx context.Context, draft *entity.Draft) error

	// Get returns the draft by ID or ErrNotFound.
	Get(ctx context.Context, id string) (*entity.Draft, error)

	// Delete removes the draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, id string) error

	// NextGeneration atomically increments the load generation for one
	// (session, category) pair. A fetch whose generation is superseded
	// before it completes must discard its results.
	NextGeneration(ctx context.Context, sessionID, categoryID string) (uint64, error)

	// CurrentGeneration returns the latest generation for the pair, 0 when
	// none has been issued yet.
	CurrentGeneration(ctx context.Context, sessionID, categoryID string) (uint64, error)
}

// ActionLocker hands out short-lived exclusive locks used to guard
// single-flight user actions (quiz submission, guest login).
type ActionLocker interface {
	// AcquireLock takes the named lock for ttl. Returns false when the lock
	// is already held.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// ReleaseLock frees the named lock early.
	ReleaseLock(ctx context.Context, key string) error
}
