package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
)

// Drafts are short-lived by design: an abandoned configuration page should
// not linger in redis.
const draftTTL = 24 * time.Hour

// DraftRepo implements repository.DraftRepository and repository.ActionLocker
// on top of redis.
type DraftRepo struct {
	client redis.UniversalClient
}

// NewDraftRepo creates a new draft repository.
func NewDraftRepo(client redis.UniversalClient) (*DraftRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for DraftRepo")
	}
	return &DraftRepo{client: client}, nil
}

func draftKey(id string) string {
	return "draft:" + id
}

func generationKey(sessionID, categoryID string) string {
	return fmt.Sprintf("draftgen:%s:%s", sessionID, categoryID)
}

// Save persists the draft as JSON, refreshing its TTL.
func (r *DraftRepo) Save(ctx context.Context, draft *entity.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", draft.ID, err)
	}
	return r.client.Set(ctx, draftKey(draft.ID), data, draftTTL).Err()
}

// Get returns the draft by ID or ErrNotFound.
func (r *DraftRepo) Get(ctx context.Context, id string) (*entity.Draft, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	var draft entity.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft %s: %w", id, err)
	}
	return &draft, nil
}

// Delete removes the draft.
func (r *DraftRepo) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, draftKey(id)).Err()
}

// NextGeneration atomically increments the load generation for the pair.
func (r *DraftRepo) NextGeneration(ctx context.Context, sessionID, categoryID string) (uint64, error) {
	gen, err := r.client.Incr(ctx, generationKey(sessionID, categoryID)).Result()
	if err != nil {
		return 0, err
	}
	return uint64(gen), nil
}

// CurrentGeneration returns the latest issued generation, 0 when none.
func (r *DraftRepo) CurrentGeneration(ctx context.Context, sessionID, categoryID string) (uint64, error) {
	val, err := r.client.Get(ctx, generationKey(sessionID, categoryID)).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

// AcquireLock takes a short-lived exclusive lock via SETNX.
func (r *DraftRepo) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, "lock:"+key, 1, ttl).Result()
}

// ReleaseLock frees the lock early.
func (r *DraftRepo) ReleaseLock(ctx context.Context, key string) error {
	return r.client.Del(ctx, "lock:"+key).Err()
}
