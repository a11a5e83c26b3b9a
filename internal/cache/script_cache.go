package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	scriptRepo "idive/internal/domain/repositories/script"
)

func scriptKey(prefix, id string) string {
	return prefix + "script:" + id
}

// setIfNewer stores a script only when it is newer than what is cached, so a
// slow reader filling a miss cannot overwrite a later write.
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

var _ scriptRepo.ScriptRepository = (*ScriptRepository)(nil)

// ScriptRepository is a read-through Redis cache in front of another
// ScriptRepository. Only reads by ID are served from Redis; writes always go
// to the wrapped repository and then refresh or drop the cached copy.
// Redis failures are logged and never fail the operation.
type ScriptRepository struct {
	next      scriptRepo.ScriptRepository
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	group     singleflight.Group
	logger    *slog.Logger
}

// NewScriptRepository wraps next with a Redis cache
func NewScriptRepository(next scriptRepo.ScriptRepository, client *redis.Client, ttl time.Duration, keyPrefix string, logger *slog.Logger) *ScriptRepository {
	return &ScriptRepository{
		next:      next,
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// NewClient connects to the Redis instance at url (redis://...) and pings it.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *ScriptRepository) Create(ctx context.Context, s *models.Script) error {
	if err := r.next.Create(ctx, s); err != nil {
		return err
	}
	r.store(ctx, s)
	return nil
}

func (r *ScriptRepository) GetByID(ctx context.Context, id string) (*models.Script, error) {
	if s, ok := r.load(ctx, id); ok {
		return s, nil
	}

	// The load is shared by every caller waiting on this id, so one caller
	// going away must not fail the others
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		s, err := r.next.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		r.store(loadCtx, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers may mutate the result; shared singleflight values must not leak
	s := *v.(*models.Script)
	return &s, nil
}

// GetByPresenterID always reads through; the presenter lookup is only used
// when provisioning.
func (r *ScriptRepository) GetByPresenterID(ctx context.Context, presenterID string) (*models.Script, error) {
	s, err := r.next.GetByPresenterID(ctx, presenterID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, s)
	return s, nil
}

func (r *ScriptRepository) UpdateContent(ctx context.Context, update *models.ContentUpdate) (*models.Script, error) {
	s, err := r.next.UpdateContent(ctx, update)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) || errors.Is(err, domain.ErrNotFound) {
			// Whatever we cached is older than the store; the caller re-reads next
			r.invalidate(ctx, update.ScriptID)
		}
		return nil, err
	}

	r.store(ctx, s)
	return s, nil
}

func (r *ScriptRepository) load(ctx context.Context, id string) (*models.Script, bool) {
	data, err := r.client.HGet(ctx, scriptKey(r.keyPrefix, id), "data").Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("script cache read failed", "id", id, "error", err)
		}
		return nil, false
	}

	var s models.Script
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn("script cache entry corrupt", "id", id, "error", err)
		r.invalidate(ctx, id)
		return nil, false
	}
	return &s, true
}

func (r *ScriptRepository) store(ctx context.Context, s *models.Script) {
	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Warn("script cache encode failed", "id", s.ID, "error", err)
		return
	}

	key := scriptKey(r.keyPrefix, s.ID)
	args := []interface{}{strconv.FormatInt(s.Version, 10), data, r.ttl.Milliseconds()}
	if err := setIfNewer.Run(ctx, r.client, []string{key}, args...).Err(); err != nil {
		r.logger.Warn("script cache write failed", "id", s.ID, "version", s.Version, "error", err)
		// A failed write may leave an older copy behind
		r.invalidate(ctx, s.ID)
	}
}

func (r *ScriptRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, scriptKey(r.keyPrefix, id)).Err(); err != nil {
		r.logger.Warn("script cache invalidate failed", "id", id, "error", err)
	}
}
