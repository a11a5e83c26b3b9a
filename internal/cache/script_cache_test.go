package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idive/internal/domain"
	models "idive/internal/domain/models/script"
)

// memoryScripts is a minimal in-memory ScriptRepository that counts reads
type memoryScripts struct {
	mu      sync.Mutex
	scripts map[string]models.Script
	reads   int
}

func newMemoryScripts(scripts ...models.Script) *memoryScripts {
	m := &memoryScripts{scripts: map[string]models.Script{}}
	for _, s := range scripts {
		m.scripts[s.ID] = s
	}
	return m
}

func (m *memoryScripts) Create(_ context.Context, s *models.Script) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[s.ID] = *s
	return nil
}

func (m *memoryScripts) GetByID(_ context.Context, id string) (*models.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	s, ok := m.scripts[id]
	if !ok {
		return nil, fmt.Errorf("script %s: %w", id, domain.ErrNotFound)
	}
	return &s, nil
}

func (m *memoryScripts) GetByPresenterID(_ context.Context, presenterID string) (*models.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.scripts {
		if s.PresenterID == presenterID {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryScripts) UpdateContent(_ context.Context, u *models.ContentUpdate) (*models.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scripts[u.ScriptID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.BaseVersion != nil && *u.BaseVersion != s.Version {
		return nil, domain.ErrVersionConflict
	}
	s.Content = u.Content
	s.Version++
	m.scripts[s.ID] = s
	return &s, nil
}

func (m *memoryScripts) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func newTestCache(t *testing.T, next *memoryScripts) (*ScriptRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScriptRepository(next, client, time.Minute, "test:", logger), mr
}

func TestGetByID_ReadThrough(t *testing.T) {
	next := newMemoryScripts(models.Script{ID: "s1", Content: "hello", Version: 2})
	repo, mr := newTestCache(t, next)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Content)
	assert.True(t, mr.Exists("test:script:s1"))

	second, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, 1, next.readCount(), "second read should be served from redis")
}

func TestGetByID_NotFoundIsNotCached(t *testing.T) {
	next := newMemoryScripts()
	repo, mr := newTestCache(t, next)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists("test:script:missing"))
}

func TestUpdateContent_RefreshesCache(t *testing.T) {
	next := newMemoryScripts(models.Script{ID: "s1", Content: "v1", Version: 1})
	repo, _ := newTestCache(t, next)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)

	base := int64(1)
	_, err = repo.UpdateContent(ctx, &models.ContentUpdate{ScriptID: "s1", Content: "v2", BaseVersion: &base})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 1, next.readCount())
}

func TestUpdateContent_ConflictDropsCachedCopy(t *testing.T) {
	next := newMemoryScripts(models.Script{ID: "s1", Content: "v1", Version: 1})
	repo, mr := newTestCache(t, next)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)

	stale := int64(0)
	_, err = repo.UpdateContent(ctx, &models.ContentUpdate{ScriptID: "s1", Content: "x", BaseVersion: &stale})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.False(t, mr.Exists("test:script:s1"))
}

func TestStore_OlderVersionDoesNotOverwrite(t *testing.T) {
	repo, _ := newTestCache(t, newMemoryScripts())
	ctx := context.Background()

	repo.store(ctx, &models.Script{ID: "s1", Content: "newer", Version: 5})
	repo.store(ctx, &models.Script{ID: "s1", Content: "older", Version: 4})

	got, ok := repo.load(ctx, "s1")
	require.True(t, ok)
	assert.Equal(t, "newer", got.Content)
	assert.Equal(t, int64(5), got.Version)
}

func TestGetByID_RedisDownFallsBack(t *testing.T) {
	next := newMemoryScripts(models.Script{ID: "s1", Content: "hello", Version: 1})
	repo, mr := newTestCache(t, next)
	mr.Close()

	got, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

// gatedScripts blocks reads until released and fails them if the context
// they were given is already done
type gatedScripts struct {
	*memoryScripts
	started chan struct{}
	release chan struct{}
}

func (g *gatedScripts) GetByID(ctx context.Context, id string) (*models.Script, error) {
	close(g.started)
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.memoryScripts.GetByID(ctx, id)
}

func TestGetByID_SharedLoadOutlivesCallerCancel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	next := &gatedScripts{
		memoryScripts: newMemoryScripts(models.Script{ID: "s1", Content: "hello", Version: 3}),
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	repo := NewScriptRepository(next, client, time.Minute, "test:", slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		script *models.Script
		err    error
	}
	done := make(chan result, 1)
	go func() {
		s, err := repo.GetByID(ctx, "s1")
		done <- result{s, err}
	}()

	<-next.started
	cancel()
	close(next.release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, int64(3), res.script.Version)
	assert.True(t, mr.Exists("test:script:s1"), "the loaded script is still cached")
}
