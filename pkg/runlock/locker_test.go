package runlock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/runlock"
	"github.com/dmitrymomot/healthreport/pkg/runner"
	"github.com/dmitrymomot/healthreport/pkg/storage/memory"
)

// fakeRedis emulates SET NX and the compare-and-delete script.
type fakeRedis struct {
	mu       sync.Mutex
	values   map[string]string
	ttls     map[string]time.Duration
	setErr   error
	evalErr  error
	evalRuns int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evalRuns++
	if f.evalErr != nil {
		return redis.NewCmdResult(nil, f.evalErr)
	}
	if f.values[keys[0]] == args[0].(string) {
		delete(f.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (f *fakeRedis) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeRedis) set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := runlock.New(nil)
	assert.ErrorIs(t, err, runlock.ErrClientNil)

	l, err := runlock.New(newFakeRedis())
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestLocker_AcquireRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rdb := newFakeRedis()
	l, err := runlock.NewFromConfig(rdb, runlock.Config{Key: "test:lock", TTL: time.Minute})
	require.NoError(t, err)

	release, err := l.Acquire(ctx)
	require.NoError(t, err)
	_, held := rdb.get("test:lock")
	assert.True(t, held)
	assert.Equal(t, time.Minute, rdb.ttls["test:lock"])

	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, runlock.ErrLocked)
	assert.ErrorIs(t, err, runner.ErrPassInProgress)

	release()
	release()
	_, held = rdb.get("test:lock")
	assert.False(t, held)
	assert.Equal(t, 1, rdb.evalRuns)

	release, err = l.Acquire(ctx)
	require.NoError(t, err)
	release()
}

func TestLocker_ReleaseKeepsForeignLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rdb := newFakeRedis()
	l, err := runlock.New(rdb)
	require.NoError(t, err)

	release, err := l.Acquire(ctx)
	require.NoError(t, err)

	// lock expired and was taken by another process
	rdb.set(runlock.DefaultKey, "someone-else")
	release()

	v, held := rdb.get(runlock.DefaultKey)
	assert.True(t, held)
	assert.Equal(t, "someone-else", v)
}

func TestLocker_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	rdb := newFakeRedis()
	rdb.setErr = errors.New("connection refused")
	l, err := runlock.New(rdb)
	require.NoError(t, err)

	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, runlock.ErrAcquireFailed)
	assert.NotErrorIs(t, err, runner.ErrPassInProgress)

	rdb = newFakeRedis()
	rdb.evalErr = errors.New("timeout")
	l, err = runlock.New(rdb)
	require.NoError(t, err)

	release, err := l.Acquire(ctx)
	require.NoError(t, err)
	assert.NotPanics(t, release)
}

func TestLocker_WithRunner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rdb := newFakeRedis()
	l, err := runlock.New(rdb)
	require.NoError(t, err)

	r, err := runner.New(memory.New(), runner.DelivererFunc(func(context.Context, runner.Request) error { return nil }),
		runner.WithLocker(l))
	require.NoError(t, err)

	rdb.set(runlock.DefaultKey, "other-process")
	_, err = r.RunOnce(ctx, time.Now())
	assert.ErrorIs(t, err, runner.ErrPassInProgress)

	rdb.mu.Lock()
	delete(rdb.values, runlock.DefaultKey)
	rdb.mu.Unlock()

	_, err = r.RunOnce(ctx, time.Now())
	require.NoError(t, err)
	_, held := rdb.get(runlock.DefaultKey)
	assert.False(t, held)
}
