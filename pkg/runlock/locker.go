package runlock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/healthreport/pkg/logger"
	"github.com/dmitrymomot/healthreport/pkg/runner"
)

const (
	DefaultKey = "healthreport:pass"
	DefaultTTL = 10 * time.Minute

	releaseTimeout = 5 * time.Second
)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Client is the subset of *redis.Client the locker needs.
type Client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// Locker is a runner.Locker backed by a single Redis key.
type Locker struct {
	client Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

var _ runner.Locker = (*Locker)(nil)

// Option configures a Locker.
type Option func(*Locker)

func WithKey(key string) Option {
	return func(l *Locker) {
		if key != "" {
			l.key = key
		}
	}
}

// WithTTL bounds how long a lock outlives a crashed holder. Keep it above the
// longest expected pass.
func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Locker) {
		if log != nil {
			l.logger = log
		}
	}
}

func New(client Client, opts ...Option) (*Locker, error) {
	if client == nil {
		return nil, ErrClientNil
	}
	l := &Locker{
		client: client,
		key:    DefaultKey,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(logger.Component("runlock"))
	return l, nil
}

// NewFromConfig builds a Locker with the key and TTL from cfg.
func NewFromConfig(client Client, cfg Config, opts ...Option) (*Locker, error) {
	return New(client, append([]Option{WithKey(cfg.Key), WithTTL(cfg.TTL)}, opts...)...)
}

// Acquire takes the lock or returns ErrLocked. The release func is safe to
// call more than once and never removes a lock taken over by someone else.
func (l *Locker) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, errors.Join(ErrAcquireFailed, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(ctx, token) })
	}, nil
}

func (l *Locker) release(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
		l.logger.ErrorContext(ctx, "failed to release pass lock", slog.String("key", l.key), logger.Error(err))
	}
}
