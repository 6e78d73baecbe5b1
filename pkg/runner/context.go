package runner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/healthreport/pkg/logger"
)

type passIDKey struct{}

// WithPassID returns a copy of ctx carrying the pass identifier.
func WithPassID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, passIDKey{}, id)
}

// PassIDFromContext returns the identifier of the pass ctx belongs to.
// Deliverers receive a context that carries it.
func PassIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(passIDKey{}).(uuid.UUID)
	return id, ok
}

// LoggerExtractor tags records logged under a pass context with "pass_id".
//
//	log := logger.New(logger.WithContextExtractors(runner.LoggerExtractor()))
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := PassIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.PassID(id), true
	}
}
