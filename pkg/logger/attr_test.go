package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("pass", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "pass", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestUserID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	attr := logger.UserID(id)
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, id, attr.Value.Any())

	assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	attr := logger.Recipient("doctor@example.com")
	require.Equal(t, "recipient", attr.Key)
	assert.Equal(t, "doctor@example.com", attr.Value.String())

	assert.True(t, logger.Recipient("").Equal(slog.Attr{}))
}

func TestDueAt(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	attr := logger.DueAt(ts)
	require.Equal(t, "due_at", attr.Key)
	assert.True(t, ts.Equal(attr.Value.Time()))

	attr = logger.DueAt(&ts)
	require.Equal(t, "due_at", attr.Key)
	assert.True(t, ts.Equal(attr.Value.Time()))

	var none *time.Time
	assert.True(t, logger.DueAt(none).Equal(slog.Attr{}))
	assert.True(t, logger.DueAt("tomorrow").Equal(slog.Attr{}))
}

func TestScalarAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "frequency", logger.Frequency("weekly").Key)
	assert.Equal(t, "weekly", logger.Frequency("weekly").Value.String())
	assert.Equal(t, int64(3), logger.Count(3).Value.Int64())
	assert.Equal(t, "component", logger.Component("runner").Key)
	assert.Equal(t, "duration", logger.Duration(time.Second).Key)
	assert.Equal(t, "pass_id", logger.PassID("p-1").Key)
	assert.True(t, logger.PassID(nil).Equal(slog.Attr{}))
}
