package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/email"
)

func filesWithSuffix(t *testing.T, dir, suffix string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var out []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("writes body, metadata and attachments", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "outbox")
		sender := email.NewDevSender(dir)

		params := validParams()
		params.Attachments = []email.Attachment{{
			Filename:    "health_report_jane_20240301.html",
			ContentType: "text/html; charset=utf-8",
			Content:     []byte("<html>attached</html>"),
		}}
		require.NoError(t, sender.SendEmail(ctx, params))

		htmlFiles := filesWithSuffix(t, dir, "_health-report.html")
		require.Len(t, htmlFiles, 1)
		body, err := os.ReadFile(htmlFiles[0])
		require.NoError(t, err)
		assert.Equal(t, params.BodyHTML, string(body))

		attached := filesWithSuffix(t, dir, "_health_report_jane_20240301.html")
		require.Len(t, attached, 1)
		content, err := os.ReadFile(attached[0])
		require.NoError(t, err)
		assert.Equal(t, "<html>attached</html>", string(content))

		jsonFiles := filesWithSuffix(t, dir, ".json")
		require.Len(t, jsonFiles, 1)
		raw, err := os.ReadFile(jsonFiles[0])
		require.NoError(t, err)

		var meta map[string]any
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, "user@example.com", meta["send_to"])
		assert.Equal(t, "health-report", meta["tag"])
		attachments, ok := meta["attachments"].([]any)
		require.True(t, ok)
		require.Len(t, attachments, 1)
		assert.Equal(t, "health_report_jane_20240301.html", attachments[0].(map[string]any)["filename"])
	})

	t.Run("uses subject when tag is empty", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		params := validParams()
		params.Tag = ""
		require.NoError(t, email.NewDevSender(dir).SendEmail(ctx, params))

		assert.Len(t, filesWithSuffix(t, dir, "_your_health_report.html"), 1)
	})

	t.Run("validation error writes nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		params := validParams()
		params.SendTo = "nope"

		err := email.NewDevSender(dir).SendEmail(ctx, params)
		require.ErrorIs(t, err, email.ErrInvalidParams)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

		err := email.NewDevSender(filepath.Join(file, "outbox")).SendEmail(ctx, validParams())
		require.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := email.NewDevSender(t.TempDir()).SendEmail(cctx, validParams())
		require.ErrorIs(t, err, context.Canceled)
	})
}
