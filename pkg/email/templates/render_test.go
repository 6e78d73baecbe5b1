package templates_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/email/templates"
)

func TestRender(t *testing.T) {
	t.Parallel()

	component := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>"+templ.EscapeString("<b>hi</b>")+"</p>")
		return err
	})

	html, err := templates.Render(context.Background(), component)
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;b&gt;hi&lt;/b&gt;</p>", html)

	failing := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("render failed")
	})
	_, err = templates.Render(context.Background(), failing)
	require.Error(t, err)
}
