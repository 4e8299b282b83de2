package printing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The allocator is lazy: no browser is launched until chromedp.Run, so
// request validation can be tested without Chrome installed.
func TestChromedpRenderer_Validation(t *testing.T) {
	r, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	require.NoError(t, err)
	defer r.Close()

	t.Run("nil request", func(t *testing.T) {
		_, err := r.Render(context.Background(), nil)
		require.Error(t, err)
		var re *RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, ErrCodeInvalidHTML, re.Code)
	})

	t.Run("empty html", func(t *testing.T) {
		_, err := r.Render(context.Background(), &RenderRequest{HTML: "   "})
		require.Error(t, err)
	})
}

func TestBuildCompleteHTML(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	t.Run("fragment is wrapped", func(t *testing.T) {
		html := r.buildCompleteHTML(&RenderRequest{HTML: "<p>hi</p>", Title: "Guía 00000001"})
		assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
		assert.Contains(t, html, "<title>Guía 00000001</title>")
		assert.Contains(t, html, "<p>hi</p>")
	})

	t.Run("full document passes through", func(t *testing.T) {
		doc := "<!DOCTYPE html><html><body>x</body></html>"
		assert.Equal(t, doc, r.buildCompleteHTML(&RenderRequest{HTML: doc}))
	})
}

func TestRenderError(t *testing.T) {
	cause := assert.AnError
	err := NewRenderError(ErrCodeRenderFailed, "boom", cause)
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)

	bare := NewRenderError(ErrCodeRenderFailed, "boom", nil)
	assert.Equal(t, "boom", bare.Error())
}
