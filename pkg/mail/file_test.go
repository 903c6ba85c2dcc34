package mail_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baustructura/notifier/pkg/mail"
)

func TestFileProvider(t *testing.T) {
	t.Parallel()

	newProvider := func(dir string) *mail.FileProvider {
		return mail.NewFileProvider(mail.Config{
			FromEmail:     "noreply@example.com",
			FromName:      "Notifier",
			FileOutputDir: dir,
		})
	}

	t.Run("always configured", func(t *testing.T) {
		t.Parallel()

		p := newProvider(t.TempDir())
		assert.True(t, p.Configured())
		assert.Equal(t, "file", p.Name())
	})

	t.Run("writes one eml file per message", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		p := newProvider(dir)

		err := p.Send(context.Background(), mail.Message{
			To:       []string{"user@example.com"},
			Subject:  "Welcome aboard",
			BodyHTML: "<p>Hello</p>",
		})
		require.NoError(t, err)

		files, err := filepath.Glob(filepath.Join(dir, "*.eml"))
		require.NoError(t, err)
		require.Len(t, files, 1)

		content, err := os.ReadFile(files[0])
		require.NoError(t, err)
		assert.Contains(t, string(content), "To: user@example.com")
		assert.Contains(t, string(content), "From: Notifier <noreply@example.com>")
		assert.Contains(t, string(content), "Subject: Welcome aboard")
		assert.Contains(t, string(content), "Content-Type: text/html")
		assert.Contains(t, string(content), "<p>Hello</p>")
	})

	t.Run("sanitizes recipient and subject in filename", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		p := newProvider(dir)

		err := p.Send(context.Background(), mail.Message{
			To:       []string{"user+tag@example.com"},
			Subject:  "Invoice #42 / März",
			BodyText: "hi",
		})
		require.NoError(t, err)

		files, err := filepath.Glob(filepath.Join(dir, "*.eml"))
		require.NoError(t, err)
		require.Len(t, files, 1)
		base := filepath.Base(files[0])
		assert.NotContains(t, base, "#")
		assert.NotContains(t, base, "/")
		assert.NotContains(t, base, "+")
		assert.Contains(t, base, "user_tag_example.com")
	})

	t.Run("appends template info as comments", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		p := newProvider(dir)

		err := p.Send(context.Background(), mail.Message{
			To:             []string{"user@example.com"},
			Subject:        "Templated",
			BodyHTML:       "<p>rendered elsewhere</p>",
			TemplateID:     "7",
			TemplateParams: map[string]any{"name": "Anna"},
		})
		require.NoError(t, err)

		files, err := filepath.Glob(filepath.Join(dir, "*.eml"))
		require.NoError(t, err)
		require.Len(t, files, 1)

		content, err := os.ReadFile(files[0])
		require.NoError(t, err)
		assert.Contains(t, string(content), "Template-ID: 7")
		assert.Contains(t, string(content), `"name":"Anna"`)
	})

	t.Run("creates output directory on first send", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "emails")
		p := newProvider(dir)

		err := p.Send(context.Background(), mail.Message{
			To:       []string{"user@example.com"},
			Subject:  "Hi",
			BodyText: "hi",
		})
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}
