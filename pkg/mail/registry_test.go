package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baustructura/notifier/pkg/mail"
)

// stubProvider is a scriptable provider for cascade tests.
type stubProvider struct {
	name       string
	configured bool
	sendErr    error
	calls      atomic.Int64
}

func (p *stubProvider) Name() string     { return p.name }
func (p *stubProvider) Configured() bool { return p.configured }

func (p *stubProvider) Send(ctx context.Context, msg mail.Message) error {
	p.calls.Add(1)
	return p.sendErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMessage() mail.Message {
	return mail.Message{
		To:       []string{"user@example.com"},
		Subject:  "Test",
		BodyText: "Hello",
	}
}

func TestRegistry_SendWithFallback(t *testing.T) {
	t.Parallel()

	t.Run("first provider wins", func(t *testing.T) {
		t.Parallel()

		first := &stubProvider{name: "first", configured: true}
		second := &stubProvider{name: "second", configured: true}
		reg := mail.NewRegistryWithProviders(discardLogger(), first, second)

		provider, err := reg.SendWithFallback(context.Background(), testMessage())
		require.NoError(t, err)
		assert.Equal(t, "first", provider)
		assert.EqualValues(t, 1, first.calls.Load())
		assert.EqualValues(t, 0, second.calls.Load())
	})

	t.Run("falls back to next provider on failure", func(t *testing.T) {
		t.Parallel()

		first := &stubProvider{name: "first", configured: true, sendErr: errors.New("boom")}
		second := &stubProvider{name: "second", configured: true}
		reg := mail.NewRegistryWithProviders(discardLogger(), first, second)

		provider, err := reg.SendWithFallback(context.Background(), testMessage())
		require.NoError(t, err)
		assert.Equal(t, "second", provider)
		assert.EqualValues(t, 1, first.calls.Load())
		assert.EqualValues(t, 1, second.calls.Load())
	})

	t.Run("skips unconfigured providers", func(t *testing.T) {
		t.Parallel()

		unconfigured := &stubProvider{name: "remote", configured: false}
		fallback := &stubProvider{name: "console", configured: true}
		reg := mail.NewRegistryWithProviders(discardLogger(), unconfigured, fallback)

		provider, err := reg.SendWithFallback(context.Background(), testMessage())
		require.NoError(t, err)
		assert.Equal(t, "console", provider)
		assert.EqualValues(t, 0, unconfigured.calls.Load())
	})

	t.Run("all providers fail", func(t *testing.T) {
		t.Parallel()

		lastErr := errors.New("disk full")
		first := &stubProvider{name: "first", configured: true, sendErr: errors.New("boom")}
		second := &stubProvider{name: "second", configured: true, sendErr: lastErr}
		reg := mail.NewRegistryWithProviders(discardLogger(), first, second)

		provider, err := reg.SendWithFallback(context.Background(), testMessage())
		assert.Empty(t, provider)
		assert.ErrorIs(t, err, mail.ErrAllProvidersFailed)
		assert.ErrorIs(t, err, lastErr)
	})

	t.Run("no configured providers", func(t *testing.T) {
		t.Parallel()

		reg := mail.NewRegistryWithProviders(discardLogger(), &stubProvider{name: "remote"})

		_, err := reg.SendWithFallback(context.Background(), testMessage())
		assert.ErrorIs(t, err, mail.ErrNoProviders)
	})

	t.Run("console only cascade needs no network", func(t *testing.T) {
		t.Parallel()

		remote := &stubProvider{name: "remote", configured: false}
		console := mail.NewConsoleProvider(mail.Config{FromEmail: "noreply@example.com"}, discardLogger())
		reg := mail.NewRegistryWithProviders(discardLogger(), remote, console)

		provider, err := reg.SendWithFallback(context.Background(), testMessage())
		require.NoError(t, err)
		assert.Equal(t, "console", provider)
		assert.EqualValues(t, 0, remote.calls.Load())
	})
}

func TestRegistry_SendDirect(t *testing.T) {
	t.Parallel()

	t.Run("attempts only first configured provider", func(t *testing.T) {
		t.Parallel()

		first := &stubProvider{name: "first", configured: true, sendErr: errors.New("boom")}
		second := &stubProvider{name: "second", configured: true}
		reg := mail.NewRegistryWithProviders(discardLogger(), first, second)

		provider, err := reg.SendDirect(context.Background(), testMessage())
		assert.Equal(t, "first", provider)
		assert.Error(t, err)
		assert.EqualValues(t, 0, second.calls.Load())
	})

	t.Run("skips unconfigured providers", func(t *testing.T) {
		t.Parallel()

		unconfigured := &stubProvider{name: "remote", configured: false}
		fallback := &stubProvider{name: "console", configured: true}
		reg := mail.NewRegistryWithProviders(discardLogger(), unconfigured, fallback)

		provider, err := reg.SendDirect(context.Background(), testMessage())
		require.NoError(t, err)
		assert.Equal(t, "console", provider)
	})

	t.Run("empty registry", func(t *testing.T) {
		t.Parallel()

		reg := mail.NewRegistryWithProviders(discardLogger())
		_, err := reg.SendDirect(context.Background(), testMessage())
		assert.ErrorIs(t, err, mail.ErrNoProviders)
	})
}

func TestNewRegistry_CascadeComposition(t *testing.T) {
	t.Parallel()

	t.Run("development includes console and file", func(t *testing.T) {
		t.Parallel()

		reg := mail.NewRegistry(mail.Config{
			FromEmail:     "noreply@example.com",
			Environment:   "development",
			FileOutputDir: t.TempDir(),
		}, discardLogger())

		names := providerNames(reg)
		assert.Equal(t, []string{"console", "file"}, names)
	})

	t.Run("production excludes file provider", func(t *testing.T) {
		t.Parallel()

		reg := mail.NewRegistry(mail.Config{
			FromEmail:   "noreply@example.com",
			Environment: "production",
		}, discardLogger())

		names := providerNames(reg)
		assert.Equal(t, []string{"console"}, names)
	})

	t.Run("remote providers included when credentials present", func(t *testing.T) {
		t.Parallel()

		reg := mail.NewRegistry(mail.Config{
			PostmarkServerToken:  "server-token",
			PostmarkAccountToken: "account-token",
			BrevoAPIKey:          "api-key",
			FromEmail:            "noreply@example.com",
			Environment:          "production",
		}, discardLogger())

		names := providerNames(reg)
		assert.Equal(t, []string{"postmark", "brevo", "console"}, names)
	})
}

func providerNames(reg *mail.Registry) []string {
	var names []string
	for _, p := range reg.Providers() {
		names = append(names, p.Name())
	}
	return names
}
