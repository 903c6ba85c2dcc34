package mail

import (
	"context"
	"errors"
	"log/slog"
)

// Registry holds the ordered provider list the fallback cascade walks. It
// is built once at startup; there is no dynamic registration.
type Registry struct {
	providers []Provider
	log       *slog.Logger
}

// NewRegistry builds the cascade from configuration: remote providers are
// included only when their credentials are present, the console provider is
// always appended so a delivery attempt never has zero candidates, and the
// file provider is appended only outside production.
func NewRegistry(cfg Config, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	var providers []Provider
	if cfg.PostmarkServerToken != "" {
		providers = append(providers, NewPostmarkProvider(cfg))
	}
	if cfg.BrevoAPIKey != "" {
		providers = append(providers, NewBrevoProvider(cfg))
	}
	providers = append(providers, NewConsoleProvider(cfg, log))
	if !cfg.IsProduction() {
		providers = append(providers, NewFileProvider(cfg))
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	log.Info("mail provider cascade built", slog.Any("providers", names))

	return &Registry{providers: providers, log: log}
}

// NewRegistryWithProviders builds a registry from an explicit provider
// list, in the given order. Used by tests and by callers that assemble
// their own cascade.
func NewRegistryWithProviders(log *slog.Logger, providers ...Provider) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{providers: providers, log: log}
}

// Providers returns the registered providers in cascade order.
func (r *Registry) Providers() []Provider {
	return r.providers
}

// SendWithFallback walks the cascade in registration order, skipping
// unconfigured providers, and returns the name of the first provider that
// accepted the message. If every configured provider fails, the last error
// is returned wrapped in ErrAllProvidersFailed.
func (r *Registry) SendWithFallback(ctx context.Context, msg Message) (string, error) {
	var lastErr error
	attempted := false

	for _, p := range r.providers {
		if !p.Configured() {
			continue
		}
		attempted = true

		if err := p.Send(ctx, msg); err != nil {
			lastErr = err
			r.log.WarnContext(ctx, "provider failed, trying next",
				slog.String("provider", p.Name()),
				slog.String("error", err.Error()))
			continue
		}
		return p.Name(), nil
	}

	if !attempted {
		return "", ErrNoProviders
	}
	return "", errors.Join(ErrAllProvidersFailed, lastErr)
}

// SendDirect attempts only the first configured provider. Used when the
// caller wants low latency and accepts a single attempt.
func (r *Registry) SendDirect(ctx context.Context, msg Message) (string, error) {
	for _, p := range r.providers {
		if !p.Configured() {
			continue
		}
		if err := p.Send(ctx, msg); err != nil {
			return p.Name(), err
		}
		return p.Name(), nil
	}
	return "", ErrNoProviders
}
