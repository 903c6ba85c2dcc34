package mail

import "errors"

var (
	// ErrInvalidMessage is returned when a message fails shape validation.
	ErrInvalidMessage = errors.New("mail: invalid message")

	// ErrInvalidConfig is returned when a provider is constructed with
	// incomplete configuration.
	ErrInvalidConfig = errors.New("mail: invalid provider config")

	// ErrNotConfigured is returned by Send when a provider is missing its
	// credentials. The cascade skips such providers up front, so callers
	// normally never see it.
	ErrNotConfigured = errors.New("mail: provider is not configured")

	// ErrSendFailed wraps provider-level delivery failures.
	ErrSendFailed = errors.New("mail: failed to send message")

	// ErrAuthFailed marks a rejected or missing API credential.
	ErrAuthFailed = errors.New("mail: provider rejected credentials")

	// ErrSenderNotVerified marks a sender address the provider refuses to
	// send from.
	ErrSenderNotVerified = errors.New("mail: sender address not verified")

	// ErrAllProvidersFailed is returned by the cascade when every
	// configured provider failed; it wraps the last provider error.
	ErrAllProvidersFailed = errors.New("mail: all providers failed")

	// ErrNoProviders is returned when the cascade has zero configured
	// providers. The registry always appends the console provider, so this
	// only happens with a hand-built provider list.
	ErrNoProviders = errors.New("mail: no configured providers")
)
