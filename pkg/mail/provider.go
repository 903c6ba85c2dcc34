package mail

import "context"

// Provider is one delivery capability behind the fallback cascade.
//
// Configured must be pure (no I/O): it only reports whether the provider has
// the credentials it needs. Send may perform network or disk I/O and must
// resolve every failure path into an error value, never a panic.
type Provider interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, msg Message) error
}
