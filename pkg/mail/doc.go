// Package mail defines the outbound message model and the delivery
// provider cascade.
//
// A Provider is one delivery capability: Postmark and Brevo hand messages
// to their transactional email APIs, the console provider dumps them to the
// process log, and the file provider writes them to disk for inspection
// during development. The Registry holds the configured providers in a
// fixed order and walks them until one succeeds.
//
// Providers are stateless with respect to individual messages; anything
// they hold (HTTP clients, config) is process-wide and initialized once at
// startup.
//
// Building the cascade and sending:
//
//	reg := mail.NewRegistry(cfg, log)
//	provider, err := reg.SendWithFallback(ctx, mail.Message{
//		To:       []string{"user@example.com"},
//		Subject:  "Welcome",
//		BodyHTML: html,
//	})
//
// The cascade always terminates in the console provider, so SendWithFallback
// only fails when a configured remote provider rejects the message and the
// local fallbacks cannot write either.
package mail
