// Package mailqueue implements the durable delivery queue behind the mail
// provider cascade: a store holding one row per submitted message, a timer
// driven processor that drains it with retry bookkeeping, and the Submit
// facade callers use.
//
// Lifecycle of an entry:
//
//	pending → processing → sent               success, terminal
//	pending → processing → pending            retry, loops until the cap
//	pending → processing → failed             retries exhausted, terminal
//
// The retry count never exceeds the configured maximum; a failed entry is
// never resurrected automatically, inspection of failed rows is an
// administrative concern.
//
// A single processor drains one shared queue, one entry at a time, in FIFO
// order by creation time. A high-priority submission triggers one extra
// immediate pass; it never reorders the queue. When the queue stays empty
// the processor backs off into a suppressed mode that polls the store at
// most once per cooldown window.
//
// Wiring:
//
//	store := mailqueue.NewPgStore(pool)
//	proc, _ := mailqueue.NewProcessor(store, registry, mailqueue.WithConfig(cfg))
//	svc, _ := mailqueue.NewService(store, registry, proc, log)
//
//	accepted := svc.Submit(ctx, msg)
//
// Two Store implementations exist: PgStore over pgx for production and
// MemoryStore for tests and local development.
package mailqueue
