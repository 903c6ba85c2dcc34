package mailqueue

import (
	"context"

	"github.com/google/uuid"
)

// Store is the durable queue behind the processor. Nothing counts as sent
// until the store says so. All operations are single-row and atomic with
// respect to the id; the single-worker model makes cross-row transactions
// unnecessary.
type Store interface {
	// Enqueue inserts a new pending entry and returns its id.
	Enqueue(ctx context.Context, entry Entry) (uuid.UUID, error)

	// NextPending returns the oldest pending entry whose retry count is
	// still under maxRetries, FIFO by creation time. Returns
	// ErrNoPendingEntries when the queue is drained.
	NextPending(ctx context.Context, maxRetries int) (Entry, error)

	// MarkProcessing claims the entry for a delivery attempt.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkSent records a successful delivery and the provider that won.
	// Idempotent: a second call on a sent entry is a no-op.
	MarkSent(ctx context.Context, id uuid.UUID, provider string) error

	// MarkRetryOrFailed increments the retry count and either returns the
	// entry to pending or, once maxRetries is reached, fails it
	// permanently with errMsg as the recorded reason.
	MarkRetryOrFailed(ctx context.Context, id uuid.UUID, errMsg, provider string, maxRetries int) error
}
