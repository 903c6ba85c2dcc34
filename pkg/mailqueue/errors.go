package mailqueue

import "errors"

var (
	// ErrStoreNil is returned when a nil store is provided.
	ErrStoreNil = errors.New("mailqueue: store cannot be nil")

	// ErrCascadeNil is returned when a nil provider cascade is provided.
	ErrCascadeNil = errors.New("mailqueue: provider cascade cannot be nil")

	// ErrNoPendingEntries is returned by NextPending when no eligible row
	// exists. This is the normal idle case, not a failure.
	ErrNoPendingEntries = errors.New("mailqueue: no pending entries")

	// ErrEntryNotFound is returned when an id does not match any row.
	ErrEntryNotFound = errors.New("mailqueue: entry not found")

	// ErrEnqueueFailed wraps store errors during submission.
	ErrEnqueueFailed = errors.New("mailqueue: failed to enqueue entry")

	// ErrAlreadyStarted is returned when Start is called on a running
	// processor.
	ErrAlreadyStarted = errors.New("mailqueue: processor already started")

	// ErrNotStarted is returned when Stop is called on a stopped processor.
	ErrNotStarted = errors.New("mailqueue: processor not started")
)
