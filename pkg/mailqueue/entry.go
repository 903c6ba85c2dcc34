package mailqueue

import (
	"time"

	"github.com/google/uuid"

	"github.com/baustructura/notifier/pkg/mail"
)

// Status is the delivery lifecycle state of a queue entry.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Entry is one durable record representing a single message's delivery
// lifecycle. It is created by Service.Submit and mutated only by the
// Processor; callers never touch it after creation. Rows are never deleted
// here, retention is an external concern.
type Entry struct {
	ID         uuid.UUID
	Message    mail.Message
	Status     Status
	RetryCount int
	CreatedAt  time.Time
	SentAt     *time.Time
	Error      string
	Provider   string
}

// NewEntry builds a pending entry for a validated message.
func NewEntry(msg mail.Message) Entry {
	return Entry{
		ID:        uuid.New(),
		Message:   msg,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// The transition helpers below are the queue's state machine, kept pure so
// it can be tested without any storage. Stores apply the same rules: the
// in-memory store calls these directly, the postgres store encodes them in
// single-row UPDATE statements.

// withProcessing claims a pending entry for a delivery attempt.
func (e Entry) withProcessing() Entry {
	if e.Status != StatusPending {
		return e
	}
	e.Status = StatusProcessing
	return e
}

// withSent marks a successful delivery. Sent is terminal: applying it to an
// already sent entry changes nothing, so a duplicate MarkSent cannot
// regress the status.
func (e Entry) withSent(provider string, now time.Time) Entry {
	if e.Status == StatusSent {
		return e
	}
	e.Status = StatusSent
	e.SentAt = &now
	e.Provider = provider
	return e
}

// withFailedAttempt records one failed delivery attempt: the retry count is
// incremented and the entry either returns to pending for a later pass or,
// once the count reaches maxRetries, becomes permanently failed.
func (e Entry) withFailedAttempt(errMsg, provider string, maxRetries int) Entry {
	if e.Status == StatusSent || e.Status == StatusFailed {
		return e
	}
	e.RetryCount++
	e.Error = errMsg
	e.Provider = provider
	if e.RetryCount >= maxRetries {
		e.Status = StatusFailed
	} else {
		e.Status = StatusPending
	}
	return e
}
