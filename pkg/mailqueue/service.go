package mailqueue

import (
	"context"
	"log/slog"

	"github.com/baustructura/notifier/pkg/mail"
)

// Service is the single entry point external callers use to submit
// messages. Everything past Submit is fire and forget: provider and store
// errors are absorbed into queue-entry state, the caller only ever sees a
// best-effort boolean acknowledgement.
type Service struct {
	store     Store
	cascade   Cascade
	processor *Processor
	log       *slog.Logger
}

// NewService creates the delivery facade. The processor is optional; without
// one, high-priority submissions are accepted but drain on the next
// scheduled pass of whatever processor owns the store.
func NewService(store Store, cascade Cascade, processor *Processor, log *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if cascade == nil {
		return nil, ErrCascadeNil
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:     store,
		cascade:   cascade,
		processor: processor,
		log:       log,
	}, nil
}

// Submit validates the message, persists it to the queue and acknowledges.
// High-priority messages additionally trigger one synchronous processing
// pass so they do not wait for the next scheduled tick.
//
// If the store itself is unreachable, the message is handed to the first
// configured provider directly as a last resort, and the acknowledgement
// reflects that single attempt.
func (s *Service) Submit(ctx context.Context, msg mail.Message) bool {
	if err := msg.Validate(); err != nil {
		s.log.WarnContext(ctx, "rejected invalid message",
			slog.String("error", err.Error()))
		return false
	}

	id, err := s.store.Enqueue(ctx, NewEntry(msg))
	if err != nil {
		s.log.ErrorContext(ctx, "queue unreachable, attempting direct send",
			slog.String("error", err.Error()))

		provider, sendErr := s.cascade.SendDirect(ctx, msg)
		if sendErr != nil {
			s.log.ErrorContext(ctx, "direct send failed, message dropped",
				slog.String("provider", provider),
				slog.String("error", sendErr.Error()))
			return false
		}
		s.log.InfoContext(ctx, "message sent directly, bypassing queue",
			slog.String("provider", provider))
		return true
	}

	s.log.DebugContext(ctx, "message queued",
		slog.String("entry_id", id.String()),
		slog.String("priority", string(msg.Priority)))

	if msg.HighPriority() && s.processor != nil {
		s.processor.Trigger(ctx)
	}
	return true
}
