package mailqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/baustructura/notifier/pkg/mail"
)

// Cascade is the provider fallback the processor hands entries to.
// Implemented by mail.Registry.
type Cascade interface {
	SendWithFallback(ctx context.Context, msg mail.Message) (string, error)
	SendDirect(ctx context.Context, msg mail.Message) (string, error)
}

// Processor drains the queue on a timer: each tick fetches the oldest
// eligible pending entry, claims it, attempts delivery through the cascade
// and writes the outcome back. At most one entry is in flight at a time.
//
// When several consecutive ticks find nothing, the processor enters a
// suppressed mode and stops querying the store until a cooldown window has
// elapsed. The streak and cooldown reset the moment work is found.
type Processor struct {
	store   Store
	cascade Cascade
	log     *slog.Logger

	pollInterval         time.Duration
	maxRetries           int
	emptyStreakThreshold int
	suppressionCooldown  time.Duration

	// claimMu serializes fetch-and-mark-processing between the scheduled
	// tick and the out-of-band high-priority tick, so both cannot observe
	// the same oldest pending row.
	claimMu     sync.Mutex
	emptyStreak int
	lastCheck   time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProcessor creates a queue processor. Both the store and the cascade
// are required.
func NewProcessor(store Store, cascade Cascade, opts ...ProcessorOption) (*Processor, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if cascade == nil {
		return nil, ErrCascadeNil
	}

	options := defaultProcessorOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Processor{
		store:                store,
		cascade:              cascade,
		log:                  options.logger,
		pollInterval:         options.pollInterval,
		maxRetries:           options.maxRetries,
		emptyStreakThreshold: options.emptyStreakThreshold,
		suppressionCooldown:  options.suppressionCooldown,
	}, nil
}

// Start begins the timer-driven processing loop in the background.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(loopCtx)

	p.log.Info("queue processor started",
		slog.Duration("poll_interval", p.pollInterval),
		slog.Int("max_retries", p.maxRetries))
	return nil
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (p *Processor) Stop() error {
	p.mu.Lock()
	if p.cancel == nil {
		p.mu.Unlock()
		return ErrNotStarted
	}
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	<-done

	p.log.Info("queue processor stopped")
	return nil
}

// Run returns a function suitable for errgroup: it starts the processor,
// blocks until the context is done and then stops it.
func (p *Processor) Run(ctx context.Context) func() error {
	return func() error {
		if err := p.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return p.Stop()
	}
}

func (p *Processor) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one scheduled processing pass. In suppressed mode it only
// checks the wall clock and returns without touching the store.
func (p *Processor) Tick(ctx context.Context) {
	p.processOne(ctx, false)
}

// Trigger runs an immediate out-of-band pass for a high-priority
// submission. It bypasses suppression: the caller just enqueued an entry,
// so the queue is known to be non-empty.
func (p *Processor) Trigger(ctx context.Context) {
	p.processOne(ctx, true)
}

func (p *Processor) processOne(ctx context.Context, force bool) {
	p.claimMu.Lock()
	defer p.claimMu.Unlock()

	if !force && p.suppressed() {
		return
	}

	entry, err := p.store.NextPending(ctx, p.maxRetries)
	switch {
	case errors.Is(err, ErrNoPendingEntries):
		p.emptyStreak++
		if p.emptyStreak == p.emptyStreakThreshold {
			p.lastCheck = time.Now()
			p.log.Debug("queue idle, entering suppressed polling",
				slog.Int("empty_streak", p.emptyStreak),
				slog.Duration("cooldown", p.suppressionCooldown))
		}
		return
	case err != nil:
		// Store failure: abandon this tick, the next one retries from
		// scratch.
		p.log.Error("failed to read queue, abandoning tick",
			slog.String("error", err.Error()))
		return
	}

	p.emptyStreak = 0

	if err := p.store.MarkProcessing(ctx, entry.ID); err != nil {
		p.log.Error("failed to claim entry, abandoning tick",
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	start := time.Now()
	provider, sendErr := p.cascade.SendWithFallback(ctx, entry.Message)
	if sendErr != nil {
		// Provider failure only affects this entry's retry bookkeeping,
		// never the process.
		if err := p.store.MarkRetryOrFailed(ctx, entry.ID, sendErr.Error(), provider, p.maxRetries); err != nil {
			p.log.Error("failed to record delivery failure",
				slog.String("entry_id", entry.ID.String()),
				slog.String("error", err.Error()))
			return
		}
		p.log.Warn("delivery attempt failed",
			slog.String("entry_id", entry.ID.String()),
			slog.Int("retry_count", entry.RetryCount+1),
			slog.Int("max_retries", p.maxRetries),
			slog.String("error", sendErr.Error()))
		return
	}

	if err := p.store.MarkSent(ctx, entry.ID, provider); err != nil {
		p.log.Error("failed to record delivery success",
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	p.log.Info("entry delivered",
		slog.String("entry_id", entry.ID.String()),
		slog.String("provider", provider),
		slog.Duration("duration", time.Since(start)))
}

// suppressed reports whether this tick should skip the store. Once the
// empty streak reaches the threshold, real fetches happen at most once per
// cooldown window; lastCheck advances only when a window elapses.
func (p *Processor) suppressed() bool {
	if p.emptyStreak < p.emptyStreakThreshold {
		return false
	}
	if time.Since(p.lastCheck) < p.suppressionCooldown {
		return true
	}
	p.lastCheck = time.Now()
	return false
}
