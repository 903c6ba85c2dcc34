package mailqueue

import (
	"log/slog"
	"time"
)

// ProcessorOption is a functional option for configuring a Processor.
type ProcessorOption func(*processorOptions)

type processorOptions struct {
	pollInterval         time.Duration
	maxRetries           int
	emptyStreakThreshold int
	suppressionCooldown  time.Duration
	logger               *slog.Logger
}

func defaultProcessorOptions() *processorOptions {
	return &processorOptions{
		pollInterval:         5 * time.Minute,
		maxRetries:           3,
		emptyStreakThreshold: 5,
		suppressionCooldown:  15 * time.Minute,
		logger:               slog.Default(),
	}
}

// WithConfig applies a whole Config at once. Zero values are ignored so a
// partially populated config keeps the defaults.
func WithConfig(cfg Config) ProcessorOption {
	return func(o *processorOptions) {
		if cfg.PollInterval > 0 {
			o.pollInterval = cfg.PollInterval
		}
		if cfg.MaxRetries > 0 {
			o.maxRetries = cfg.MaxRetries
		}
		if cfg.EmptyStreakThreshold > 0 {
			o.emptyStreakThreshold = cfg.EmptyStreakThreshold
		}
		if cfg.SuppressionCooldown > 0 {
			o.suppressionCooldown = cfg.SuppressionCooldown
		}
	}
}

// WithPollInterval sets the steady-state timer interval.
func WithPollInterval(d time.Duration) ProcessorOption {
	return func(o *processorOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithMaxRetries sets the retry cap after which an entry fails permanently.
func WithMaxRetries(n int) ProcessorOption {
	return func(o *processorOptions) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}

// WithEmptyStreakThreshold sets how many consecutive empty ticks switch the
// processor into suppressed polling.
func WithEmptyStreakThreshold(n int) ProcessorOption {
	return func(o *processorOptions) {
		if n > 0 {
			o.emptyStreakThreshold = n
		}
	}
}

// WithSuppressionCooldown sets how long suppressed mode waits between real
// store checks.
func WithSuppressionCooldown(d time.Duration) ProcessorOption {
	return func(o *processorOptions) {
		if d > 0 {
			o.suppressionCooldown = d
		}
	}
}

// WithLogger sets the processor logger.
func WithLogger(log *slog.Logger) ProcessorOption {
	return func(o *processorOptions) {
		if log != nil {
			o.logger = log
		}
	}
}
