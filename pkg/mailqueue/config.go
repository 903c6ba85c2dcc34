package mailqueue

import "time"

// Config holds the queue processor tuning knobs. Unset values fall back to
// environment-dependent defaults, see ApplyEnvironmentDefaults.
type Config struct {
	PollInterval         time.Duration `env:"MAIL_QUEUE_POLL_INTERVAL"`
	MaxRetries           int           `env:"MAIL_QUEUE_MAX_RETRIES"`
	EmptyStreakThreshold int           `env:"MAIL_QUEUE_EMPTY_STREAK_THRESHOLD" envDefault:"5"`
	SuppressionCooldown  time.Duration `env:"MAIL_QUEUE_SUPPRESSION_COOLDOWN" envDefault:"15m"`
}

// ApplyEnvironmentDefaults fills unset interval and retry values based on
// the deployment environment: production drains on a relaxed five minute
// timer with a strict retry cap, everything else polls quickly and retries
// more generously for fast feedback during development.
func (c Config) ApplyEnvironmentDefaults(production bool) Config {
	if c.PollInterval == 0 {
		if production {
			c.PollInterval = 5 * time.Minute
		} else {
			c.PollInterval = 30 * time.Second
		}
	}
	if c.MaxRetries == 0 {
		if production {
			c.MaxRetries = 3
		} else {
			c.MaxRetries = 5
		}
	}
	return c
}
