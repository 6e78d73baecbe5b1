package runlock

import "time"

// Config for the cross-process pass lock. An empty ConnectionURL disables it.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                      // ConnectionURL is e.g. "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`            // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`           // RetryInterval is the pause between connection attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`         // ConnectTimeout bounds all connection attempts together.
	Key            string        `env:"REPORT_LOCK_KEY" envDefault:"healthreport:pass"` // Key is the Redis key holding the lock.
	TTL            time.Duration `env:"REPORT_LOCK_TTL" envDefault:"10m"`               // TTL expires a lock left behind by a crashed process.
}

// Enabled reports whether a Redis URL is configured.
func (c Config) Enabled() bool { return c.ConnectionURL != "" }
