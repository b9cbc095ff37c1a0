package retention

import "time"

// Config drives the in-process cleanup loop. A zero TTL disables retention
// entirely and events are kept forever.
type Config struct {
	TTL      time.Duration `env:"LONGPOLL_RETENTION_TTL" envDefault:"0"`       // TTL is the maximum event age; 0 keeps events forever.
	Interval time.Duration `env:"LONGPOLL_RETENTION_INTERVAL" envDefault:"1h"` // Interval is how often the cleanup sweep runs.
}
