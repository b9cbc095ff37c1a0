package queue

import "time"

// Config holds the worker configuration.
type Config struct {
	BroadcastQueue     string        `env:"LONGPOLL_BROADCAST_QUEUE" envDefault:"broadcast"` // BroadcastQueue is the queue name for asynchronous broadcasts.
	PullInterval       time.Duration `env:"QUEUE_PULL_INTERVAL" envDefault:"1s"`             // PullInterval is how often the worker polls for due tasks.
	LockTimeout        time.Duration `env:"QUEUE_LOCK_TIMEOUT" envDefault:"5m"`              // LockTimeout is how long a claimed task stays locked.
	MaxConcurrentTasks int           `env:"QUEUE_MAX_CONCURRENT_TASKS" envDefault:"10"`      // MaxConcurrentTasks bounds parallel task execution.
}
