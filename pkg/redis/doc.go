// Package redis connects to the redis server used as the broadcast medium
// for wake-up signals. It wraps go-redis with a retrying Connect and a
// health-check helper; configuration comes from environment variables via
// the Config struct.
package redis
