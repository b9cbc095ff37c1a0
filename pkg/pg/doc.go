// Package pg bootstraps the PostgreSQL layer backing the event log:
// a pgxpool connection with retry, goose schema migrations and a
// health-check helper. Configuration comes from environment variables via
// the Config struct.
package pg
