// Package gateway is the client side of the external long-poll gateway's
// token endpoint. Clients need a token from the gateway before parking a
// connection on a channel; this package fetches one on their behalf using
// the pre-shared secret. Token issuance itself, like connection holding,
// lives in the gateway process, outside this module.
package gateway
