package eventbot

import "time"

// Config defines the tunable behavior of the engine. Instances are intended
// to be configured during initialization and then treated as immutable.
type Config struct {
	Session SessionConfig
	Backend BackendConfig
	Flows   FlowConfig
	Audit   AuditConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the Redis token store.
type SessionConfig struct {
	RedisPrefix string
	// TTL is the sliding idle window of a cached token pair. Every read and
	// write resets it; an untouched session is evicted afterward no matter
	// what the access token's own expiry claim says.
	TTL time.Duration
}

/*
====================================
BACKEND CONFIG
====================================
*/

// BackendConfig controls the HTTP client against the university REST API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

/*
====================================
FLOW CONFIG
====================================
*/

// FlowConfig controls the conversation flows.
type FlowConfig struct {
	// PrivilegedRole is the backend role allowed to start event creation.
	PrivilegedRole string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix: "et",
			TTL:         time.Hour,
		},
		Backend: BackendConfig{
			Timeout: 10 * time.Second,
		},
		Flows: FlowConfig{
			PrivilegedRole: "teacher",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}
