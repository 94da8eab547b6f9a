package redis

import (
	"time"

	"github.com/google/uuid"
)

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// Namespace isolates one server process from another. Session state is
	// not meant to survive a restart, so every process gets a fresh one.
	Namespace string

	// PlayerTTL bounds how long a player outlives its last read or write.
	// It only clears keys left behind by a process that died. Rooms carry
	// no TTL: the idle-room janitor owns their eviction.
	PlayerTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		Namespace:    uuid.NewString()[:8],
		PlayerTTL:    24 * time.Hour,
	}
}
