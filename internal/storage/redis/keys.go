package redis

// Key prefix for all relay data
const keyPrefix = "chatrelay"

// presenceKey returns the Redis key for the mirrored user list
func presenceKey() string {
	return keyPrefix + ":presence"
}
