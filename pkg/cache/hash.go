package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/minio/highwayhash"
)

// hashSeed keys HighwayHash. Changing it invalidates every stored entry.
var hashSeed = []byte("schematic/cache/highwayhash/key!")

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes the 256-bit HighwayHash of data as 64 hex characters.
func Hash(data []byte) string {
	sum := highwayhash.Sum(data, hashSeed)
	return hex.EncodeToString(sum[:])
}
