// Package hash implements the consistent bucketing used by percentage
// rollout strategies and by weighted variant selection. Bucket
// assignment is a pure function of (identity, groupId), which is what
// makes rollout monotonic: raising a percentage never flips an
// already-enabled identity back off.
package hash

import (
	"math/rand"

	"github.com/twmb/murmur3"
)

const separator = ":"

// Normalized maps an identity within a group to a bucket in
// [0, normalizer). The same inputs always produce the same bucket.
//
// An empty identity has no stable bucket; it draws uniformly at random
// for that single call. Callers that need stability must supply an
// identity.
func Normalized(identity, groupID string, normalizer uint32) uint32 {
	if normalizer == 0 {
		return 0
	}
	if identity == "" {
		return uint32(rand.Int63n(int64(normalizer)))
	}
	return murmur3.StringSum32(groupID+separator+identity) % normalizer
}

// Bucket maps an identity within a group to a percentage bucket in
// [0, 100).
func Bucket(identity, groupID string) int {
	return int(Normalized(identity, groupID, 100))
}
