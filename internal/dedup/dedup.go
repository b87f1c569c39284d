// Package dedup tracks already-processed inbox messages in Redis so a
// message is not pushed through the screening pipeline twice. Because the
// monitor never marks messages seen on the server, unseen searches can
// return the same message across cycles; this filter short-circuits them.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a seen message ID is remembered. Candidate
	// upserts are idempotent, so expiry only costs a redundant reprocess.
	DefaultTTL = 7 * 24 * time.Hour

	// keyPrefix namespaces dedup keys in Redis.
	keyPrefix = "screening:seen:"
)

// Filter tracks which message IDs have already been processed. A nil
// *Filter is valid and reports every message as new, which is the mode
// used when Redis is not configured.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a dedup filter backed by Redis.
func NewFilter(rdb *redis.Client) *Filter {
	return &Filter{
		rdb: rdb,
		ttl: DefaultTTL,
	}
}

// IsNew returns true if the message ID has NOT been seen before.
// If true, the message is marked as seen atomically (SETNX).
func (f *Filter) IsNew(ctx context.Context, messageID string) (bool, error) {
	if f == nil {
		return true, nil
	}

	key := fmt.Sprintf("%s%s", keyPrefix, messageID)

	set, err := f.rdb.SetNX(ctx, key, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}

	return set, nil
}
