package cache

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrCacheMiss is returned by CacheService implementations when a key is absent
var ErrCacheMiss = errors.New("cache miss")

// CacheService represents a generic key/value cache with expiry
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// PartnerBlocklist records partner hosts that answered with a rate-limit
// status so that imports against them fail fast until the entry expires.
type PartnerBlocklist struct {
	cache     CacheService
	blockTime time.Duration
}

// MinBlockTime is the shortest block. Memcache reads a zero expiration as
// "never expires", so shorter durations are raised to it.
const MinBlockTime = time.Second

// NewPartnerBlocklist creates a blocklist on top of a cache service
func NewPartnerBlocklist(cache CacheService, blockTime time.Duration) *PartnerBlocklist {
	if blockTime < MinBlockTime {
		blockTime = MinBlockTime
	}
	return &PartnerBlocklist{cache: cache, blockTime: blockTime}
}

// BlockTime returns how long a host stays blocked
func (b *PartnerBlocklist) BlockTime() time.Duration {
	return b.blockTime
}

// Blocked reports whether host is currently blocked. Cache errors other
// than a miss are returned so the caller can decide to ignore them.
func (b *PartnerBlocklist) Blocked(host string) (bool, error) {
	_, err := b.cache.Get(blockKey(host))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	return false, err
}

// Block marks host as rate limited for the configured block time
func (b *PartnerBlocklist) Block(host string) error {
	seconds := strconv.Itoa(int(b.blockTime / time.Second))
	return b.cache.Set(blockKey(host), []byte(seconds), b.blockTime)
}

// Unblock removes host from the blocklist
func (b *PartnerBlocklist) Unblock(host string) error {
	err := b.cache.Delete(blockKey(host))
	if errors.Is(err, ErrCacheMiss) {
		return nil
	}
	return err
}

// blockKey builds a memcache-safe key (no spaces or control characters)
func blockKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return "partner_rate_limited:" + strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return '_'
		}
		return r
	}, host)
}
