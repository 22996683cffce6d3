package openai

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/formflow/openai-addon/internal/host"
)

const transientPrefix = "openai_cache_"

// FetchFunc performs the actual upstream call on a cache miss.
type FetchFunc func(*Request) (*Response, error)

// ResponseCache avoids duplicate upstream calls when the same exact request
// recurs within a short window, e.g. merge-tag re-evaluation during
// rendering. Tier 1 lives for the processing session; tier 2 is the host's
// transient store with a fixed TTL. Only successes are cached: a failure is
// always re-attempted rather than masked by a stale entry.
type ResponseCache struct {
	mu        sync.Mutex
	runtime   map[string]*Response
	transient host.TransientStore
	ttl       time.Duration
}

// NewResponseCache creates a cache over the given transient store.
func NewResponseCache(transient host.TransientStore, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{
		runtime:   make(map[string]*Response),
		transient: transient,
		ttl:       ttl,
	}
}

// GetOrFetch returns the cached response for the request or calls fetch and
// caches a successful result in both tiers.
func (c *ResponseCache) GetOrFetch(req *Request, fetch FetchFunc) (*Response, error) {
	key, err := CacheKey(req)
	if err != nil {
		// An unhashable request is still serviceable, just never cached.
		return fetch(req)
	}

	c.mu.Lock()
	cached, ok := c.runtime[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	if c.transient != nil {
		if body, ok := c.transient.Get(transientPrefix + key); ok {
			resp := &Response{Body: body}
			c.mu.Lock()
			c.runtime[key] = resp
			c.mu.Unlock()
			return resp, nil
		}
	}

	resp, err := fetch(req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.runtime[key] = resp
	c.mu.Unlock()
	if c.transient != nil {
		c.transient.Set(transientPrefix+key, resp.Body, c.ttl)
	}

	return resp, nil
}

// CacheKey computes a stable hash of endpoint, body and transport params.
// The body is round-tripped through JSON so map key order never influences
// the digest; headers marshal sorted by key.
func CacheKey(req *Request) (string, error) {
	rawBody, err := json.Marshal(req.Body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	var canonicalBody any
	if err := json.Unmarshal(rawBody, &canonicalBody); err != nil {
		return "", fmt.Errorf("failed to canonicalize request body: %w", err)
	}

	canonical, err := json.Marshal(struct {
		Endpoint string            `json:"endpoint"`
		Body     any               `json:"body"`
		Headers  map[string]string `json:"headers"`
		Timeout  float64           `json:"timeout"`
	}{
		Endpoint: req.Endpoint.String(),
		Body:     canonicalBody,
		Headers:  req.Params.Headers,
		Timeout:  req.Params.Timeout.Seconds(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key: %w", err)
	}

	sum := sha1.Sum(canonical)
	return hex.EncodeToString(sum[:]), nil
}
