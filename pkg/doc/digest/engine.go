/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package digest computes multibase-encoded SHA-256 digests of canonical JSON.
package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"

	"github.com/trustfabric/trustfabric-go/pkg/doc/canonical"
)

// DefaultMaxCacheSize bounds the digest cache when no explicit size is given.
const DefaultMaxCacheSize = 10000

// Option customizes a digest Engine.
type Option func(opts *options)

type options struct {
	cacheEnabled bool
	maxCacheSize int
}

// WithCacheSize sets the maximum number of cached digests.
func WithCacheSize(size int) Option {
	return func(opts *options) {
		opts.maxCacheSize = size
	}
}

// WithCacheDisabled turns digest caching off entirely.
func WithCacheDisabled() Option {
	return func(opts *options) {
		opts.cacheEnabled = false
	}
}

// Engine computes multibase-encoded SHA-256 digests over canonical JSON bytes,
// with an optional bounded LRU cache keyed by the exact input text.
// An Engine is safe for concurrent use.
type Engine struct {
	cache *digestCache // nil when caching is disabled
}

// New returns a digest Engine. Caching is enabled by default with
// DefaultMaxCacheSize entries.
func New(opts ...Option) *Engine {
	o := &options{cacheEnabled: true, maxCacheSize: DefaultMaxCacheSize}

	for _, opt := range opts {
		opt(o)
	}

	e := &Engine{}

	if o.cacheEnabled {
		e.cache = newDigestCache(o.maxCacheSize)
	}

	return e
}

// DigestMultibase returns the multibase (base64url, prefix 'u') encoding of the
// SHA-256 digest of input. If input parses as JSON the digest covers its
// canonical bytes, so semantically equal documents digest identically; if it
// does not parse as JSON the digest covers the raw UTF-8 bytes. Non-JSON input
// is a designed fallback, never an error. Blank input returns
// canonical.ErrInvalidInput.
func (e *Engine) DigestMultibase(input string) (string, error) {
	if e.cache != nil {
		if d, ok := e.cache.get(input); ok {
			return d, nil
		}
	}

	data := []byte(input)

	v, err := canonical.Parse(input)

	switch {
	case err == nil:
		data, err = canonical.MarshalCanonical(v)
		if err != nil {
			return "", fmt.Errorf("marshal canonical form: %w", err)
		}
	case isInvalidJSON(err):
		// raw-bytes fallback for non-JSON text
	default:
		return "", err
	}

	sum := sha256.Sum256(data)

	encoded, err := multibase.Encode(multibase.Base64url, sum[:])
	if err != nil {
		return "", fmt.Errorf("multibase encode digest: %w", err)
	}

	if e.cache != nil {
		e.cache.put(input, encoded)
	}

	return encoded, nil
}

// CacheSize returns the current number of cached digests, 0 when caching is
// disabled.
func (e *Engine) CacheSize() int {
	if e.cache == nil {
		return 0
	}

	return e.cache.len()
}

// CacheHits returns the number of digest requests served from the cache.
func (e *Engine) CacheHits() uint64 {
	if e.cache == nil {
		return 0
	}

	return e.cache.hitCount()
}

// ClearCache drops all cached digests.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.clear()
	}
}

func isInvalidJSON(err error) bool {
	var jsonErr *canonical.InvalidJSONError

	return errors.As(err, &jsonErr)
}
