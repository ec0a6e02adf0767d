/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package revocation

import (
	"time"

	"github.com/trustfabric/trustfabric-go/pkg/anchor"
)

// Option is a revocation registry instance option.
type Option func(r *Registry)

// WithStrategy sets the anchor timing strategy.
func WithStrategy(s anchor.Strategy) Option {
	return func(r *Registry) {
		r.strategy = s
	}
}

// WithChainID sets the default CAIP-2 chain id for anchor writes. The id is
// validated in New.
func WithChainID(chainID string) Option {
	return func(r *Registry) {
		r.chainID = chainID
	}
}

// WithWriteRetries retries failed anchor writes up to retries times, waiting
// interval between attempts. The default is no retry.
func WithWriteRetries(retries uint64, interval time.Duration) Option {
	return func(r *Registry) {
		r.writeRetries = retries

		if interval > 0 {
			r.retryInterval = interval
		}
	}
}
