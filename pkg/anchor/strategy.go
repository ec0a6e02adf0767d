/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anchor

import (
	"time"
)

// Default periodic strategy settings.
const (
	DefaultInterval   = time.Hour
	DefaultMaxUpdates = 100
)

// Strategy decides when accumulated status-list updates are worth an on-chain
// anchor. Implementations are pure decision functions over the pending state.
//
// The set of strategies is closed (Periodic, Lazy, Hybrid): the unexported
// marker keeps the decision points exhaustive over known variants.
type Strategy interface {
	// ShouldAnchor is evaluated after every status mutation.
	ShouldAnchor(pending *PendingAnchor, now time.Time) bool

	// ShouldAnchorOnVerify is evaluated at verification time, before an
	// on-chain revocation check.
	ShouldAnchorOnVerify(pending *PendingAnchor, now time.Time) bool

	// OnAnchored notifies the strategy of a successful anchor write.
	OnAnchored(statusListID string, now time.Time)

	strategy()
}

// PeriodicStrategy anchors on an update-count threshold or after a fixed
// interval since the last anchor, whichever comes first.
type PeriodicStrategy struct {
	Interval   time.Duration
	MaxUpdates int
}

// ShouldAnchor returns true when the update threshold or the interval is reached.
func (s PeriodicStrategy) ShouldAnchor(pending *PendingAnchor, now time.Time) bool {
	if pending == nil {
		return false
	}

	if pending.UpdateCount >= s.MaxUpdates {
		return true
	}

	// the interval clock starts at the first anchor; before that only the
	// update threshold triggers, otherwise every first update would anchor
	if pending.LastAnchorAt == nil {
		return false
	}

	return now.Sub(*pending.LastAnchorAt) >= s.Interval
}

// ShouldAnchorOnVerify always returns false: periodic anchoring is driven by
// updates, not by verification.
func (s PeriodicStrategy) ShouldAnchorOnVerify(*PendingAnchor, time.Time) bool {
	return false
}

// OnAnchored is a no-op for the periodic strategy.
func (s PeriodicStrategy) OnAnchored(string, time.Time) {}

func (s PeriodicStrategy) strategy() {}

// LazyStrategy never anchors on update; it anchors only when a verifier asks
// for on-chain freshness and the last anchor is older than MaxStaleness.
type LazyStrategy struct {
	MaxStaleness time.Duration
}

// ShouldAnchor always returns false: lazy anchoring pays the write cost only
// when a verifier needs it.
func (s LazyStrategy) ShouldAnchor(*PendingAnchor, time.Time) bool {
	return false
}

// ShouldAnchorOnVerify returns true when the list has never been anchored or
// the anchor is staler than MaxStaleness.
func (s LazyStrategy) ShouldAnchorOnVerify(pending *PendingAnchor, now time.Time) bool {
	if pending == nil {
		return false
	}

	if pending.LastAnchorAt == nil {
		return true
	}

	return now.Sub(*pending.LastAnchorAt) >= s.MaxStaleness
}

// OnAnchored is a no-op for the lazy strategy.
func (s LazyStrategy) OnAnchored(string, time.Time) {}

func (s LazyStrategy) strategy() {}

// HybridStrategy anchors periodically on update and, optionally, also at
// verification time when the periodic interval has lapsed.
type HybridStrategy struct {
	Interval            time.Duration
	MaxUpdates          int
	ForceAnchorOnVerify bool
}

// ShouldAnchor applies the periodic decision with the hybrid settings.
func (s HybridStrategy) ShouldAnchor(pending *PendingAnchor, now time.Time) bool {
	return PeriodicStrategy{Interval: s.Interval, MaxUpdates: s.MaxUpdates}.ShouldAnchor(pending, now)
}

// ShouldAnchorOnVerify applies the lazy decision with the periodic interval as
// staleness bound, but only when ForceAnchorOnVerify is set.
func (s HybridStrategy) ShouldAnchorOnVerify(pending *PendingAnchor, now time.Time) bool {
	if !s.ForceAnchorOnVerify {
		return false
	}

	return LazyStrategy{MaxStaleness: s.Interval}.ShouldAnchorOnVerify(pending, now)
}

// OnAnchored is a no-op for the hybrid strategy.
func (s HybridStrategy) OnAnchored(string, time.Time) {}

func (s HybridStrategy) strategy() {}
