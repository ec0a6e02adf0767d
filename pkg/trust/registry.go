/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package trust maintains trust anchors and the web-of-trust between them.
package trust

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrAnchorNotFound is returned when the requested DID is not a registered trust anchor.
var ErrAnchorNotFound = errors.New("trust anchor not found")

// Anchor is a DID registered as authoritative for issuing some (or all) credential types.
type Anchor struct {
	DID             string
	CredentialTypes map[string]struct{} // nil means the anchor is trusted for all types
	Description     string
	AddedAt         time.Time
}

// Path is a discovered trust path from a verifier DID to an issuer DID.
type Path struct {
	Path       []string
	TrustScore float64
	Valid      bool
}

// Registry stores trust anchors and directed trust relationships between them,
// and answers direct-trust and transitive path queries. Lookups take a read
// lock so the hot-path membership check stays cheap under concurrent use.
type Registry struct {
	mu      sync.RWMutex
	anchors map[string]*Anchor
	edges   map[string][]string // adjacency in insertion order, BFS tie-break depends on it
}

// New returns an empty trust registry.
func New() *Registry {
	return &Registry{
		anchors: make(map[string]*Anchor),
		edges:   make(map[string][]string),
	}
}

// AddAnchor registers did as a trust anchor. A nil or empty credentialTypes
// slice means the anchor is trusted for all credential types. Re-adding an
// anchor replaces its registration.
func (r *Registry) AddAnchor(did string, credentialTypes []string, description string) {
	anchor := &Anchor{
		DID:         did,
		Description: description,
		AddedAt:     time.Now(),
	}

	if len(credentialTypes) > 0 {
		anchor.CredentialTypes = make(map[string]struct{}, len(credentialTypes))

		for _, ct := range credentialTypes {
			anchor.CredentialTypes[ct] = struct{}{}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.anchors[did] = anchor
}

// RemoveAnchor removes the anchor registration for did. It returns false if
// the DID was not registered. Trust relationship edges are kept since they
// describe the graph, not anchor membership.
func (r *Registry) RemoveAnchor(did string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.anchors[did]; !ok {
		return false
	}

	delete(r.anchors, did)

	return true
}

// GetAnchor returns the registration for did, or ErrAnchorNotFound.
func (r *Registry) GetAnchor(did string) (*Anchor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	anchor, ok := r.anchors[did]
	if !ok {
		return nil, ErrAnchorNotFound
	}

	return copyAnchor(anchor), nil
}

// AddTrustRelationship records a directed trust edge from one DID to another.
// Edges are traversal-only: they feed path discovery and are independent of
// per-anchor credential type filtering. Duplicate edges are ignored.
func (r *Registry) AddTrustRelationship(fromDID, toDID string) {
	if fromDID == "" || toDID == "" || fromDID == toDID {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.edges[fromDID] {
		if existing == toDID {
			return
		}
	}

	r.edges[fromDID] = append(r.edges[fromDID], toDID)
}

// IsTrusted reports whether did is a registered anchor trusted for the given
// credential type. An empty credentialType means the caller does not filter by
// type. This is the O(1) direct-membership check; transitive trust is a
// separate, caller-chosen query via TrustPath.
func (r *Registry) IsTrusted(did, credentialType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	anchor, ok := r.anchors[did]
	if !ok {
		return false
	}

	return anchorCovers(anchor, credentialType)
}

// TrustedIssuers returns the DIDs of all anchors trusted for the given
// credential type, sorted for stable output. An empty credentialType returns
// all anchors.
func (r *Registry) TrustedIssuers(credentialType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var dids []string

	for did, anchor := range r.anchors {
		if anchorCovers(anchor, credentialType) {
			dids = append(dids, did)
		}
	}

	sort.Strings(dids)

	return dids
}

func anchorCovers(anchor *Anchor, credentialType string) bool {
	if anchor.CredentialTypes == nil || credentialType == "" {
		return true
	}

	_, ok := anchor.CredentialTypes[credentialType]

	return ok
}

func copyAnchor(a *Anchor) *Anchor {
	c := &Anchor{
		DID:         a.DID,
		Description: a.Description,
		AddedAt:     a.AddedAt,
	}

	if a.CredentialTypes != nil {
		c.CredentialTypes = make(map[string]struct{}, len(a.CredentialTypes))

		for ct := range a.CredentialTypes {
			c.CredentialTypes[ct] = struct{}{}
		}
	}

	return c
}
