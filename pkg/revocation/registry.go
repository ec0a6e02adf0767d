/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package revocation composes the off-chain status list store, the anchor
// timing strategy, the blockchain anchor client and the digest engine into a
// tamper-evident revocation registry.
package revocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/trustfabric/trustfabric-go/pkg/anchor"
	"github.com/trustfabric/trustfabric-go/pkg/common/log"
	"github.com/trustfabric/trustfabric-go/pkg/doc/canonical"
	"github.com/trustfabric/trustfabric-go/pkg/doc/digest"
	"github.com/trustfabric/trustfabric-go/pkg/statuslist"
)

var logger = log.New("trustfabric/revocation")

// DefaultChainID is the chain used when no explicit chain id is configured.
const DefaultChainID = "algorand:testnet"

// AnchorWriteError reports a failed on-chain anchor write. The off-chain
// status mutation that triggered it has already succeeded; pending state is
// preserved so the write can be retried.
type AnchorWriteError struct {
	StatusListID string
	ChainID      string
	Cause        error
}

func (e *AnchorWriteError) Error() string {
	return fmt.Sprintf("anchor write for status list %s on chain %s failed: %v",
		e.StatusListID, e.ChainID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *AnchorWriteError) Unwrap() error {
	return e.Cause
}

// Status is the structured outcome of a revocation check, carrying the reason
// a relying party should log alongside the boolean verdict.
type Status struct {
	CredentialID string
	StatusListID string
	Revoked      bool
	Suspended    bool
	Reason       string
}

type provider interface {
	StatusListManager() statuslist.Manager
	AnchorClient() anchor.Client
	DigestEngine() *digest.Engine
}

// Registry is the blockchain-backed revocation registry. Status mutations go
// to the off-chain status list store (the source of truth); the registry keeps
// per-list pending-anchor bookkeeping and commits a digest of the list
// on-chain when the configured strategy says the accumulated updates are due.
type Registry struct {
	manager  statuslist.Manager
	client   anchor.Client
	digests  *digest.Engine
	strategy anchor.Strategy
	chainID  string

	writeRetries  uint64
	retryInterval time.Duration

	mu         sync.Mutex
	listStates map[string]*listState
}

// listState serializes anchor bookkeeping per status list. Holding its mutex
// across the anchor write gives at-most-one anchor per due condition; states
// of different lists never contend.
type listState struct {
	mu            sync.Mutex
	pending       anchor.PendingAnchor
	records       []*anchor.Record
	lastAnchorErr error
}

// New returns a revocation registry wired to the given collaborators. The
// default strategy is PeriodicStrategy{Interval: 1h, MaxUpdates: 100} on
// DefaultChainID.
func New(ctx provider, opts ...Option) (*Registry, error) {
	r := &Registry{
		manager:       ctx.StatusListManager(),
		client:        ctx.AnchorClient(),
		digests:       ctx.DigestEngine(),
		strategy:      anchor.PeriodicStrategy{Interval: anchor.DefaultInterval, MaxUpdates: anchor.DefaultMaxUpdates},
		chainID:       DefaultChainID,
		retryInterval: time.Second,
		listStates:    make(map[string]*listState),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.manager == nil || r.client == nil || r.digests == nil {
		return nil, errors.New("revocation registry requires a status list manager, an anchor client and a digest engine")
	}

	if _, err := anchor.ParseChainID(r.chainID); err != nil {
		return nil, err
	}

	return r, nil
}

// CreateStatusList provisions a new status list and starts its pending-anchor
// bookkeeping.
func (r *Registry) CreateStatusList(issuerDID string, purpose statuslist.Purpose,
	size int) (*statuslist.StatusList, error) {
	sl, err := r.manager.CreateStatusList(issuerDID, purpose, size)
	if err != nil {
		return nil, fmt.Errorf("create status list: %w", err)
	}

	st := r.state(sl.ID)

	st.mu.Lock()
	st.pending = anchor.PendingAnchor{StatusListID: sl.ID, LastUpdateAt: time.Now()}
	st.mu.Unlock()

	return sl, nil
}

// RevokeCredential marks the credential revoked in the off-chain list, then
// anchors the list if the strategy says the accumulated updates are due. A
// failed auto-anchor is logged and retried on a later mutation; it never fails
// the revocation itself.
func (r *Registry) RevokeCredential(ctx context.Context, credentialID, statusListID string) (bool, error) {
	changed, err := r.manager.RevokeCredential(credentialID, statusListID)
	if err != nil {
		return false, fmt.Errorf("revoke credential %s: %w", credentialID, err)
	}

	r.noteUpdates(ctx, statusListID, 1)

	return changed, nil
}

// SuspendCredential marks the credential suspended, with the same anchor
// behavior as RevokeCredential.
func (r *Registry) SuspendCredential(ctx context.Context, credentialID, statusListID string) (bool, error) {
	changed, err := r.manager.SuspendCredential(credentialID, statusListID)
	if err != nil {
		return false, fmt.Errorf("suspend credential %s: %w", credentialID, err)
	}

	r.noteUpdates(ctx, statusListID, 1)

	return changed, nil
}

// RevokeCredentials revokes a batch of credentials against one list. The
// batch counts once per entry towards the anchor threshold.
func (r *Registry) RevokeCredentials(ctx context.Context, credentialIDs []string,
	statusListID string) (map[string]bool, error) {
	result, err := r.manager.RevokeCredentials(credentialIDs, statusListID)
	if err != nil {
		return nil, fmt.Errorf("revoke credentials: %w", err)
	}

	r.noteUpdates(ctx, statusListID, len(credentialIDs))

	return result, nil
}

// UpdateStatusListBatch applies a mixed batch of status transitions.
func (r *Registry) UpdateStatusListBatch(ctx context.Context, statusListID string,
	updates []statuslist.Update) error {
	if err := r.manager.UpdateStatusListBatch(statusListID, updates); err != nil {
		return fmt.Errorf("update status list batch: %w", err)
	}

	r.noteUpdates(ctx, statusListID, len(updates))

	return nil
}

// CheckRevocationStatus reports the off-chain status of a credential. No chain
// interaction happens on this path.
func (r *Registry) CheckRevocationStatus(credentialID, statusListID string) (*Status, error) {
	s, err := r.manager.CredentialStatus(credentialID, statusListID)
	if err != nil {
		return nil, fmt.Errorf("credential status: %w", err)
	}

	status := &Status{
		CredentialID: credentialID,
		StatusListID: statusListID,
		Revoked:      s.Revoked,
		Suspended:    s.Suspended,
	}

	switch {
	case s.Revoked:
		status.Reason = "credential revoked"
	case s.Suspended:
		status.Reason = "credential suspended"
	}

	return status, nil
}

// CheckRevocationOnChain anchors the list first when the strategy wants
// verify-time freshness (lazy and hybrid strategies), then reports the same
// off-chain status as CheckRevocationStatus. A failed verify-time anchor is
// reported in the status reason rather than failing the check.
func (r *Registry) CheckRevocationOnChain(ctx context.Context, credentialID, statusListID,
	chainID string) (*Status, error) {
	chainID, err := r.resolveChainID(chainID)
	if err != nil {
		return nil, err
	}

	anchorFailed := false

	st := r.state(statusListID)

	st.mu.Lock()

	if r.strategy.ShouldAnchorOnVerify(&st.pending, time.Now()) {
		if _, err := r.anchorLocked(ctx, st, statusListID, chainID); err != nil {
			st.lastAnchorErr = err
			anchorFailed = true

			logger.Warnf("verify-time anchor failed, serving off-chain status: %v", err)
		}
	}

	st.mu.Unlock()

	status, err := r.CheckRevocationStatus(credentialID, statusListID)
	if err != nil {
		return nil, err
	}

	if anchorFailed && status.Reason == "" {
		status.Reason = "status list anchor is stale: last anchor attempt failed"
	}

	return status, nil
}

// AnchorRevocationList performs a manual, unconditional anchor of the list,
// bypassing the strategy. Failures propagate to the caller.
func (r *Registry) AnchorRevocationList(ctx context.Context, statusListID,
	chainID string) (*anchor.Record, error) {
	chainID, err := r.resolveChainID(chainID)
	if err != nil {
		return nil, err
	}

	st := r.state(statusListID)

	st.mu.Lock()
	defer st.mu.Unlock()

	record, err := r.anchorLocked(ctx, st, statusListID, chainID)
	if err != nil {
		st.lastAnchorErr = err

		return nil, err
	}

	return record, nil
}

// GetPendingAnchor returns the pending-anchor bookkeeping for the list, or nil
// when nothing is pending since the last anchor.
func (r *Registry) GetPendingAnchor(statusListID string) *anchor.PendingAnchor {
	st := r.state(statusListID)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.pending.UpdateCount == 0 {
		return nil
	}

	pending := st.pending

	return &pending
}

// GetLastAnchorTime returns when the list was last anchored, or nil if never.
func (r *Registry) GetLastAnchorTime(statusListID string) *time.Time {
	st := r.state(statusListID)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.pending.LastAnchorAt == nil {
		return nil
	}

	t := *st.pending.LastAnchorAt

	return &t
}

// LastAnchorError returns the most recent anchor failure for the list, nil
// after a successful anchor.
func (r *Registry) LastAnchorError(statusListID string) error {
	st := r.state(statusListID)

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.lastAnchorErr
}

// AnchorRecords returns the anchor history of the list, oldest first.
func (r *Registry) AnchorRecords(statusListID string) []*anchor.Record {
	st := r.state(statusListID)

	st.mu.Lock()
	defer st.mu.Unlock()

	records := make([]*anchor.Record, len(st.records))
	copy(records, st.records)

	return records
}

// GetStatusListStatistics summarizes list usage from the off-chain store.
func (r *Registry) GetStatusListStatistics(statusListID string) (*statuslist.Statistics, error) {
	sl, err := r.manager.GetStatusList(statusListID)
	if err != nil {
		return nil, fmt.Errorf("get status list: %w", err)
	}

	return &statuslist.Statistics{
		TotalCapacity:    sl.Size,
		UsedIndices:      sl.UsedIndices,
		RevokedCount:     sl.RevokedCount,
		AvailableIndices: sl.Size - sl.UsedIndices,
	}, nil
}

// noteUpdates records count status mutations against the list and runs the
// strategy-triggered anchor path. All bookkeeping happens under the per-list
// mutex: increments are never lost and a due condition anchors exactly once.
func (r *Registry) noteUpdates(ctx context.Context, statusListID string, count int) {
	if count <= 0 {
		return
	}

	now := time.Now()

	st := r.state(statusListID)

	st.mu.Lock()
	defer st.mu.Unlock()

	st.pending.StatusListID = statusListID
	st.pending.UpdateCount += count
	st.pending.LastUpdateAt = now

	if !r.strategy.ShouldAnchor(&st.pending, now) {
		return
	}

	if _, err := r.anchorLocked(ctx, st, statusListID, r.chainID); err != nil {
		st.lastAnchorErr = err

		logger.Warnf("auto anchor failed, pending state preserved for retry: %v", err)
	}
}

// anchorLocked runs the anchor sequence for one list. The caller must hold
// st.mu. On failure the pending state is left exactly as it was, so a later
// mutation or manual call retries.
func (r *Registry) anchorLocked(ctx context.Context, st *listState, statusListID,
	chainID string) (*anchor.Record, error) {
	sl, err := r.manager.GetStatusList(statusListID)
	if err != nil {
		return nil, &AnchorWriteError{StatusListID: statusListID, ChainID: chainID,
			Cause: fmt.Errorf("get status list: %w", err)}
	}

	listDigest, err := r.statusListDigest(sl)
	if err != nil {
		return nil, &AnchorWriteError{StatusListID: statusListID, ChainID: chainID, Cause: err}
	}

	now := time.Now()

	payload, err := json.Marshal(anchorPayload{
		StatusListID: sl.ID,
		Purpose:      string(sl.Purpose),
		Digest:       listDigest,
		ChainID:      chainID,
		Version:      sl.Version,
		AnchoredAt:   now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, &AnchorWriteError{StatusListID: statusListID, ChainID: chainID,
			Cause: fmt.Errorf("marshal anchor payload: %w", err)}
	}

	ref, err := r.writePayload(ctx, payload)
	if err != nil {
		return nil, &AnchorWriteError{StatusListID: statusListID, ChainID: chainID, Cause: err}
	}

	if ref.ChainID == "" {
		ref.ChainID = chainID
	}

	record := &anchor.Record{
		ID:           uuid.New().String(),
		StatusListID: statusListID,
		Ref:          *ref,
		Digest:       listDigest,
		AnchoredAt:   now,
	}

	st.records = append(st.records, record)
	st.pending.UpdateCount = 0
	st.pending.LastAnchorAt = &record.AnchoredAt
	st.lastAnchorErr = nil

	r.strategy.OnAnchored(statusListID, now)

	logger.Debugf("anchored status list %s on %s (tx %s, digest %s)",
		statusListID, record.Ref.ChainID, record.Ref.TxHash, listDigest)

	return record, nil
}

// statusListDigest digests the canonical JSON form of the list snapshot, so
// any process holding the same snapshot computes the same digest.
func (r *Registry) statusListDigest(sl *statuslist.StatusList) (string, error) {
	doc := map[string]interface{}{
		"id":          sl.ID,
		"issuer":      sl.IssuerDID,
		"purpose":     string(sl.Purpose),
		"size":        sl.Size,
		"encodedList": sl.EncodedList,
		"version":     sl.Version,
	}

	docBytes, err := canonical.MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("marshal status list document: %w", err)
	}

	listDigest, err := r.digests.DigestMultibase(string(docBytes))
	if err != nil {
		return "", fmt.Errorf("digest status list document: %w", err)
	}

	return listDigest, nil
}

func (r *Registry) writePayload(ctx context.Context, payload []byte) (*anchor.Ref, error) {
	var ref *anchor.Ref

	operation := func() error {
		var err error

		ref, err = r.client.WritePayload(ctx, payload, anchor.MediaTypeJSON)

		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.retryInterval), r.writeRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return ref, nil
}

func (r *Registry) resolveChainID(chainID string) (string, error) {
	if chainID == "" {
		return r.chainID, nil
	}

	if _, err := anchor.ParseChainID(chainID); err != nil {
		return "", err
	}

	return chainID, nil
}

// state returns the bookkeeping for a list, creating it on first use so lists
// created directly on the status list manager still get tracked.
func (r *Registry) state(statusListID string) *listState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.listStates[statusListID]
	if !ok {
		st = &listState{pending: anchor.PendingAnchor{StatusListID: statusListID}}
		r.listStates[statusListID] = st
	}

	return st
}

type anchorPayload struct {
	StatusListID string `json:"statusListId"`
	Purpose      string `json:"purpose"`
	Digest       string `json:"digest"`
	ChainID      string `json:"chainId"`
	Version      int    `json:"version"`
	AnchoredAt   string `json:"anchoredAt"`
}
