/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package revocation_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustfabric/trustfabric-go/pkg/anchor"
	"github.com/trustfabric/trustfabric-go/pkg/doc/digest"
	mockanchor "github.com/trustfabric/trustfabric-go/pkg/mock/anchor"
	mockstatuslist "github.com/trustfabric/trustfabric-go/pkg/mock/statuslist"
	"github.com/trustfabric/trustfabric-go/pkg/revocation"
	"github.com/trustfabric/trustfabric-go/pkg/statuslist"
	"github.com/trustfabric/trustfabric-go/pkg/statuslist/mem"
)

type mockProvider struct {
	manager statuslist.Manager
	client  anchor.Client
	digests *digest.Engine
}

func (p *mockProvider) StatusListManager() statuslist.Manager { return p.manager }

func (p *mockProvider) AnchorClient() anchor.Client { return p.client }

func (p *mockProvider) DigestEngine() *digest.Engine { return p.digests }

func newRegistry(t *testing.T, opts ...revocation.Option) (*revocation.Registry, *mockanchor.MockClient) {
	t.Helper()

	client := &mockanchor.MockClient{}

	r, err := revocation.New(&mockProvider{
		manager: mem.NewManager(),
		client:  client,
		digests: digest.New(),
	}, opts...)
	require.NoError(t, err)

	return r, client
}

func TestNew(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, _ := newRegistry(t)
		require.NotNil(t, r)
	})

	t.Run("missing collaborator", func(t *testing.T) {
		_, err := revocation.New(&mockProvider{manager: mem.NewManager()})
		require.Error(t, err)
		require.Contains(t, err.Error(), "requires")
	})

	t.Run("invalid chain id", func(t *testing.T) {
		_, err := revocation.New(&mockProvider{
			manager: mem.NewManager(),
			client:  &mockanchor.MockClient{},
			digests: digest.New(),
		}, revocation.WithChainID("NOT A CHAIN"))
		require.Error(t, err)
	})
}

func TestPeriodicAutoAnchor(t *testing.T) {
	r, client := newRegistry(t, revocation.WithStrategy(
		anchor.PeriodicStrategy{Interval: time.Hour, MaxUpdates: 100}))

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 128)
	require.NoError(t, err)

	ctx := context.Background()

	for i := 0; i < 99; i++ {
		_, err := r.RevokeCredential(ctx, fmt.Sprintf("cred-%d", i), sl.ID)
		require.NoError(t, err)
	}

	require.Zero(t, client.WriteCount())

	pending := r.GetPendingAnchor(sl.ID)
	require.NotNil(t, pending)
	require.Equal(t, 99, pending.UpdateCount)
	require.Nil(t, r.GetLastAnchorTime(sl.ID))

	// the hundredth update crosses the threshold and anchors exactly once
	_, err = r.RevokeCredential(ctx, "cred-99", sl.ID)
	require.NoError(t, err)

	require.Equal(t, 1, client.WriteCount())
	require.Nil(t, r.GetPendingAnchor(sl.ID))
	require.NotNil(t, r.GetLastAnchorTime(sl.ID))

	records := r.AnchorRecords(sl.ID)
	require.Len(t, records, 1)
	require.Equal(t, sl.ID, records[0].StatusListID)
	require.Equal(t, "tx-1", records[0].Ref.TxHash)
	require.True(t, strings.HasPrefix(records[0].Digest, "u"))
}

func TestLazyAnchorsOnVerify(t *testing.T) {
	r, client := newRegistry(t, revocation.WithStrategy(
		anchor.LazyStrategy{MaxStaleness: time.Hour}))

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 1024)
	require.NoError(t, err)

	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_, err := r.RevokeCredential(ctx, fmt.Sprintf("cred-%d", i), sl.ID)
		require.NoError(t, err)
	}

	// lazy never anchors on update, no matter how many accumulate
	require.Zero(t, client.WriteCount())
	require.Equal(t, 1000, r.GetPendingAnchor(sl.ID).UpdateCount)

	status, err := r.CheckRevocationOnChain(ctx, "cred-0", sl.ID, "")
	require.NoError(t, err)
	require.True(t, status.Revoked)
	require.Equal(t, "credential revoked", status.Reason)

	require.Equal(t, 1, client.WriteCount())
	require.Nil(t, r.GetPendingAnchor(sl.ID))

	// a fresh anchor satisfies the staleness bound, no second write
	_, err = r.CheckRevocationOnChain(ctx, "cred-1", sl.ID, "")
	require.NoError(t, err)
	require.Equal(t, 1, client.WriteCount())
}

func TestHybridVerifyAnchor(t *testing.T) {
	r, client := newRegistry(t, revocation.WithStrategy(
		anchor.HybridStrategy{Interval: time.Hour, MaxUpdates: 1000, ForceAnchorOnVerify: true}))

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = r.SuspendCredential(ctx, "cred-1", sl.ID)
	require.NoError(t, err)

	require.Zero(t, client.WriteCount())

	status, err := r.CheckRevocationOnChain(ctx, "cred-1", sl.ID, "")
	require.NoError(t, err)
	require.True(t, status.Suspended)
	require.Equal(t, "credential suspended", status.Reason)
	require.Equal(t, 1, client.WriteCount())

	_, err = r.CheckRevocationOnChain(ctx, "cred-1", sl.ID, "")
	require.NoError(t, err)
	require.Equal(t, 1, client.WriteCount())
}

func TestBatchCountsTowardsThreshold(t *testing.T) {
	r, client := newRegistry(t, revocation.WithStrategy(
		anchor.PeriodicStrategy{Interval: time.Hour, MaxUpdates: 3}))

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	ctx := context.Background()

	err = r.UpdateStatusListBatch(ctx, sl.ID, []statuslist.Update{
		{CredentialID: "cred-1", Status: statuslist.EntryRevoked},
		{CredentialID: "cred-2", Status: statuslist.EntrySuspended},
	})
	require.NoError(t, err)
	require.Zero(t, client.WriteCount())

	result, err := r.RevokeCredentials(ctx, []string{"cred-3"}, sl.ID)
	require.NoError(t, err)
	require.True(t, result["cred-3"])
	require.Equal(t, 1, client.WriteCount())
}

func TestManualAnchor(t *testing.T) {
	r, client := newRegistry(t)

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = r.RevokeCredential(ctx, "cred-1", sl.ID)
	require.NoError(t, err)

	first, err := r.AnchorRevocationList(ctx, sl.ID, "")
	require.NoError(t, err)
	require.Nil(t, r.GetPendingAnchor(sl.ID))

	// manual anchoring is unconditional, a second call writes again
	second, err := r.AnchorRevocationList(ctx, sl.ID, "")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, "tx-1", first.Ref.TxHash)
	require.Equal(t, "tx-2", second.Ref.TxHash)
	require.Equal(t, 2, client.WriteCount())

	records := r.AnchorRecords(sl.ID)
	require.Len(t, records, 2)

	var payload struct {
		StatusListID string `json:"statusListId"`
		Digest       string `json:"digest"`
		ChainID      string `json:"chainId"`
	}

	require.NoError(t, json.Unmarshal(client.Payloads()[0], &payload))
	require.Equal(t, sl.ID, payload.StatusListID)
	require.Equal(t, first.Digest, payload.Digest)
	require.Equal(t, revocation.DefaultChainID, payload.ChainID)
}

func TestAnchorWriteFailure(t *testing.T) {
	r, client := newRegistry(t, revocation.WithStrategy(
		anchor.PeriodicStrategy{Interval: time.Hour, MaxUpdates: 3}))

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	client.WriteErr = errors.New("chain unavailable")

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		changed, err := r.RevokeCredential(ctx, fmt.Sprintf("cred-%d", i), sl.ID)
		require.NoError(t, err)
		require.True(t, changed)
	}

	// the anchor failed but the revocations stuck and pending state survives
	require.Zero(t, client.WriteCount())
	require.Equal(t, 3, r.GetPendingAnchor(sl.ID).UpdateCount)

	var writeErr *revocation.AnchorWriteError

	require.ErrorAs(t, r.LastAnchorError(sl.ID), &writeErr)
	require.Equal(t, sl.ID, writeErr.StatusListID)
	require.Equal(t, revocation.DefaultChainID, writeErr.ChainID)

	status, err := r.CheckRevocationStatus("cred-0", sl.ID)
	require.NoError(t, err)
	require.True(t, status.Revoked)

	client.WriteErr = nil

	// the next mutation is over the threshold again and retries the anchor
	_, err = r.RevokeCredential(ctx, "cred-3", sl.ID)
	require.NoError(t, err)

	require.Equal(t, 1, client.WriteCount())
	require.Nil(t, r.GetPendingAnchor(sl.ID))
	require.NoError(t, r.LastAnchorError(sl.ID))
}

func TestManualAnchorFailurePropagates(t *testing.T) {
	r, client := newRegistry(t)

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	client.WriteErr = errors.New("chain unavailable")

	_, err = r.AnchorRevocationList(context.Background(), sl.ID, "")

	var writeErr *revocation.AnchorWriteError

	require.ErrorAs(t, err, &writeErr)
	require.ErrorIs(t, err, client.WriteErr)
}

func TestVerifyTimeAnchorFailure(t *testing.T) {
	r, client := newRegistry(t, revocation.WithStrategy(
		anchor.LazyStrategy{MaxStaleness: time.Hour}))

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = r.RevokeCredential(ctx, "cred-1", sl.ID)
	require.NoError(t, err)

	client.WriteErr = errors.New("chain unavailable")

	// the check degrades to the off-chain answer instead of failing
	status, err := r.CheckRevocationOnChain(ctx, "cred-2", sl.ID, "")
	require.NoError(t, err)
	require.False(t, status.Revoked)
	require.Equal(t, "status list anchor is stale: last anchor attempt failed", status.Reason)
	require.Error(t, r.LastAnchorError(sl.ID))
}

func TestWriteRetries(t *testing.T) {
	r, client := newRegistry(t, revocation.WithWriteRetries(2, time.Millisecond))

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	attempts := 0

	client.WritePayloadFunc = func(ctx context.Context, payload []byte, mediaType string) (*anchor.Ref, error) {
		attempts++

		if attempts < 3 {
			return nil, errors.New("transient failure")
		}

		return &anchor.Ref{ChainID: revocation.DefaultChainID, TxHash: "tx-retried"}, nil
	}

	record, err := r.AnchorRevocationList(context.Background(), sl.ID, "")
	require.NoError(t, err)
	require.Equal(t, "tx-retried", record.Ref.TxHash)
	require.Equal(t, 3, attempts)
}

func TestChainIDValidation(t *testing.T) {
	r, _ := newRegistry(t)

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = r.AnchorRevocationList(ctx, sl.ID, "NOT A CHAIN")
	require.Error(t, err)

	_, err = r.CheckRevocationOnChain(ctx, "cred-1", sl.ID, "NOT A CHAIN")
	require.Error(t, err)

	// an explicit valid chain id overrides the default on the record
	record, err := r.AnchorRevocationList(ctx, sl.ID, "eip155:1")
	require.NoError(t, err)
	require.Equal(t, sl.ID, record.StatusListID)
}

func TestStatistics(t *testing.T) {
	r, _ := newRegistry(t)

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 128)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = r.RevokeCredential(ctx, "cred-1", sl.ID)
	require.NoError(t, err)

	_, err = r.SuspendCredential(ctx, "cred-2", sl.ID)
	require.NoError(t, err)

	stats, err := r.GetStatusListStatistics(sl.ID)
	require.NoError(t, err)
	require.Equal(t, 128, stats.TotalCapacity)
	require.Equal(t, 2, stats.UsedIndices)
	require.Equal(t, 1, stats.RevokedCount)
	require.Equal(t, 126, stats.AvailableIndices)

	t.Run("unknown list", func(t *testing.T) {
		_, err := r.GetStatusListStatistics("no-such-list")
		require.ErrorIs(t, err, statuslist.ErrStatusListNotFound)
	})
}

func TestStoreFailures(t *testing.T) {
	manager := &mockstatuslist.MockManager{Delegate: mem.NewManager()}

	r, err := revocation.New(&mockProvider{
		manager: manager,
		client:  &mockanchor.MockClient{},
		digests: digest.New(),
	})
	require.NoError(t, err)

	sl, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("revoke", func(t *testing.T) {
		manager.RevokeErr = errors.New("store down")
		defer func() { manager.RevokeErr = nil }()

		_, err := r.RevokeCredential(ctx, "cred-1", sl.ID)
		require.ErrorIs(t, err, manager.RevokeErr)
	})

	t.Run("status", func(t *testing.T) {
		manager.StatusErr = errors.New("store down")
		defer func() { manager.StatusErr = nil }()

		_, err := r.CheckRevocationStatus("cred-1", sl.ID)
		require.ErrorIs(t, err, manager.StatusErr)
	})

	t.Run("anchor when snapshot unavailable", func(t *testing.T) {
		manager.GetErr = errors.New("store down")
		defer func() { manager.GetErr = nil }()

		_, err := r.AnchorRevocationList(ctx, sl.ID, "")

		var writeErr *revocation.AnchorWriteError

		require.ErrorAs(t, err, &writeErr)
		require.ErrorIs(t, err, manager.GetErr)
	})
}

func TestConcurrentListsAnchorIndependently(t *testing.T) {
	r, client := newRegistry(t, revocation.WithStrategy(
		anchor.PeriodicStrategy{Interval: time.Hour, MaxUpdates: 32}))

	ctx := context.Background()

	first, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 64)
	require.NoError(t, err)

	second, err := r.CreateStatusList("did:example:issuer", statuslist.PurposeRevocation, 64)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for _, listID := range []string{first.ID, second.ID} {
		for i := 0; i < 32; i++ {
			wg.Add(1)

			go func(listID string, n int) {
				defer wg.Done()

				_, _ = r.RevokeCredential(ctx, fmt.Sprintf("cred-%d", n), listID)
			}(listID, i)
		}
	}

	wg.Wait()

	// each list crosses the threshold exactly once
	require.Equal(t, 2, client.WriteCount())
	require.Nil(t, r.GetPendingAnchor(first.ID))
	require.Nil(t, r.GetPendingAnchor(second.ID))
	require.Len(t, r.AnchorRecords(first.ID), 1)
	require.Len(t, r.AnchorRecords(second.ID), 1)
}
